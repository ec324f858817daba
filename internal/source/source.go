// Package source loads delimited text from disk or memory and prepares it for
// the table parser.
//
// Loading is whole-file: the table engine scans a complete string, so there is
// no streaming reader here. Input must be UTF-8; a leading byte order mark is
// removed and anything that is not valid UTF-8 is rejected rather than
// repaired, because a silently rewritten cell is worse than a clear error.
//
// Every failure is a *Error whose Kind tells the caller what went wrong
// (missing file, permissions, size limit, encoding). These never overlap with
// the parser's quote and row-shape errors.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/JonMunkholm/csvview/internal/table"
)

// Kind classifies a load failure.
type Kind int

const (
	NotFound Kind = iota + 1
	Permission
	TooLarge
	Encoding
	Unsupported
	Read
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "file not found"
	case Permission:
		return "permission denied"
	case TooLarge:
		return "file too large"
	case Encoding:
		return "encoding error"
	case Unsupported:
		return "unsupported file type"
	case Read:
		return "read error"
	default:
		return "unknown source error"
	}
}

// Error is returned by every function in this package.
type Error struct {
	Kind Kind
	Path string // empty for in-memory data
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// ReadFile reads the whole file at path and decodes it with Decode. A
// maxSize of zero or less disables the size check.
func ReadFile(path string, maxSize int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", statError(path, err)
	}
	if info.IsDir() {
		return "", &Error{Kind: Unsupported, Path: path, Err: errors.New("is a directory")}
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", tooLarge(path, info.Size(), maxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", statError(path, err)
	}
	defer f.Close()

	// The file may grow between Stat and Read; never hold more than the limit.
	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &Error{Kind: Read, Path: path, Err: err}
	}
	if maxSize > 0 && int64(len(raw)) > maxSize {
		return "", tooLarge(path, int64(len(raw)), maxSize)
	}

	text, err := Decode(raw)
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Path = path
		}
		return "", err
	}
	return text, nil
}

// Decode validates raw as UTF-8 and strips a leading byte order mark.
func Decode(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", &Error{Kind: Encoding, Err: fmt.Errorf("invalid UTF-8 at byte %d", firstInvalid(raw))}
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &Error{Kind: Encoding, Err: err}
	}
	return string(out), nil
}

// DelimiterFor picks the delimiter from a file name: comma for .csv, tab for
// .tsv and .txt.
func DelimiterFor(path string) (rune, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ',', nil
	case ".tsv", ".txt":
		return '\t', nil
	}
	return 0, &Error{Kind: Unsupported, Path: path, Err: errors.New("expected .csv, .tsv or .txt")}
}

// ParseDelimiter turns a user supplied name or character into a delimiter.
// It accepts "comma", "tab", "semicolon", "pipe", the escape `\t`, or any
// single character except a quote or line break. An empty string means comma.
// Rejected values wrap table.ErrInvalidDelimiter.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "comma", "csv":
		return ',', nil
	case "tab", "tsv", `\t`:
		return '\t', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("%w %q: must be a single character", table.ErrInvalidDelimiter, s)
	}
	switch r {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("%w %q: quotes and line breaks are not allowed", table.ErrInvalidDelimiter, s)
	}
	return r, nil
}

// DelimiterName is the inverse of ParseDelimiter for display.
func DelimiterName(d rune) string {
	switch d {
	case ',':
		return "comma"
	case '\t':
		return "tab"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	}
	return string(d)
}

func statError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Error{Kind: NotFound, Path: path}
	case errors.Is(err, fs.ErrPermission):
		return &Error{Kind: Permission, Path: path}
	}
	return &Error{Kind: Read, Path: path, Err: err}
}

func tooLarge(path string, size, limit int64) error {
	return &Error{
		Kind: TooLarge,
		Path: path,
		Err:  fmt.Errorf("%d bytes exceeds limit of %d", size, limit),
	}
}

func firstInvalid(raw []byte) int {
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(raw)
}
