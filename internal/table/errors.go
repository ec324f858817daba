package table

import (
	"errors"
	"fmt"
)

// maxValueRunes is how much of an offending value an error message shows.
const maxValueRunes = 64

var (
	// ErrInvalidQuote is the cause of a QuoteError for a lone or unbalanced interior quote.
	ErrInvalidQuote = errors.New("table: unbalanced quote")
	// ErrInvalidEscape is the cause of a QuoteError for a doubled quote in a field without outer quotes.
	ErrInvalidEscape = errors.New("table: escaped quote in unquoted field")
	// ErrUnterminatedQuote is the cause of a QuoteError for a quote still open at end of input.
	ErrUnterminatedQuote = errors.New("table: unterminated quote")
	// ErrFieldCount is the cause of a RowShapeError.
	ErrFieldCount = errors.New("table: wrong number of fields")
	// ErrInvalidDelimiter is returned by Parse for a delimiter that cannot separate fields.
	ErrInvalidDelimiter = errors.New("table: invalid delimiter")
)

// QuoteErrorKind classifies malformed quoting within a single field.
type QuoteErrorKind int

const (
	InvalidQuote QuoteErrorKind = iota + 1
	InvalidEscape
	UnterminatedQuote
)

// String returns the user-facing description of the kind.
func (k QuoteErrorKind) String() string {
	switch k {
	case InvalidQuote:
		return "Unbalanced quote error"
	case InvalidEscape:
		return "Unquoted field with escaped quote error"
	case UnterminatedQuote:
		return "Unterminated outer quote error"
	default:
		return "Unknown quote error"
	}
}

// Name returns a short machine-readable name for the kind.
func (k QuoteErrorKind) Name() string {
	switch k {
	case InvalidQuote:
		return "invalid_quote"
	case InvalidEscape:
		return "invalid_escape"
	case UnterminatedQuote:
		return "unterminated_quote"
	default:
		return "unknown"
	}
}

func (k QuoteErrorKind) sentinel() error {
	switch k {
	case InvalidQuote:
		return ErrInvalidQuote
	case InvalidEscape:
		return ErrInvalidEscape
	case UnterminatedQuote:
		return ErrUnterminatedQuote
	default:
		return nil
	}
}

// ValidationError is implemented by the two error families Parse returns:
// *QuoteError and *RowShapeError.
type ValidationError interface {
	error
	// Position returns the 1-indexed row and column of the failure.
	// Column is zero for row-shape errors.
	Position() (row, column int)
	validation()
}

// QuoteError reports malformed quoting in one field.
// Value holds the raw field text, before any unescaping.
type QuoteError struct {
	Kind   QuoteErrorKind
	Row    int
	Column int
	Value  string
}

// Error formats the message shown to users.
func (e *QuoteError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("At row %d. %s in column: %d, value: %s",
		e.Row, e.Kind, e.Column, truncateRunes(e.Value, maxValueRunes))
}

// Unwrap returns the sentinel matching Kind.
func (e *QuoteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind.sentinel()
}

func (e *QuoteError) Position() (int, int) { return e.Row, e.Column }

func (*QuoteError) validation() {}

// RowShapeError reports a row whose field count differs from the row before it.
type RowShapeError struct {
	Row      int
	Expected int
	Found    int
}

func (e *RowShapeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("At row %d. Field count mismatch. Expected: %d, Found: %d",
		e.Row, e.Expected, e.Found)
}

// Unwrap returns ErrFieldCount.
func (e *RowShapeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrFieldCount
}

func (e *RowShapeError) Position() (int, int) { return e.Row, 0 }

func (*RowShapeError) validation() {}

// AsValidationError reports whether err (or anything it wraps) is a
// validation error from Parse, and returns it.
func AsValidationError(err error) (ValidationError, bool) {
	var qe *QuoteError
	if errors.As(err, &qe) {
		return qe, true
	}
	var re *RowShapeError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
