package main

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/csvview/internal/source"
	"github.com/JonMunkholm/csvview/internal/table"
)

// parseOptions are the flags of commands that parse files.
type parseOptions struct {
	header    bool
	delimiter string
}

// delimiterFor returns --delimiter when set, else the one for path's
// extension. Standard input defaults to comma.
func (o parseOptions) delimiterFor(path string) (rune, error) {
	if o.delimiter != "" {
		return source.ParseDelimiter(o.delimiter)
	}
	if path == "-" {
		return ',', nil
	}
	return source.DelimiterFor(path)
}

// loadTable reads and parses path, or stdin when path is "-".
func loadTable(path string, stdin io.Reader, opts parseOptions, maxSize int64) (*table.Table, rune, error) {
	delim, err := opts.delimiterFor(path)
	if err != nil {
		return nil, 0, err
	}

	var text string
	if path == "-" {
		text, err = readStdin(stdin, maxSize)
	} else {
		text, err = source.ReadFile(path, maxSize)
	}
	if err != nil {
		return nil, 0, err
	}

	t, err := table.Parse(text, delim, opts.header)
	if err != nil {
		return nil, 0, err
	}
	return t, delim, nil
}

// readStdin reads all of r. Like source.ReadFile, a maxSize of zero or
// less disables the limit.
func readStdin(r io.Reader, maxSize int64) (string, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &source.Error{Kind: source.Read, Path: "stdin", Err: err}
	}
	if maxSize > 0 && int64(len(raw)) > maxSize {
		return "", &source.Error{
			Kind: source.TooLarge,
			Path: "stdin",
			Err:  fmt.Errorf("input exceeds limit of %d bytes", maxSize),
		}
	}
	text, err := source.Decode(raw)
	if se, ok := err.(*source.Error); ok {
		se.Path = "stdin"
	}
	return text, err
}
