package table

import (
	"fmt"
	"strings"
)

// Parse scans text once and returns the table it describes, or the first
// *QuoteError or *RowShapeError found. When hasHeader is true the first row
// becomes the header.
//
// delimiter must be a single character other than a quote, carriage return
// or newline.
func Parse(text string, delimiter rune, hasHeader bool) (*Table, error) {
	if err := checkDelimiter(delimiter); err != nil {
		return nil, err
	}

	s := newScanner(delimiter, hasHeader)
	for _, c := range text {
		if c == '\r' {
			continue
		}
		if err := s.step(c); err != nil {
			return nil, err
		}
	}
	// A final line without a terminator is still a row.
	if err := s.step('\n'); err != nil {
		return nil, err
	}
	return s.finish()
}

func checkDelimiter(d rune) error {
	switch d {
	case 0, quote, '\r', '\n':
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}
	return nil
}

// scanner holds the state of one Parse call.
type scanner struct {
	delimiter  rune
	wantHeader bool

	insideQuote bool
	prev        rune
	field       strings.Builder
	row         []string

	// expected is the field count of the last accepted row; zero until the
	// first row (header or data) is accepted.
	expected int
	accepted int
	headerOK bool

	table *Table
}

func newScanner(delimiter rune, hasHeader bool) *scanner {
	return &scanner{
		delimiter:  delimiter,
		wantHeader: hasHeader,
		table:      New(),
	}
}

func (s *scanner) step(c rune) error {
	// Consecutive newlines act as one terminator.
	if c == '\n' && s.prev == '\n' {
		return nil
	}
	s.prev = c

	if (c != '\n' && c != s.delimiter) || (s.insideQuote && c == s.delimiter) {
		s.field.WriteRune(c)
	}

	if c == quote {
		s.insideQuote = !s.insideQuote
	}
	if s.insideQuote {
		return nil
	}

	if c == s.delimiter || (c == '\n' && s.field.Len() > 0) {
		if err := s.endField(); err != nil {
			return err
		}
	}

	if c == '\n' && len(s.row) > 0 {
		return s.endRow()
	}
	return nil
}

func (s *scanner) endField() error {
	raw := s.field.String()
	if kind, ok := ValidateField(raw); !ok {
		return &QuoteError{
			Kind:   kind,
			Row:    s.accepted + 1,
			Column: len(s.row) + 1,
			Value:  raw,
		}
	}
	s.row = append(s.row, NormalizeField(raw))
	s.field.Reset()
	return nil
}

func (s *scanner) endRow() error {
	found := len(s.row)
	if s.expected > 0 && found != s.expected {
		return &RowShapeError{
			Row:      s.accepted + 1,
			Expected: s.expected,
			Found:    found,
		}
	}
	s.expected = found

	if s.wantHeader && !s.headerOK {
		s.table.SetHeader(s.row)
		s.headerOK = true
	} else {
		s.table.AppendRow(s.row)
		s.accepted++
	}
	s.row = s.row[:0]
	return nil
}

func (s *scanner) finish() (*Table, error) {
	if s.insideQuote {
		return nil, &QuoteError{
			Kind:   UnterminatedQuote,
			Row:    s.accepted + 1,
			Column: len(s.row) + 1,
			Value:  s.field.String(),
		}
	}
	return s.table, nil
}
