package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/csvview/internal/source"
	"github.com/JonMunkholm/csvview/internal/table"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error", err: nil, wantCode: ""},
		{name: "invalid quote", err: &table.QuoteError{Kind: table.InvalidQuote}, wantCode: "CSV001"},
		{name: "invalid escape", err: &table.QuoteError{Kind: table.InvalidEscape}, wantCode: "CSV002"},
		{name: "unterminated quote", err: &table.QuoteError{Kind: table.UnterminatedQuote}, wantCode: "CSV003"},
		{name: "wrapped row shape", err: fmt.Errorf("open x: %w", &table.RowShapeError{Row: 2}), wantCode: "CSV004"},
		{name: "too large", err: &source.Error{Kind: source.TooLarge}, wantCode: "FILE001"},
		{name: "not found", err: &source.Error{Kind: source.NotFound, Path: "x.csv"}, wantCode: "FILE002"},
		{name: "decode", err: &source.Error{Kind: source.Encoding}, wantCode: "FILE003"},
		{name: "no file text", err: errors.New("no file provided"), wantCode: "FILE004"},
		{name: "permission", err: &source.Error{Kind: source.Permission}, wantCode: "FILE005"},
		{name: "unsupported", err: &source.Error{Kind: source.Unsupported}, wantCode: "FILE006"},
		{name: "read", err: &source.Error{Kind: source.Read}, wantCode: "FILE007"},
		{name: "busy", err: ErrTooManyParses, wantCode: "PARSE001"},
		{name: "cancelled", err: context.Canceled, wantCode: "PARSE002"},
		{name: "deadline", err: fmt.Errorf("parse: %w", context.DeadlineExceeded), wantCode: "PARSE003"},
		{name: "invalid delimiter", err: fmt.Errorf("%w: '\"'", table.ErrInvalidDelimiter), wantCode: "PARSE004"},
		{name: "delimiter text", err: errors.New(`delimiter ",,": must be a single character`), wantCode: "PARSE004"},
		{name: "invalid query", err: fmt.Errorf("%w: empty", ErrInvalidQuery), wantCode: "PARSE005"},
		{name: "no document", err: ErrNoDocument, wantCode: "DOC001"},
		{name: "bad request text", err: errors.New("invalid request: header must be a boolean"), wantCode: "REQ001"},
		{name: "rate limit text", err: errors.New("Rate limit exceeded"), wantCode: "RATE001"},
		{name: "body too large text", err: errors.New("http: request body too large"), wantCode: "FILE001"},
		{name: "unknown", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, MapError(tt.err).Code)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	assert.Equal(t, "", FormatUserError(nil))
	assert.Equal(t,
		"No document is open (Code: DOC001). Open or upload a file first",
		FormatUserError(ErrNoDocument))
}

func TestIsUserFacing(t *testing.T) {
	assert.False(t, IsUserFacing(nil))
	assert.False(t, IsUserFacing(errors.New("disk on fire")))
	assert.True(t, IsUserFacing(&table.RowShapeError{}))
}

func TestMapError_AllCodesHaveText(t *testing.T) {
	seen := map[string]bool{}
	for _, err := range []error{
		&table.QuoteError{Kind: table.InvalidQuote},
		&table.QuoteError{Kind: table.InvalidEscape},
		&table.QuoteError{Kind: table.UnterminatedQuote},
		&table.RowShapeError{},
		ErrTooManyParses, ErrNoDocument, ErrInvalidQuery,
	} {
		msg := MapError(err)
		assert.NotEmpty(t, msg.Message, msg.Code)
		assert.NotEmpty(t, msg.Action, msg.Code)
		assert.False(t, seen[msg.Code], "duplicate code %s", msg.Code)
		seen[msg.Code] = true
	}
}
