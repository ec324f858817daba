package table

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *QuoteError
		want string
	}{
		{
			name: "unterminated",
			err:  &QuoteError{Kind: UnterminatedQuote, Row: 1, Column: 1, Value: `"value1,string,abc`},
			want: `At row 1. Unterminated outer quote error in column: 1, value: "value1,string,abc`,
		},
		{
			name: "invalid quote",
			err:  &QuoteError{Kind: InvalidQuote, Row: 4, Column: 2, Value: `a"b`},
			want: `At row 4. Unbalanced quote error in column: 2, value: a"b`,
		},
		{
			name: "invalid escape",
			err:  &QuoteError{Kind: InvalidEscape, Row: 2, Column: 3, Value: `a""bc`},
			want: `At row 2. Unquoted field with escaped quote error in column: 3, value: a""bc`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestQuoteError_TruncatesValueByRune(t *testing.T) {
	long := strings.Repeat("é", 100)
	err := &QuoteError{Kind: InvalidQuote, Row: 1, Column: 1, Value: long}

	want := "At row 1. Unbalanced quote error in column: 1, value: " + strings.Repeat("é", 64)
	assert.Equal(t, want, err.Error())
	// The stored value is not truncated.
	assert.Equal(t, long, err.Value)
}

func TestRowShapeError_Message(t *testing.T) {
	err := &RowShapeError{Row: 1, Expected: 3, Found: 2}
	assert.Equal(t, "At row 1. Field count mismatch. Expected: 3, Found: 2", err.Error())
}

func TestErrors_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &QuoteError{Kind: InvalidQuote}, ErrInvalidQuote)
	assert.ErrorIs(t, &QuoteError{Kind: InvalidEscape}, ErrInvalidEscape)
	assert.ErrorIs(t, &QuoteError{Kind: UnterminatedQuote}, ErrUnterminatedQuote)
	assert.ErrorIs(t, &RowShapeError{}, ErrFieldCount)
	assert.NotErrorIs(t, &QuoteError{Kind: InvalidQuote}, ErrFieldCount)
}

func TestAsValidationError(t *testing.T) {
	wrapped := fmt.Errorf("open data.csv: %w", &RowShapeError{Row: 2, Expected: 3, Found: 1})

	ve, ok := AsValidationError(wrapped)
	require.True(t, ok)
	row, col := ve.Position()
	assert.Equal(t, 2, row)
	assert.Equal(t, 0, col)

	ve, ok = AsValidationError(&QuoteError{Kind: InvalidQuote, Row: 5, Column: 7})
	require.True(t, ok)
	row, col = ve.Position()
	assert.Equal(t, 5, row)
	assert.Equal(t, 7, col)

	_, ok = AsValidationError(errors.New("disk on fire"))
	assert.False(t, ok)
}

func TestQuoteErrorKind_Strings(t *testing.T) {
	assert.Equal(t, "invalid_quote", InvalidQuote.Name())
	assert.Equal(t, "invalid_escape", InvalidEscape.Name())
	assert.Equal(t, "unterminated_quote", UnterminatedQuote.Name())
	assert.Equal(t, "Unknown quote error", QuoteErrorKind(0).String())
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 64))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
	assert.Equal(t, "", truncateRunes("abc", 0))
}
