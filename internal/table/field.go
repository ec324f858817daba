package table

import "strings"

const quote = '"'

// ValidateField checks the quote placement of one raw field, before any
// quotes are stripped. When ok is false, kind says what is wrong.
//
// Quotes strictly between the first and last character must come in
// adjacent pairs, and a pair is only a legal escape when the field itself
// is wrapped in outer quotes.
func ValidateField(field string) (kind QuoteErrorKind, ok bool) {
	runes := []rune(field)
	outer := hasOuterQuotes(runes)

	var interior []int
	for i, r := range runes {
		if r == quote && i > 0 && i < len(runes)-1 {
			interior = append(interior, i)
		}
	}

	if len(interior)%2 != 0 {
		return InvalidQuote, false
	}

	for i := 0; i < len(interior); i += 2 {
		if interior[i+1]-interior[i] > 1 {
			return InvalidQuote, false
		}
		if !outer {
			return InvalidEscape, false
		}
	}

	return 0, true
}

// NormalizeField strips a matching pair of outer quotes and collapses every
// doubled quote into one. It expects a field that passed ValidateField.
func NormalizeField(field string) string {
	runes := []rune(field)
	if hasOuterQuotes(runes) {
		field = string(runes[1 : len(runes)-1])
	}
	return strings.ReplaceAll(field, `""`, `"`)
}

// hasOuterQuotes reports whether the field starts and ends with a quote.
// A lone quote character does not count as a pair.
func hasOuterQuotes(runes []rune) bool {
	return len(runes) >= 2 && runes[0] == quote && runes[len(runes)-1] == quote
}
