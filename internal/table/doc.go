// Package table turns delimiter-separated text (CSV, TSV) into a rectangular
// table and reports precisely where malformed input fails.
//
// # Parsing
//
// [Parse] makes a single left-to-right pass over an in-memory text buffer:
//
//	t, err := table.Parse("Name,Type\nvalue1,int\n", ',', true)
//	if err != nil {
//	    // *table.QuoteError or *table.RowShapeError
//	}
//	t.Header()  // ["Name", "Type"]
//	t.Row(0)    // ["value1", "int"]
//
// Carriage returns are dropped, so CRLF input behaves like LF input. A run of
// newline characters counts as a single row terminator, which means blank
// lines are skipped rather than reported. Newlines inside a quoted field are
// dropped from the field's value; delimiters inside quotes are kept.
//
// # Quoting rules
//
// Each raw field is checked by [ValidateField] before [NormalizeField]
// strips its outer quotes and collapses escaped (doubled) quotes:
//
//	"a ""b"" c"   ->  a "b" c
//	a""b          ->  InvalidEscape (doubled quote outside an outer-quoted field)
//	"a"b"         ->  InvalidQuote  (lone interior quote)
//
// # Errors
//
// Parsing stops at the first problem. Quote errors carry the 1-indexed row and
// column and the offending raw field text; row-shape errors carry the row and
// the expected and found field counts. Both unwrap to sentinels
// ([ErrInvalidQuote], [ErrInvalidEscape], [ErrUnterminatedQuote],
// [ErrFieldCount]) and can be recovered with [AsValidationError].
//
// Rows are numbered by accepted data rows, not physical lines: a header row
// does not advance the count, so the first data row is row 1 whether or not
// a header was requested.
//
// # Concurrency
//
// Parse shares no state between calls and may be run from any goroutine. A
// returned [Table] is never modified again; its accessors hand out copies.
package table
