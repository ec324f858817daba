package table

import (
	"bufio"
	"io"
	"strings"
)

// Encode writes t as delimited text, header first when present, one row per
// line with LF endings. For any table returned by Parse, parsing the output
// with the same delimiter yields an equal table.
//
// A field is quoted when it is empty or contains the delimiter, a quote or a
// line break. Quoting empty fields keeps a trailing empty cell, which Parse
// would otherwise drop.
func (t *Table) Encode(w io.Writer, delimiter rune) error {
	if err := checkDelimiter(delimiter); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if len(t.header) > 0 {
		writeRecord(bw, t.header, delimiter)
	}
	for i := 0; i < t.rows; i++ {
		writeRecord(bw, t.data[i*t.columns:(i+1)*t.columns], delimiter)
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string, delimiter rune) {
	for i, f := range fields {
		if i > 0 {
			w.WriteRune(delimiter)
		}
		if !needsQuotes(f, delimiter) {
			w.WriteString(f)
			continue
		}
		w.WriteByte(quote)
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte(quote)
	}
	w.WriteByte('\n')
}

func needsQuotes(field string, delimiter rune) bool {
	return field == "" ||
		strings.ContainsRune(field, delimiter) ||
		strings.ContainsAny(field, "\"\r\n")
}
