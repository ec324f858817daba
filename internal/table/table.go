package table

import "slices"

// Table is the rectangular result of a successful Parse.
//
// Data is stored flat in row-major order, so len(Data()) is always
// Columns()*Rows(). A Table built by Parse is never modified afterwards.
type Table struct {
	header  []string
	data    []string
	columns int
	rows    int
}

// New returns an empty table with no header, no rows and no column count.
func New() *Table {
	return &Table{}
}

// SetHeader stores the header row. It panics if a column count has already
// been established and fields does not match it; the scanner checks row
// shape before it gets here, so a panic means a caller bug.
func (t *Table) SetHeader(fields []string) {
	if t.columns > 0 && len(fields) != t.columns {
		panic("table: column mismatch when setting the header")
	}
	t.header = slices.Clone(fields)
	t.columns = len(fields)
}

// AppendRow adds one data row. Like SetHeader it panics on a field count
// that disagrees with the established column count, or on an empty row.
func (t *Table) AppendRow(fields []string) {
	if len(fields) == 0 {
		panic("table: cannot append an empty row")
	}
	if t.columns > 0 && len(fields) != t.columns {
		panic("table: column mismatch when appending a row")
	}
	t.data = append(t.data, fields...)
	t.columns = len(fields)
	t.rows++
}

// Columns returns the number of fields per row.
func (t *Table) Columns() int { return t.columns }

// Rows returns the number of data rows, not counting the header.
func (t *Table) Rows() int { return t.rows }

// Len returns the number of data cells.
func (t *Table) Len() int { return t.columns * t.rows }

// HasHeader reports whether a header row was captured.
func (t *Table) HasHeader() bool { return len(t.header) > 0 }

// HasData reports whether at least one data row was captured.
func (t *Table) HasData() bool { return t.rows > 0 }

// Header returns a copy of the header row; empty when there is none.
func (t *Table) Header() []string { return slices.Clone(t.header) }

// Data returns a copy of all data cells in row-major order.
func (t *Table) Data() []string { return slices.Clone(t.data) }

// Row returns a copy of data row i (0-indexed). It returns nil when i is
// out of range.
func (t *Table) Row(i int) []string {
	if i < 0 || i >= t.rows {
		return nil
	}
	start := i * t.columns
	return slices.Clone(t.data[start : start+t.columns])
}

// Records returns the data as one slice per row.
func (t *Table) Records() [][]string {
	out := make([][]string, t.rows)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Cell returns the value at data row and column (both 0-indexed).
func (t *Table) Cell(row, col int) (string, bool) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.columns {
		return "", false
	}
	return t.data[row*t.columns+col], true
}

// Equal reports whether two tables have the same header, data and shape.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.columns == other.columns &&
		t.rows == other.rows &&
		slices.Equal(t.header, other.header) &&
		slices.Equal(t.data, other.data)
}
