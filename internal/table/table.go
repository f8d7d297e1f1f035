// Package table defines the in-memory dataset representation shared by all
// pipeline stages: an ordered column list plus rows of loosely typed cells.
//
// Cell values are nil (missing), string, int64, float64, or time.Time. The
// loader produces string/int64/float64 cells; the cleaner upgrades selected
// string columns to time.Time.
package table

import "fmt"

// Record is a single row keyed by column name. A missing or empty source
// cell is represented as nil, never as the empty string.
type Record map[string]any

// Table is a named, column-ordered collection of Records. Rows are expected
// (but not enforced) to contain exactly the keys listed in Columns.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

// New returns an empty Table with the given name and column order.
func New(name string, columns []string) *Table {
	return &Table{Name: name, Columns: append([]string(nil), columns...)}
}

// Append adds a row to the table.
func (t *Table) Append(r Record) { t.Rows = append(t.Rows, r) }

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.Columns) }

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Select returns a new table containing only the named columns, in the given
// order. Rows are shallow projections of the originals. It fails if any
// requested column is absent.
func (t *Table) Select(cols ...string) (*Table, error) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("select %s: no column %q", t.Name, c)
		}
	}
	out := New(t.Name, cols)
	out.Rows = make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		proj := make(Record, len(cols))
		for _, c := range cols {
			proj[c] = r[c]
		}
		out.Rows = append(out.Rows, proj)
	}
	return out, nil
}

// MissingCells counts nil cells across all rows and columns. Used by the
// inspection tool's per-file report.
func (t *Table) MissingCells() int {
	var n int
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			if r[c] == nil {
				n++
			}
		}
	}
	return n
}
