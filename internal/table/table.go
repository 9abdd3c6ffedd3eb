// ABOUTME: In-memory CSV table with an ordered header and string cells.
// ABOUTME: Columns are added or removed uniformly across every row.

package table

import (
	"fmt"

	apperrors "github.com/2389/demoseed/internal/errors"
)

// Table is a fully materialized CSV: a header row plus data rows.
// Every row has exactly len(Header) cells; an empty cell is a missing value.
type Table struct {
	Header []string
	Rows   [][]string
}

// New creates an empty table with the given columns.
func New(header ...string) *Table {
	return &Table{Header: append([]string(nil), header...)}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Require fails with a missing_column error naming the first absent column.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if !t.Has(name) {
			return apperrors.New(apperrors.ErrMissingColumn, "required column not found").WithField(name)
		}
	}
	return nil
}

// Get returns the cell at row i in the named column, or "" if the column is absent.
func (t *Table) Get(i int, name string) string {
	idx := t.Index(name)
	if idx < 0 {
		return ""
	}
	return t.Rows[i][idx]
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// SetColumn replaces the named column's values in place, or appends the column
// at the end if it does not exist yet. len(values) must equal Len().
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.Rows))
	}

	if idx := t.Index(name); idx >= 0 {
		for i, row := range t.Rows {
			row[idx] = values[i]
		}
		return nil
	}

	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// DropColumn removes the named column and reports whether it existed.
func (t *Table) DropColumn(name string) bool {
	idx := t.Index(name)
	if idx < 0 {
		return false
	}
	t.Header = append(t.Header[:idx:idx], t.Header[idx+1:]...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:idx:idx], row[idx+1:]...)
	}
	return true
}

// AppendRow adds a data row. The row must have one value per column.
func (t *Table) AppendRow(values ...string) error {
	if len(values) != len(t.Header) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Header))
	}
	t.Rows = append(t.Rows, append([]string(nil), values...))
	return nil
}

// Record returns row i as a column name to value map.
func (t *Table) Record(i int) map[string]string {
	rec := make(map[string]string, len(t.Header))
	for j, h := range t.Header {
		rec[h] = t.Rows[i][j]
	}
	return rec
}
