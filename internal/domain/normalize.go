package domain

import (
	"fmt"
	"slices"
)

// Normalize maps a table onto the canonical columns. A table that has already
// been normalized is returned unchanged. Otherwise the first column is parsed
// as a date on a copy and the columns are renamed positionally. Tables that
// do not have exactly eight columns fail with ErrSchemaMismatch.
func Normalize(t Table) (Table, error) {
	if t.normalized {
		return t, nil
	}

	canonical := CanonicalColumns()
	if len(t.Columns) != len(canonical) {
		return Table{}, fmt.Errorf("%w: expected %d columns, got %d", ErrSchemaMismatch, len(canonical), len(t.Columns))
	}

	out := t.clone()
	for i := range out.Rows {
		row := &out.Rows[i]
		if len(row.Cells) != len(canonical) {
			return Table{}, fmt.Errorf("%w: row %d has %d cells", ErrSchemaMismatch, i, len(row.Cells))
		}
		row.Date = ParseDate(row.Cells[DateIndex])
	}

	out.Columns = canonical
	out.normalized = true
	return out, nil
}

// IsCanonical reports whether columns equal the canonical list exactly.
func IsCanonical(columns []string) bool {
	return slices.Equal(columns, CanonicalColumns())
}
