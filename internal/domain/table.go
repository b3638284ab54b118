package domain

import (
	"slices"
	"strconv"
	"time"
)

// Canonical column names, in canonical order.
const (
	ColumnDate      = "DATE"
	ColumnLocation  = "LOCATION"
	ColumnReference = "REFERENCE"
	ColumnDirection = "DIRECTION"
	ColumnStart     = "START"
	ColumnEnd       = "END"
	ColumnStatus    = "STATUS"
	ColumnSub       = "SUB"
)

// Positional indexes of the canonical columns.
const (
	DateIndex = iota
	LocationIndex
	ReferenceIndex
	DirectionIndex
	StartIndex
	EndIndex
	StatusIndex
	SubIndex
)

// ZeroFill replaces every empty cell at load time.
const ZeroFill = "0"

// CanonicalColumns returns the eight canonical column names in order.
func CanonicalColumns() []string {
	return []string{
		ColumnDate, ColumnLocation, ColumnReference, ColumnDirection,
		ColumnStart, ColumnEnd, ColumnStatus, ColumnSub,
	}
}

// Cell is a raw spreadsheet value.
type Cell struct {
	Text   string
	Filled bool // the source cell was empty and Text holds ZeroFill
}

// Date is a calendar date that may be missing. The zero value is the
// missing-date marker.
type Date struct {
	time.Time
	Valid bool
}

// NewDate returns a valid Date truncated to midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// NewerThan reports whether d is more recent than other. A missing date is older
// than any valid one.
func (d Date) NewerThan(other Date) bool {
	switch {
	case !d.Valid:
		return false
	case !other.Valid:
		return true
	default:
		return d.Time.After(other.Time)
	}
}

// Row is one sheet row. Date is populated by Normalize and Year by
// FilterByLocation.
type Row struct {
	Cells []Cell
	Date  Date
	Year  int
}

// Location returns the LOCATION cell text of a normalized row.
func (r Row) Location() string {
	return r.text(LocationIndex)
}

// Field returns the text of the cell at index i, or "" when out of range.
func (r Row) Field(i int) string {
	return r.text(i)
}

func (r Row) text(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i].Text
}

func (r Row) clone() Row {
	r.Cells = slices.Clone(r.Cells)
	return r
}

// Table is an in-memory sheet: a header plus zero-filled rows.
type Table struct {
	Columns []string
	Rows    []Row

	normalized bool
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Normalized reports whether t has been through Normalize.
func (t Table) Normalized() bool {
	return t.normalized
}

// FilledCells counts cells that were empty in the source.
func (t Table) FilledCells() int {
	n := 0
	for _, row := range t.Rows {
		for _, c := range row.Cells {
			if c.Filled {
				n++
			}
		}
	}
	return n
}

// MissingDates counts rows of a normalized table without a valid DATE.
func (t Table) MissingDates() int {
	n := 0
	for _, row := range t.Rows {
		if !row.Date.Valid {
			n++
		}
	}
	return n
}

// YearSpan returns the earliest and latest year among valid dates of a
// normalized table. ok is false when no row has a valid date.
func (t Table) YearSpan() (first, last int, ok bool) {
	for _, row := range t.Rows {
		if !row.Date.Valid {
			continue
		}
		y := row.Date.Year()
		if !ok || y < first {
			first = y
		}
		if !ok || y > last {
			last = y
		}
		ok = true
	}
	return first, last, ok
}

func (t Table) clone() Table {
	out := Table{
		Columns:    slices.Clone(t.Columns),
		Rows:       make([]Row, len(t.Rows)),
		normalized: t.normalized,
	}
	for i, row := range t.Rows {
		out.Rows[i] = row.clone()
	}
	return out
}

// NewTable builds a table from a header and raw row values. The table is
// widened to its longest row, blank header names become "Unnamed: <i>", and
// every empty cell is replaced with ZeroFill and flagged.
func NewTable(columns []string, rows [][]string) Table {
	width := len(columns)
	for _, r := range rows {
		width = max(width, len(r))
	}

	t := Table{
		Columns: make([]string, width),
		Rows:    make([]Row, 0, len(rows)),
	}
	for i := range width {
		if i < len(columns) && columns[i] != "" {
			t.Columns[i] = columns[i]
			continue
		}
		t.Columns[i] = "Unnamed: " + strconv.Itoa(i)
	}

	for _, r := range rows {
		cells := make([]Cell, width)
		for i := range cells {
			if i < len(r) && r[i] != "" {
				cells[i] = Cell{Text: r[i]}
				continue
			}
			cells[i] = Cell{Text: ZeroFill, Filled: true}
		}
		t.Rows = append(t.Rows, Row{Cells: cells})
	}
	return t
}
