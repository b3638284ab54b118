package domain

import (
	"cmp"
	"slices"
)

// YearCount is the number of occurrences recorded in one year.
type YearCount struct {
	Year  int
	Count int
}

// YearlySeries holds per-year occurrence counts for a location, ascending by year.
type YearlySeries struct {
	Location string
	Points   []YearCount
}

// Total sums the counts of all points.
func (s YearlySeries) Total() int {
	n := 0
	for _, p := range s.Points {
		n += p.Count
	}
	return n
}

// FilterByLocation normalizes t, derives Year from DATE on every row and keeps
// the rows whose LOCATION equals location exactly. No match yields an empty
// table, not an error. Rows without a valid date get Year 0.
func FilterByLocation(t Table, location string) (Table, error) {
	t, err := Normalize(t)
	if err != nil {
		return Table{}, err
	}

	out := Table{
		Columns:    slices.Clone(t.Columns),
		Rows:       make([]Row, 0),
		normalized: true,
	}
	for _, row := range t.Rows {
		if row.Location() != location {
			continue
		}
		row = row.clone()
		row.Year = 0
		if row.Date.Valid {
			row.Year = row.Date.Year()
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// YearlyOccurrences counts the occurrences of location per year. Rows without
// a valid date are not counted.
func YearlyOccurrences(t Table, location string) (YearlySeries, error) {
	filtered, err := FilterByLocation(t, location)
	if err != nil {
		return YearlySeries{}, err
	}

	counts := make(map[int]int)
	for _, row := range filtered.Rows {
		if !row.Date.Valid {
			continue
		}
		counts[row.Year]++
	}

	series := YearlySeries{Location: location, Points: make([]YearCount, 0, len(counts))}
	for year, n := range counts {
		series.Points = append(series.Points, YearCount{Year: year, Count: n})
	}
	slices.SortFunc(series.Points, func(a, b YearCount) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return series, nil
}
