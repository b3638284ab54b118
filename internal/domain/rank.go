package domain

import (
	"cmp"
	"slices"
)

// RankingEntry is one location in a ranking.
type RankingEntry struct {
	Index       int
	Location    string
	Occurrences int

	latest Date
}

// Ranking is the ordered list of locations produced by RankByOccurrences.
type Ranking []RankingEntry

// Total sums the occurrences across all entries.
func (r Ranking) Total() int {
	n := 0
	for _, e := range r {
		n += e.Occurrences
	}
	return n
}

// Head returns at most n leading entries.
func (r Ranking) Head(n int) Ranking {
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return r[:n]
}

// RankByOccurrences groups the rows of t by location and orders the groups by
// occurrence count, then most recent date, both descending. Location name
// ascending breaks any remaining tie. Indexes are assigned by position.
func RankByOccurrences(t Table) (Ranking, error) {
	t, err := Normalize(t)
	if err != nil {
		return nil, err
	}

	byLocation := make(map[string]*RankingEntry)
	for _, row := range t.Rows {
		loc := row.Location()
		e, ok := byLocation[loc]
		if !ok {
			e = &RankingEntry{Location: loc}
			byLocation[loc] = e
		}
		e.Occurrences++
		if row.Date.NewerThan(e.latest) {
			e.latest = row.Date
		}
	}

	ranking := make(Ranking, 0, len(byLocation))
	for _, e := range byLocation {
		ranking = append(ranking, *e)
	}
	slices.SortFunc(ranking, compareEntries)
	for i := range ranking {
		ranking[i].Index = i
	}
	return ranking, nil
}

// compareEntries orders a before b when a ranks higher.
func compareEntries(a, b RankingEntry) int {
	if c := cmp.Compare(b.Occurrences, a.Occurrences); c != 0 {
		return c
	}
	switch {
	case a.latest.NewerThan(b.latest):
		return -1
	case b.latest.NewerThan(a.latest):
		return 1
	}
	return cmp.Compare(a.Location, b.Location)
}
