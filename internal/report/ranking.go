// Package report formats rankings for the console.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
)

// DefaultLimit is the number of ranking rows shown when Options.Limit is unset.
const DefaultLimit = 15

const (
	indexWidth    = 7
	locationWidth = 30
	ruleWidth     = 50
)

// Options controls RenderRanking.
type Options struct {
	Title string
	Limit int
}

// RenderRanking formats at most opts.Limit entries as a fixed-width table:
// title, rule, header, rule, rows, rule.
func RenderRanking(r domain.Ranking, opts Options) string {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	rule := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString("\n")
		b.WriteString(opts.Title)
		b.WriteString("\n")
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%s %s %s\n", pad("INDEX", indexWidth), pad("LOCATION", locationWidth), "OCCURRENCES")
	b.WriteString(rule + "\n")
	for _, e := range r.Head(limit) {
		fmt.Fprintf(&b, "%s %s %d\n", pad(fmt.Sprint(e.Index), indexWidth), pad(e.Location, locationWidth), e.Occurrences)
	}
	b.WriteString(rule + "\n")
	return b.String()
}

// Title builds the ranking headline, with the year span when known.
func Title(first, last int, ok bool) string {
	const base = "📊 LOCATIONS WITH THE MOST FLOODS"
	switch {
	case !ok:
		return base
	case first == last:
		return fmt.Sprintf("%s (%d)", base, first)
	default:
		return fmt.Sprintf("%s (%d–%d)", base, first, last)
	}
}

// pad left-aligns s in a field of width runes, truncating longer values.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}
