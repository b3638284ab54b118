// Command validate performs integrity checks on a flood occurrence workbook
// without starting the interactive session. It verifies the column layout,
// reports unparsed dates and zero-filled cells, and re-checks the ranking
// ordering and occurrence totals.
//
// Usage:
//
//	go run ./cmd/validate -file "Alagamentos em São Paulo 2007 a 2016.xlsx" -sheet Plan1
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/adapter/excel"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/config"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/observability"
)

// maxListed caps how many offending records a phase lists individually.
const maxListed = 10

// phase tracks pass/fail for a validation phase. Warnings are reported but
// never fail the run.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := loadSettings(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if code := run(context.Background(), excel.NewLoader(logger), cfg.SourcePath, cfg.SheetName, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

// loadSettings reads the shared configuration and applies -file and -sheet.
func loadSettings(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.StringVar(&cfg.SourcePath, "file", cfg.SourcePath, "workbook path")
	fs.StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "sheet name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

type loader interface {
	Load(ctx context.Context, path, sheet string) (domain.Table, error)
}

func run(ctx context.Context, l loader, path, sheet string, out io.Writer) int {
	fmt.Fprintln(out, "=== Flood Workbook Integrity Validation ===")
	fmt.Fprintln(out)

	raw, err := l.Load(ctx, path, sheet)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load workbook: %v\n", err)
		return 1
	}

	schema, table := validateSchema(raw)
	phases := []*phase{schema}
	if schema.passed() {
		phases = append(phases,
			validateDates(table),
			validateZeroFill(table),
			validateRanking(table),
		)
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		switch {
		case !p.passed():
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		case len(p.warnings) > 0:
			status = fmt.Sprintf("\033[33mPASS (%d warnings)\033[0m", len(p.warnings))
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d rows, %d columns\n", raw.Len(), len(raw.Columns))

	for _, p := range phases {
		if p.passed() && len(p.warnings) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
		for _, w := range p.warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Schema ──

func validateSchema(raw domain.Table) (*phase, domain.Table) {
	p := &phase{name: "Phase 1: Schema (8 positional columns)"}

	table, err := domain.Normalize(raw)
	if err != nil {
		p.errorf("%v", err)
		p.errorf("columns found: %q", raw.Columns)
		return p, domain.Table{}
	}
	if raw.Len() == 0 {
		p.warnf("sheet has a header but no data rows")
	}
	return p, table
}

// ── Phase 2: Dates ──

func validateDates(t domain.Table) *phase {
	p := &phase{name: "Phase 2: Dates (calendar dates parsed)"}

	missing := t.MissingDates()
	if missing == 0 {
		return p
	}
	p.warnf("%d of %d records have no usable date and are left out of year charts", missing, t.Len())

	listed := 0
	for i, row := range t.Rows {
		if row.Date.Valid {
			continue
		}
		if listed == maxListed {
			p.warnf("... %d more", missing-listed)
			break
		}
		p.warnf("record %d (%s): DATE %q", i+1, row.Location(), row.Field(domain.DateIndex))
		listed++
	}
	return p
}

// ── Phase 3: Zero-fill ──

func validateZeroFill(t domain.Table) *phase {
	p := &phase{name: "Phase 3: Zero-fill (empty cells replaced)"}

	perColumn := make([]int, len(t.Columns))
	for _, row := range t.Rows {
		for j, c := range row.Cells {
			if c.Filled {
				perColumn[j]++
			}
		}
	}
	for j, n := range perColumn {
		if n > 0 {
			p.warnf("%s: %d empty cells filled with %q", t.Columns[j], n, domain.ZeroFill)
		}
	}
	if n := perColumn[domain.LocationIndex]; n > 0 {
		p.warnf("%d records without a location are ranked under %q", n, domain.ZeroFill)
	}
	return p
}

// ── Phase 4: Ranking ──

func validateRanking(t domain.Table) *phase {
	p := &phase{name: "Phase 4: Ranking (order and totals)"}

	ranking, err := domain.RankByOccurrences(t)
	if err != nil {
		p.errorf("rank: %v", err)
		return p
	}

	if ranking.Total() != t.Len() {
		p.errorf("occurrence total %d does not match record count %d", ranking.Total(), t.Len())
	}

	for i, e := range ranking {
		if e.Index != i {
			p.errorf("entry %q has index %d at position %d", e.Location, e.Index, i)
		}
		if i > 0 && ranking[i-1].Occurrences < e.Occurrences {
			p.errorf("entry %q (%d) ranked below %q (%d)", e.Location, e.Occurrences, ranking[i-1].Location, ranking[i-1].Occurrences)
		}
	}

	checkRankingRoundTrip(p, t, ranking)
	return p
}

// checkRankingRoundTrip verifies each location's occurrences equal its filtered
// record count, and that the yearly series covers all dated records.
func checkRankingRoundTrip(p *phase, t domain.Table, ranking domain.Ranking) {
	for _, e := range ranking {
		filtered, err := domain.FilterByLocation(t, e.Location)
		if err != nil {
			p.errorf("filter %q: %v", e.Location, err)
			continue
		}
		if filtered.Len() != e.Occurrences {
			p.errorf("%q: ranking says %d, filter finds %d", e.Location, e.Occurrences, filtered.Len())
		}

		series, err := domain.YearlyOccurrences(t, e.Location)
		if err != nil {
			p.errorf("series %q: %v", e.Location, err)
			continue
		}
		if want := filtered.Len() - filtered.MissingDates(); series.Total() != want {
			p.errorf("%q: yearly series totals %d, expected %d dated records", e.Location, series.Total(), want)
		}
	}
}
