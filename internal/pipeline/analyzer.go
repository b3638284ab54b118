package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/observability"
)

// ErrNotPrepared is returned by Series before Prepare has succeeded.
var ErrNotPrepared = errors.New("analyzer has no prepared table")

// Loader reads a raw table from a workbook sheet.
type Loader interface {
	Load(ctx context.Context, path, sheet string) (domain.Table, error)
}

// Analyzer runs load, normalize and rank once, then serves per-location
// yearly series from the prepared table.
type Analyzer struct {
	loader  Loader
	logger  *slog.Logger
	metrics *observability.Metrics
	cache   *lru.Cache[string, domain.YearlySeries]

	table   domain.Table
	ranking domain.Ranking
	ready   bool
}

// New creates an Analyzer. cacheSize bounds the number of yearly series kept
// and must be positive.
func New(loader Loader, logger *slog.Logger, metrics *observability.Metrics, cacheSize int) (*Analyzer, error) {
	cache, err := lru.New[string, domain.YearlySeries](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("series cache: %w", err)
	}
	return &Analyzer{
		loader:  loader,
		logger:  logger,
		metrics: metrics,
		cache:   cache,
	}, nil
}

// Prepare loads the sheet, normalizes it and ranks locations by occurrences.
// A successful call replaces any previously prepared table.
func (a *Analyzer) Prepare(ctx context.Context, path, sheet string) (domain.Ranking, error) {
	start := time.Now()

	raw, err := a.loader.Load(ctx, path, sheet)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	table, err := domain.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	ranking, err := domain.RankByOccurrences(table)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	a.table = table
	a.ranking = ranking
	a.ready = true
	a.cache.Purge()

	a.metrics.RecordsLoaded.Set(float64(table.Len()))
	a.metrics.ZeroFilledCells.Set(float64(table.FilledCells()))
	a.metrics.MissingDates.Set(float64(table.MissingDates()))
	a.metrics.LocationsRanked.Set(float64(len(ranking)))
	a.metrics.LoadDuration.Observe(time.Since(start).Seconds())

	a.logger.Info("table prepared",
		"rows", table.Len(),
		"locations", len(ranking),
		"zero_filled_cells", table.FilledCells(),
		"missing_dates", table.MissingDates(),
		"duration", time.Since(start),
	)
	return ranking, nil
}

// Table returns the prepared, normalized table.
func (a *Analyzer) Table() domain.Table {
	return a.table
}

// Ranking returns the ranking computed by the last Prepare.
func (a *Analyzer) Ranking() domain.Ranking {
	return a.ranking
}

// YearSpan reports the first and last year with a valid date in the prepared table.
func (a *Analyzer) YearSpan() (first, last int, ok bool) {
	return a.table.YearSpan()
}

// Series returns the yearly occurrence counts for location, served from the
// cache when the location was asked for before. The returned points are a copy.
func (a *Analyzer) Series(location string) (domain.YearlySeries, error) {
	if !a.ready {
		return domain.YearlySeries{}, ErrNotPrepared
	}
	if s, ok := a.cache.Get(location); ok {
		a.metrics.SeriesCache.WithLabelValues("hit").Inc()
		return cloneSeries(s), nil
	}
	a.metrics.SeriesCache.WithLabelValues("miss").Inc()

	s, err := domain.YearlyOccurrences(a.table, location)
	if err != nil {
		return domain.YearlySeries{}, fmt.Errorf("yearly occurrences for %q: %w", location, err)
	}
	a.cache.Add(location, cloneSeries(s))
	a.logger.Debug("series computed", "location", location, "years", len(s.Points), "occurrences", s.Total())
	return s, nil
}

func cloneSeries(s domain.YearlySeries) domain.YearlySeries {
	s.Points = slices.Clone(s.Points)
	return s
}
