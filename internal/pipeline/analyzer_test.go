package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/observability"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type fakeLoader struct {
	table domain.Table
	err   error
	calls int
}

func (f *fakeLoader) Load(_ context.Context, _, _ string) (domain.Table, error) {
	f.calls++
	return f.table, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAnalyzer(t *testing.T, loader pipeline.Loader, logger *slog.Logger, metrics *observability.Metrics, cacheSize int) *pipeline.Analyzer {
	t.Helper()
	a, err := pipeline.New(loader, logger, metrics, cacheSize)
	require.NoError(t, err)
	return a
}

var header = []string{"DATA", "LOCAL", "REFERENCIA", "SENTIDO", "INICIO", "FIM", "SITUACAO", "SUB"}

func row(date, location string) []string {
	return []string{date, location, "Rua A", "Centro/Bairro", "08:00", "", "transitavel", "Se"}
}

func sampleTable() domain.Table {
	return domain.NewTable(header, [][]string{
		row("2010-01-05", "Av. do Estado"),
		row("2010-03-01", "Av. do Estado"),
		row("2012-02-11", "Av. do Estado"),
		row("2011-06-30", "Marginal Tietê"),
		row("", "Marginal Tietê"),
	})
}

// --- tests ---

func TestAnalyzer_Prepare(t *testing.T) {
	loader := &fakeLoader{table: sampleTable()}
	metrics := observability.NewMetricsForTesting()
	a := newAnalyzer(t, loader, discardLogger(), metrics, 4)

	ranking, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)

	require.Len(t, ranking, 2)
	assert.Equal(t, "Av. do Estado", ranking[0].Location)
	assert.Equal(t, 3, ranking[0].Occurrences)
	assert.Equal(t, "Marginal Tietê", ranking[1].Location)
	assert.Equal(t, 1, ranking[1].Index)
	assert.Equal(t, a.Table().Len(), ranking.Total())
	assert.True(t, a.Table().Normalized())

	first, last, ok := a.YearSpan()
	assert.True(t, ok)
	assert.Equal(t, 2010, first)
	assert.Equal(t, 2012, last)

	assert.InDelta(t, 5, testutil.ToFloat64(metrics.RecordsLoaded), 0.001)
	// One empty DATE plus five empty END cells.
	assert.InDelta(t, 6, testutil.ToFloat64(metrics.ZeroFilledCells), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MissingDates), 0.001)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.LocationsRanked), 0.001)
}

func TestAnalyzer_PrepareLoadError(t *testing.T) {
	loader := &fakeLoader{err: domain.ErrSheetNotFound}
	a := newAnalyzer(t, loader, discardLogger(), observability.NewMetricsForTesting(), 4)

	_, err := a.Prepare(context.Background(), "floods.xlsx", "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSheetNotFound)

	_, err = a.Series("Av. do Estado")
	assert.ErrorIs(t, err, pipeline.ErrNotPrepared)
}

func TestAnalyzer_PrepareSchemaMismatch(t *testing.T) {
	loader := &fakeLoader{table: domain.NewTable([]string{"DATA", "LOCAL"}, [][]string{{"2010-01-01", "X"}})}
	a := newAnalyzer(t, loader, discardLogger(), observability.NewMetricsForTesting(), 4)

	_, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
}

func TestAnalyzer_Series(t *testing.T) {
	loader := &fakeLoader{table: sampleTable()}
	metrics := observability.NewMetricsForTesting()
	a := newAnalyzer(t, loader, discardLogger(), metrics, 4)
	_, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)

	got, err := a.Series("Av. do Estado")
	require.NoError(t, err)

	want := domain.YearlySeries{
		Location: "Av. do Estado",
		Points:   []domain.YearCount{{Year: 2010, Count: 2}, {Year: 2012, Count: 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}

	_, err = a.Series("Av. do Estado")
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SeriesCache.WithLabelValues("miss")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SeriesCache.WithLabelValues("hit")), 0.001)
}

func TestAnalyzer_SeriesExcludesMissingDates(t *testing.T) {
	a := newAnalyzer(t, &fakeLoader{table: sampleTable()}, discardLogger(), observability.NewMetricsForTesting(), 4)
	_, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)

	got, err := a.Series("Marginal Tietê")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total())
}

func TestAnalyzer_SeriesUnknownLocation(t *testing.T) {
	a := newAnalyzer(t, &fakeLoader{table: sampleTable()}, discardLogger(), observability.NewMetricsForTesting(), 4)
	_, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)

	got, err := a.Series("av. do estado")
	require.NoError(t, err)
	assert.Empty(t, got.Points)
}

func TestAnalyzer_PrepareResetsCache(t *testing.T) {
	loader := &fakeLoader{table: sampleTable()}
	a := newAnalyzer(t, loader, discardLogger(), observability.NewMetricsForTesting(), 4)
	_, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)
	_, err = a.Series("Av. do Estado")
	require.NoError(t, err)

	loader.table = domain.NewTable(header, [][]string{row("2015-05-05", "Av. do Estado")})
	_, err = a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)

	got, err := a.Series("Av. do Estado")
	require.NoError(t, err)
	assert.Equal(t, []domain.YearCount{{Year: 2015, Count: 1}}, got.Points)
	assert.Equal(t, 2, loader.calls)
}

func TestNew_RejectsNonPositiveCacheSize(t *testing.T) {
	_, err := pipeline.New(&fakeLoader{}, discardLogger(), observability.NewMetricsForTesting(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "series cache")
}

func TestAnalyzer_SeriesCacheEvictsLeastRecentlyUsed(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	a := newAnalyzer(t, &fakeLoader{table: sampleTable()}, discardLogger(), metrics, 1)
	_, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)

	for _, loc := range []string{"Av. do Estado", "Marginal Tietê", "Av. do Estado"} {
		_, err := a.Series(loc)
		require.NoError(t, err)
	}

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.SeriesCache.WithLabelValues("miss")), 0.001)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.SeriesCache.WithLabelValues("hit")), 0.001)
}

func TestAnalyzer_SeriesDoesNotAliasCache(t *testing.T) {
	a := newAnalyzer(t, &fakeLoader{table: sampleTable()}, discardLogger(), observability.NewMetricsForTesting(), 4)
	_, err := a.Prepare(context.Background(), "floods.xlsx", "Plan1")
	require.NoError(t, err)

	first, err := a.Series("Av. do Estado")
	require.NoError(t, err)
	first.Points[0].Count = 999

	cached, err := a.Series("Av. do Estado")
	require.NoError(t, err)
	cached.Points[0].Count = 998

	again, err := a.Series("Av. do Estado")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Points[0].Count)
}
