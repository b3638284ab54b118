package chart

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleSeries() domain.YearlySeries {
	return domain.YearlySeries{
		Location: "Av. do Estado",
		Points: []domain.YearCount{
			{Year: 2007, Count: 3},
			{Year: 2009, Count: 7},
			{Year: 2010, Count: 2},
		},
	}
}

// recordingSurface keeps the plots it is shown.
type recordingSurface struct {
	shown  []*plot.Plot
	closed bool
}

func (r *recordingSurface) Show(p *plot.Plot) error {
	r.shown = append(r.shown, p)
	return nil
}

func (r *recordingSurface) Close() error {
	r.closed = true
	return nil
}

func TestBuildYearChart(t *testing.T) {
	p, err := BuildYearChart(sampleSeries())
	require.NoError(t, err)

	assert.Equal(t, `Flood occurrences in "Av. do Estado" by year`, p.Title.Text)
	assert.Equal(t, "Year", p.X.Label.Text)
	assert.Equal(t, "Occurrences", p.Y.Label.Text)
	assert.InDelta(t, 2007, p.X.Min, 0.001)
	assert.InDelta(t, 2010, p.X.Max, 0.001)
	assert.InDelta(t, 7, p.Y.Max, 0.001)
	assert.Zero(t, p.Y.Min)
}

func TestBuildYearChart_EmptySeries(t *testing.T) {
	_, err := BuildYearChart(domain.YearlySeries{Location: "X"})
	require.ErrorIs(t, err, ErrEmptySeries)
}

func TestRenderYearChart_ShowsOnSurface(t *testing.T) {
	s := &recordingSurface{}

	require.NoError(t, RenderYearChart(s, sampleSeries()))

	require.Len(t, s.shown, 1)
	assert.Contains(t, s.shown[0].Title.Text, "Av. do Estado")
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks(2006.6, 2009.2)
	labels := make([]string, len(ticks))
	for i, tk := range ticks {
		labels[i] = tk.Label
	}
	assert.Equal(t, []string{"2007", "2008", "2009"}, labels)

	assert.Len(t, yearTicks(1900, 2020), 11)
	assert.Empty(t, yearTicks(2007.2, 2007.8))
}

func TestFileSurface_SavesPNG(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2016, time.February, 3, 4, 5, 6, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	dir := filepath.Join(t.TempDir(), "charts")
	surfaces := FileSurfaces{Dir: dir, Width: 10 * vg.Inch, Height: 5 * vg.Inch, Logger: discardLogger()}

	s, err := surfaces.NewSurface("Av. do Estado")
	require.NoError(t, err)
	require.NoError(t, RenderYearChart(s, sampleSeries()))
	require.NoError(t, s.Close())

	fs, ok := s.(*FileSurface)
	require.True(t, ok)
	require.Len(t, fs.Paths(), 1)
	assert.Equal(t, filepath.Join(dir, "av-do-estado-20160203-040506.000.png"), fs.Paths()[0])

	info, err := os.Stat(fs.Paths()[0])
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFileSurface_OpensWhenEnabled(t *testing.T) {
	var opened []string
	s := &FileSurface{
		dir:    t.TempDir(),
		label:  "X",
		width:  4 * vg.Inch,
		height: 3 * vg.Inch,
		open:   true,
		opener: func(path string) error {
			opened = append(opened, path)
			return nil
		},
		logger: discardLogger(),
	}

	require.NoError(t, RenderYearChart(s, sampleSeries()))
	assert.Equal(t, s.Paths(), opened)
}

func TestFileSurface_ShowAfterClose(t *testing.T) {
	s := &FileSurface{dir: t.TempDir(), label: "X", width: vg.Inch, height: vg.Inch, logger: discardLogger()}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err := RenderYearChart(s, sampleSeries())
	require.ErrorIs(t, err, ErrSurfaceClosed)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Av. do Estado":       "av-do-estado",
		"  Marginal Tietê  ":  "marginal-tietê",
		"R. 25 de Março/Sé":   "r-25-de-março-sé",
		"***":                 "location",
		"":                    "location",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), "slug(%q)", in)
	}
}
