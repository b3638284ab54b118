// Package chart draws per-year flood occurrence charts with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
)

// ErrEmptySeries means the location has no dated occurrence to plot.
var ErrEmptySeries = errors.New("no dated occurrences to plot")

var royalBlue = color.RGBA{R: 65, G: 105, B: 225, A: 255}

// maxYearTicks bounds the number of labelled years on the x axis.
const maxYearTicks = 12

// Surface is a display target for a finished plot.
type Surface interface {
	Show(p *plot.Plot) error
	Close() error
}

// BuildYearChart builds a line chart of occurrences per year with circle
// markers, axis labels and a grid.
func BuildYearChart(series domain.YearlySeries) (*plot.Plot, error) {
	if len(series.Points) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrEmptySeries, series.Location)
	}

	xys := make(plotter.XYs, len(series.Points))
	for i, pt := range series.Points {
		xys[i].X = float64(pt.Year)
		xys[i].Y = float64(pt.Count)
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	line.Color = royalBlue
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = royalBlue
	points.Radius = vg.Points(3)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Flood occurrences in %q by year", series.Location)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Occurrences"
	p.X.Tick.Marker = plot.TickerFunc(yearTicks)
	p.Y.Min = 0
	p.Add(plotter.NewGrid(), line, points)
	return p, nil
}

// RenderYearChart builds the chart for series and shows it on s.
func RenderYearChart(s Surface, series domain.YearlySeries) error {
	p, err := BuildYearChart(series)
	if err != nil {
		return err
	}
	return s.Show(p)
}

// yearTicks labels whole years only, thinning them out on long ranges.
func yearTicks(lo, hi float64) []plot.Tick {
	first, last := int(math.Ceil(lo)), int(math.Floor(hi))
	if last < first {
		return nil
	}
	step := 1
	if span := last - first + 1; span > maxYearTicks {
		step = (span + maxYearTicks - 1) / maxYearTicks
	}

	ticks := make([]plot.Tick, 0, (last-first)/step+1)
	for y := first; y <= last; y += step {
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}
