// Package console drives the interactive ranking and chart session on a
// terminal: it prints the ranking once, then loops on a yes/no prompt and an
// index prompt until the operator declines or input ends.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/adapter/chart"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/observability"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/report"
)

const (
	decisionPrompt  = "\n🔍 Generate an occurrences-per-year chart for a location? (y/n): "
	invalidDecision = "❌ Invalid input. Type 'y' for yes or 'n' for no."
	indexPrompt     = "Choose the location index (0 to %d): "
	invalidIndex    = "❌ Invalid index. Type a number between 0 and %d."
	generating      = "\n📈 Generating chart for: %s...\n\n"
	emptyRanking    = "⚠️  No locations were loaded, there is nothing to chart."
	emptySeries     = "⚠️  %s has no dated occurrences, no chart was drawn.\n"
	closing         = "\n✅ Closing the program. Thank you!"
)

// State is a step of the session.
type State int

const (
	StateLoaded State = iota
	StateShowingTable
	StateAwaitingDecision
	StateAwaitingIndex
	StatePlotting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateShowingTable:
		return "showing_table"
	case StateAwaitingDecision:
		return "awaiting_decision"
	case StateAwaitingIndex:
		return "awaiting_index"
	case StatePlotting:
		return "plotting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// SeriesSource computes the yearly occurrences of a location.
type SeriesSource interface {
	Series(location string) (domain.YearlySeries, error)
}

// SurfaceProvider creates a display surface for one chart.
type SurfaceProvider interface {
	NewSurface(label string) (chart.Surface, error)
}

// Controller runs one interactive session over a prepared ranking.
type Controller struct {
	ranking  domain.Ranking
	series   SeriesSource
	surfaces SurfaceProvider
	opts     report.Options
	logger   *slog.Logger
	metrics  *observability.Metrics

	state    State
	selected domain.RankingEntry
}

// New creates a Controller. opts.Limit bounds both the printed table and the
// selectable indexes.
func New(ranking domain.Ranking, series SeriesSource, surfaces SurfaceProvider, opts report.Options, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	if opts.Limit <= 0 {
		opts.Limit = report.DefaultLimit
	}
	return &Controller{
		ranking:  ranking,
		series:   series,
		surfaces: surfaces,
		opts:     opts,
		logger:   logger,
		metrics:  metrics,
		state:    StateLoaded,
	}
}

// State returns the current step of the session.
func (c *Controller) State() State {
	return c.state
}

// MaxIndex is the highest selectable index, or -1 when nothing can be selected.
func (c *Controller) MaxIndex() int {
	return min(c.opts.Limit, len(c.ranking)) - 1
}

// Run prints the ranking and serves prompts read from in until the operator
// answers "n" or input ends. The context is checked between prompts.
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	br := bufio.NewReader(in)

	for c.state != StateDone {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := c.step(br, out)
		if err != nil {
			return err
		}
		if next != c.state {
			c.logger.Debug("state change", "from", c.state, "to", next)
		}
		c.state = next
	}
	return nil
}

func (c *Controller) step(br *bufio.Reader, out io.Writer) (State, error) {
	switch c.state {
	case StateLoaded:
		return StateShowingTable, nil
	case StateShowingTable:
		fmt.Fprint(out, report.RenderRanking(c.ranking, c.opts))
		return StateAwaitingDecision, nil
	case StateAwaitingDecision:
		return c.awaitDecision(br, out)
	case StateAwaitingIndex:
		return c.awaitIndex(br, out)
	case StatePlotting:
		return c.plot(out)
	default:
		return StateDone, nil
	}
}

func (c *Controller) awaitDecision(br *bufio.Reader, out io.Writer) (State, error) {
	for {
		fmt.Fprint(out, decisionPrompt)
		line, err := readLine(br)
		if err != nil {
			return c.endOfInput(out, err)
		}

		yes, err := parseDecision(line)
		if err != nil {
			c.metrics.InvalidInputs.WithLabelValues("decision").Inc()
			fmt.Fprintln(out, invalidDecision)
			continue
		}
		if !yes {
			fmt.Fprintln(out, closing)
			return StateDone, nil
		}
		if c.MaxIndex() < 0 {
			fmt.Fprintln(out, emptyRanking)
			continue
		}
		return StateAwaitingIndex, nil
	}
}

func (c *Controller) awaitIndex(br *bufio.Reader, out io.Writer) (State, error) {
	maxIndex := c.MaxIndex()
	for {
		fmt.Fprintf(out, indexPrompt, maxIndex)
		line, err := readLine(br)
		if err != nil {
			return c.endOfInput(out, err)
		}

		idx, err := parseIndex(line, maxIndex)
		if err != nil {
			c.metrics.InvalidInputs.WithLabelValues("index").Inc()
			fmt.Fprintf(out, invalidIndex+"\n", maxIndex)
			continue
		}
		c.selected = c.ranking[idx]
		return StatePlotting, nil
	}
}

func (c *Controller) plot(out io.Writer) (State, error) {
	location := c.selected.Location
	fmt.Fprintf(out, generating, location)

	series, err := c.series.Series(location)
	if err != nil {
		return StateDone, fmt.Errorf("series for %q: %w", location, err)
	}

	if err := c.render(series); err != nil {
		if errors.Is(err, chart.ErrEmptySeries) {
			c.logger.Info("nothing to plot", "location", location)
			fmt.Fprintf(out, emptySeries, location)
			return StateAwaitingDecision, nil
		}
		return StateDone, fmt.Errorf("render chart for %q: %w", location, err)
	}

	c.metrics.ChartsRendered.Inc()
	c.logger.Info("chart rendered", "location", location, "years", len(series.Points), "occurrences", series.Total())
	return StateAwaitingDecision, nil
}

// render shows the chart on a fresh surface and always releases it.
func (c *Controller) render(series domain.YearlySeries) (err error) {
	surface, err := c.surfaces.NewSurface(series.Location)
	if err != nil {
		return fmt.Errorf("open surface: %w", err)
	}
	defer func() {
		if cerr := surface.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("close surface: %w", cerr))
		}
	}()

	return chart.RenderYearChart(surface, series)
}

// endOfInput finishes the session when stdin is exhausted. Read failures
// other than EOF are returned.
func (c *Controller) endOfInput(out io.Writer, err error) (State, error) {
	if !errors.Is(err, io.EOF) {
		return StateDone, fmt.Errorf("read input: %w", err)
	}
	c.logger.Warn("input closed, ending session", "state", c.state)
	fmt.Fprintln(out, closing)
	return StateDone, nil
}

// readLine returns the next line without its terminator. Lines of any length
// are accepted; a final line without a newline is still returned.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseDecision accepts y or n in any case, ignoring surrounding space.
func parseDecision(line string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidInput, line)
	}
}

// parseIndex accepts a plain run of ASCII digits within [0, maxIndex].
func parseIndex(line string, maxIndex int) (int, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return 0, fmt.Errorf("%w: empty index", domain.ErrInvalidInput)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > maxIndex {
		return 0, fmt.Errorf("%w: %q out of range 0..%d", domain.ErrInvalidInput, s, maxIndex)
	}
	return n, nil
}
