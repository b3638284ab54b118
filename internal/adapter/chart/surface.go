package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// ErrSurfaceClosed is returned by Show after Close.
var ErrSurfaceClosed = errors.New("surface closed")

// FileSurfaces creates one FileSurface per chart.
type FileSurfaces struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
	Open   bool // hand each saved chart to the OS viewer
	Logger *slog.Logger
}

// NewSurface creates a surface for a chart about label.
func (f FileSurfaces) NewSurface(label string) (Surface, error) {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	return &FileSurface{
		dir:    f.Dir,
		label:  label,
		width:  f.Width,
		height: f.Height,
		open:   f.Open,
		opener: openFile,
		logger: f.Logger,
	}, nil
}

// FileSurface saves plots as PNG files and optionally opens them.
type FileSurface struct {
	dir    string
	label  string
	width  vg.Length
	height vg.Length
	open   bool
	opener func(path string) error
	logger *slog.Logger

	paths  []string
	closed bool
}

// Show writes p to <dir>/<label-slug>-<timestamp>.png.
func (s *FileSurface) Show(p *plot.Plot) error {
	if s.closed {
		return ErrSurfaceClosed
	}

	name := fmt.Sprintf("%s-%s.png", slug(s.label), clock.Now().UTC().Format("20060102-150405.000"))
	path := filepath.Join(s.dir, name)
	if err := p.Save(s.width, s.height, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	s.paths = append(s.paths, path)
	s.logger.Info("chart saved", "location", s.label, "path", path)

	if s.open {
		// A headless session has no viewer; the file is still on disk.
		if err := s.opener(path); err != nil {
			s.logger.Warn("open chart failed", "path", path, "error", err)
		}
	}
	return nil
}

// Paths returns the files written so far.
func (s *FileSurface) Paths() []string {
	return s.paths
}

// Close releases the surface. It is safe to call more than once.
func (s *FileSurface) Close() error {
	s.closed = true
	return nil
}

// slug turns a location name into a file-name-safe token.
func slug(label string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if r := []rune(out); len(r) > 60 {
		out = strings.TrimSuffix(string(r[:60]), "-")
	}
	if out == "" {
		return "location"
	}
	return out
}
