// Package excel loads flood event sheets from .xlsx workbooks.
package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/domain"
)

// Loader reads one sheet of a workbook into a domain.Table.
// It implements pipeline.Loader.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads sheet from the workbook at path. The first row is the header.
// Cells are read raw, so date cells come back as Excel serial numbers.
// Empty cells are zero-filled by domain.NewTable and rows without any
// content are skipped.
func (l *Loader) Load(ctx context.Context, path, sheet string) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Table{}, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return domain.Table{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.Table{}, fmt.Errorf("%w: %s is a directory", domain.ErrSourceNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("close workbook failed", "path", path, "error", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if !slices.Contains(sheets, sheet) {
		return domain.Table{}, fmt.Errorf("%w: %q (available: %s)", domain.ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		l.logger.Warn("sheet is empty", "path", path, "sheet", sheet)
		return domain.NewTable(nil, nil), nil
	}

	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		if isBlank(row) {
			skipped++
			continue
		}
		data = append(data, row)
	}

	table := domain.NewTable(header, data)
	l.logger.Info("sheet loaded",
		"path", path,
		"sheet", sheet,
		"columns", len(table.Columns),
		"rows", table.Len(),
		"blank_rows_skipped", skipped,
		"zero_filled_cells", table.FilledCells(),
	)
	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
