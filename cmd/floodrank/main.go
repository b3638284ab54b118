// Command floodrank loads a flood occurrence workbook, prints the locations
// with the most floods and draws per-year charts for locations picked at the
// prompt.
//
// Usage:
//
//	go run ./cmd/floodrank -file "Alagamentos em São Paulo 2007 a 2016.xlsx" -sheet Plan1
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/flood-occurrence-explorer/internal/adapter/chart"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/adapter/excel"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/config"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/console"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/observability"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/pipeline"
	"github.com/couchcryptid/flood-occurrence-explorer/internal/report"
)

func main() {
	file := flag.String("file", "", "workbook path (overrides FLOOD_SOURCE_PATH)")
	sheet := flag.String("sheet", "", "sheet name (overrides FLOOD_SHEET_NAME)")
	flag.Parse()

	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *file != "" {
		cfg.SourcePath = *file
	}
	if *sheet != "" {
		cfg.SheetName = *sheet
	}

	logger := observability.NewLogger(cfg).With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	ctx := context.Background()

	analyzer, err := pipeline.New(excel.NewLoader(logger), logger, metrics, cfg.SeriesCacheSize)
	if err != nil {
		logger.Error("failed to create analyzer", "error", err)
		os.Exit(1)
	}
	ranking, err := analyzer.Prepare(ctx, cfg.SourcePath, cfg.SheetName)
	if err != nil {
		logger.Error("failed to prepare flood table", "path", cfg.SourcePath, "sheet", cfg.SheetName, "error", err)
		os.Exit(1)
	}

	surfaces := chart.FileSurfaces{
		Dir:    cfg.ChartDir,
		Width:  vg.Length(cfg.ChartWidthIn) * vg.Inch,
		Height: vg.Length(cfg.ChartHeightIn) * vg.Inch,
		Open:   cfg.ChartOpen,
		Logger: logger,
	}
	opts := report.Options{
		Title: report.Title(analyzer.YearSpan()),
		Limit: cfg.DisplayLimit,
	}

	ctrl := console.New(ranking, analyzer, surfaces, opts, logger, metrics)
	runErr := ctrl.Run(ctx, os.Stdin, os.Stdout)

	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("failed to write metrics", "path", cfg.MetricsTextfile, "error", err)
	}
	if runErr != nil {
		logger.Error("session failed", "error", runErr)
		os.Exit(1)
	}
}
