package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"storescan/internal/app"
	"storescan/internal/config"
	"storescan/internal/infrastructure"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "storescan.yml", "path to YAML configuration file")
	inputPath := flag.String("input", "", "input file (overrides configuration)")
	country := flag.String("country", "", "target country code (overrides configuration)")
	flag.Parse()

	cfg, err := config.Read(*configPath)
	if err != nil {
		slog.Error("invalid settings", "error", err)
		return 1
	}
	cfg.ApplyOverrides(*inputPath, *country)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid settings", "error", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := infrastructure.NewRunID()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	logger.InfoContext(ctx, "starting store data pipeline",
		slog.String("input", cfg.Pipeline.InputPath),
		slog.String("cleaned_output", cfg.Pipeline.CleanedOutputPath),
		slog.String("subset_output", cfg.Pipeline.SubsetOutputPath),
		slog.String("target_country", cfg.Pipeline.TargetCountry))

	result, err := app.New(cfg, logger).Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline failed", slog.String("error", err.Error()))
		return 1
	}

	report := result.Report
	logger.InfoContext(ctx, "run report",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("malformed", report.MalformedRows),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("rejected", report.RejectedCount()),
		slog.Int("retained", report.Retained),
		slog.Int("subset_size", result.SubsetSize))

	logger.InfoContext(ctx, "collection summary",
		slog.Int("total_stores", result.Summary.TotalStores),
		slog.Int("total_countries", result.Summary.TotalCountries),
		slog.String("top_country", result.Summary.TopCountry),
		slog.String("top_city", result.Summary.TopCity))

	// An empty subset is still a successful run.
	return 0
}
