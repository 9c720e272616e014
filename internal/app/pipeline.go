// Package app wires the pipeline stages together: settings → loader →
// cleaner → cleaned output → subset → subset output → aggregator → renderer.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"storescan/internal/config"
	"storescan/internal/dataprocessing"
	"storescan/internal/exporter"
	"storescan/internal/renderer"
	"storescan/internal/validation"
	"storescan/pkg/contracts/domain"
)

// RunResult carries everything a caller needs to report on a finished run.
type RunResult struct {
	Report     *domain.CleaningReport
	Summary    domain.StoreSummary
	SubsetSize int
	Aggregates map[domain.Dimension][]domain.AggregateStats
	ChartPaths []string
}

// Pipeline is the single-run batch job. It is not safe for concurrent use;
// each run constructs its own Pipeline.
type Pipeline struct {
	cfg        *config.Config
	logger     *slog.Logger
	validator  *validation.FileValidator
	loader     *dataprocessing.Loader
	cleaner    *dataprocessing.Cleaner
	aggregator *dataprocessing.Aggregator
	writer     *exporter.CSVWriter
	charts     *renderer.Renderer
}

// New creates a pipeline from validated settings.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		loader:    dataprocessing.NewLoader(logger),
		cleaner: dataprocessing.NewCleaner(logger, dataprocessing.CleanerConfig{
			CanonicalBrand:       cfg.Pipeline.CanonicalBrand,
			FillCityFromProvince: true,
		}),
		aggregator: dataprocessing.NewAggregator(logger),
		writer:     exporter.NewCSVWriter(logger),
		charts:     renderer.NewRenderer(logger, cfg.Pipeline.ChartsDir),
	}
}

// Run executes one complete pass. Fatal errors (unreadable input, failed
// writes) abort and propagate; row-level problems land in the report.
// An empty subset is a success.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	pc := p.cfg.Pipeline

	if err := p.validator.ValidateInputFile(pc.InputPath); err != nil {
		return nil, err
	}
	if err := p.validator.ValidateOutputPath(pc.CleanedOutputPath); err != nil {
		return nil, err
	}
	if err := p.validator.ValidateOutputPath(pc.SubsetOutputPath); err != nil {
		return nil, err
	}
	if err := p.validator.ValidateOutputDirectory(pc.ChartsDir); err != nil {
		return nil, err
	}

	table, err := p.loader.Load(pc.InputPath)
	if err != nil {
		return nil, err
	}

	cleaned, report := p.cleaner.Clean(ctx, table)

	if err := p.writer.WriteStores(ctx, pc.CleanedOutputPath, cleaned); err != nil {
		return nil, err
	}

	subset := dataprocessing.FilterByCountry(cleaned, pc.TargetCountry)
	if len(subset) == 0 {
		p.logger.WarnContext(ctx, "no stores found for target country",
			slog.String("country", pc.TargetCountry))
	}

	if err := p.writer.WriteStores(ctx, pc.SubsetOutputPath, subset); err != nil {
		return nil, err
	}

	aggregates := p.aggregator.Aggregate(ctx, subset, []domain.Dimension{
		domain.DimensionProvince,
		domain.DimensionCity,
		domain.DimensionOwnership,
	})

	result := &RunResult{
		Report:     report,
		Summary:    p.aggregator.Summarize(cleaned),
		SubsetSize: len(subset),
		Aggregates: aggregates,
	}

	if pc.ChartsDir != "" {
		result.ChartPaths, err = p.renderCharts(ctx, cleaned, aggregates)
		if err != nil {
			return nil, err
		}
	}

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("malformed", report.MalformedRows),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("rejected", report.RejectedCount()),
		slog.Int("retained", report.Retained),
		slog.Int("subset_size", len(subset)),
		slog.String("target_country", pc.TargetCountry))

	return result, nil
}

// renderCharts draws the ranking charts: top countries and cities over the
// cleaned collection, and top cities within the target-country subset.
func (p *Pipeline) renderCharts(ctx context.Context, cleaned []domain.StoreRecord, subsetAggs map[domain.Dimension][]domain.AggregateStats) ([]string, error) {
	topN := p.cfg.Pipeline.TopN

	global := p.aggregator.Aggregate(ctx, cleaned, []domain.Dimension{
		domain.DimensionCountry,
		domain.DimensionCity,
	})

	var paths []string
	charts := []struct {
		filename string
		stats    []domain.AggregateStats
		opts     renderer.ChartOptions
	}{
		{
			filename: "top_countries.png",
			stats:    dataprocessing.TopN(global[domain.DimensionCountry], topN),
			opts:     renderer.ChartOptions{Title: fmt.Sprintf("Top %d countries by store count", topN)},
		},
		{
			filename: "top_cities.png",
			stats:    dataprocessing.TopN(global[domain.DimensionCity], topN),
			opts:     renderer.ChartOptions{Title: fmt.Sprintf("Top %d cities by store count", topN)},
		},
		{
			filename: "subset_top_cities.png",
			stats:    dataprocessing.TopN(subsetAggs[domain.DimensionCity], topN),
			opts: renderer.ChartOptions{
				Title:      fmt.Sprintf("Top %d %s cities by store count", topN, p.cfg.Pipeline.TargetCountry),
				Horizontal: true,
			},
		},
	}

	for _, c := range charts {
		path, err := p.charts.BarChart(ctx, c.filename, c.stats, c.opts)
		if err != nil {
			return paths, err
		}
		if path != "" {
			paths = append(paths, path)
		}
	}

	return paths, nil
}
