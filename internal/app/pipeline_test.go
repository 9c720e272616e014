package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storescan/internal/config"
	"storescan/internal/errors"
	"storescan/internal/infrastructure"
	"storescan/pkg/contracts/domain"
)

const directoryHeader = "Brand,Store Number,Store Name,Ownership Type,Street Address,City,State/Province,Country,Postcode,Phone Number,Timezone,Longitude,Latitude"

func directoryRow(storeNo, city, province, country, lon, lat string) string {
	return strings.Join([]string{
		"Starbucks", storeNo, "", "Company Owned", "", city, province, country, "", "", "", lon, lat,
	}, ",")
}

func writeInput(t *testing.T, dir string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, "directory.csv")
	content := directoryHeader + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(dir, input, country string) *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			InputPath:         input,
			CleanedOutputPath: filepath.Join(dir, "cleaned.csv"),
			SubsetOutputPath:  filepath.Join(dir, "subset.csv"),
			TargetCountry:     country,
			TopN:              10,
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir,
		directoryRow("1", "Seattle", "WA", "us", "-122.3", "47.6"),
		directoryRow("1", "Seattle", "WA", "US", "-122.3", "47.6"),
		directoryRow("2", "Shanghai", "31", "cn", "121", "200"),
	)
	cfg := testConfig(dir, input, "CN")

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())
	result, err := New(cfg, nil).Run(ctx)
	require.NoError(t, err, "an empty subset is still a successful run")

	report := result.Report
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 1, report.Duplicates)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, domain.ReasonCoordinateOutOfRange, report.Rejected[0].Reason)
	assert.Equal(t, 1, report.Retained)
	assert.True(t, report.Consistent())

	assert.Zero(t, result.SubsetSize)
	assert.Equal(t, 1, result.Summary.TotalStores)
	assert.Equal(t, "US", result.Summary.TopCountry)

	cleaned, err := os.ReadFile(cfg.Pipeline.CleanedOutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(cleaned), "Seattle")
	assert.NotContains(t, string(cleaned), "Shanghai")

	subset, err := os.ReadFile(cfg.Pipeline.SubsetOutputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(subset), "\n"), "\n")
	assert.Len(t, lines, 1, "header only for an empty subset")
}

func TestPipeline_Run_SubsetAndAggregates(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir,
		directoryRow("1", "Shanghai", "31", "CN", "121.5", "31.2"),
		directoryRow("2", "Shanghai", "31", "CN", "121.4", "31.1"),
		directoryRow("3", "Beijing", "11", "CN", "116.4", "39.9"),
		directoryRow("4", "Seattle", "WA", "US", "-122.3", "47.6"),
	)
	cfg := testConfig(dir, input, "CN")

	result, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.SubsetSize)

	cities := result.Aggregates[domain.DimensionCity]
	require.Len(t, cities, 2)
	assert.Equal(t, "Shanghai", cities[0].Key)
	assert.Equal(t, 2, cities[0].Count)
	assert.Equal(t, 66.67, cities[0].Percent)
	assert.Equal(t, 33.33, cities[1].Percent)

	assert.Equal(t, 4, result.Summary.TotalStores)
	assert.Equal(t, 2, result.Summary.TotalCountries)
	assert.Equal(t, "CN", result.Summary.TopCountry)
	assert.Equal(t, "Shanghai", result.Summary.TopCity)
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir,
		directoryRow("1", "Shanghai", "31", "CN", "121.5", "31.2"),
		directoryRow("2", "Seattle", "WA", "US", "-122.3", "47.6"),
	)
	cfg := testConfig(dir, input, "CN")
	p := New(cfg, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	firstCleaned, err := os.ReadFile(cfg.Pipeline.CleanedOutputPath)
	require.NoError(t, err)
	firstSubset, err := os.ReadFile(cfg.Pipeline.SubsetOutputPath)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	secondCleaned, err := os.ReadFile(cfg.Pipeline.CleanedOutputPath)
	require.NoError(t, err)
	secondSubset, err := os.ReadFile(cfg.Pipeline.SubsetOutputPath)
	require.NoError(t, err)

	assert.Equal(t, firstCleaned, secondCleaned, "re-running produces byte-identical output")
	assert.Equal(t, firstSubset, secondSubset)
}

func TestPipeline_Run_RendersCharts(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir,
		directoryRow("1", "Shanghai", "31", "CN", "121.5", "31.2"),
		directoryRow("2", "Beijing", "11", "CN", "116.4", "39.9"),
		directoryRow("3", "Seattle", "WA", "US", "-122.3", "47.6"),
	)
	cfg := testConfig(dir, input, "CN")
	cfg.Pipeline.ChartsDir = filepath.Join(dir, "charts")

	result, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.ChartPaths, 3)
	for _, path := range result.ChartPaths {
		assert.FileExists(t, path)
	}
	assert.FileExists(t, filepath.Join(cfg.Pipeline.ChartsDir, "subset_top_cities.png"))
}

func TestPipeline_Run_EmptySubsetSkipsSubsetChart(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir,
		directoryRow("1", "Seattle", "WA", "US", "-122.3", "47.6"),
	)
	cfg := testConfig(dir, input, "JP")
	cfg.Pipeline.ChartsDir = filepath.Join(dir, "charts")

	result, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.ChartPaths, 2, "no subset chart without subset data")
	_, statErr := os.Stat(filepath.Join(cfg.Pipeline.ChartsDir, "subset_top_cities.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_Run_MissingInputFails(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, filepath.Join(dir, "nope.csv"), "CN")

	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeIO))
}
