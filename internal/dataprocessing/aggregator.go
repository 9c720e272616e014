package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"storescan/pkg/contracts/domain"
)

// UnknownKey buckets records whose grouping field is absent, so every record
// of the subset is represented and percentages sum to 100.
const UnknownKey = "(unknown)"

// Aggregator computes descriptive statistics over a record collection.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate produces per-dimension counts and percentages over the given
// records. Percent = count/total*100 rounded half-up to two decimals.
// An empty input yields an empty (non-nil) list per dimension.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.StoreRecord, dimensions []domain.Dimension) map[domain.Dimension][]domain.AggregateStats {
	result := make(map[domain.Dimension][]domain.AggregateStats, len(dimensions))
	for _, dim := range dimensions {
		result[dim] = a.aggregateBy(records, dim)
	}

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("records", len(records)),
		slog.Int("dimensions", len(dimensions)))

	return result
}

func (a *Aggregator) aggregateBy(records []domain.StoreRecord, dim domain.Dimension) []domain.AggregateStats {
	stats := make([]domain.AggregateStats, 0)
	if len(records) == 0 {
		return stats
	}

	counts := make(map[string]int)
	for _, record := range records {
		counts[dimensionKey(record, dim)]++
	}

	total := len(records)
	for key, count := range counts {
		stats = append(stats, domain.AggregateStats{
			Key:     key,
			Count:   count,
			Percent: roundHalfUp(float64(count)/float64(total)*100, 2),
		})
	}

	// Descending count, ties broken by ascending key for determinism.
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Key < stats[j].Key
	})

	return stats
}

// TopN returns the first n entries of an already-sorted stats list.
func TopN(stats []domain.AggregateStats, n int) []domain.AggregateStats {
	if n < 0 || n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// Summarize computes the whole-collection summary: unique store count,
// country count, and the most common country and city.
func (a *Aggregator) Summarize(records []domain.StoreRecord) domain.StoreSummary {
	var summary domain.StoreSummary
	if len(records) == 0 {
		return summary
	}

	stores := make(map[string]bool)
	for _, record := range records {
		if record.StoreNumber.Present {
			stores[record.StoreNumber.Value] = true
		}
	}
	summary.TotalStores = len(stores)

	countries := a.aggregateBy(records, domain.DimensionCountry)
	summary.TotalCountries = len(countries)
	summary.TopCountry = countries[0].Key

	cities := a.aggregateBy(records, domain.DimensionCity)
	summary.TopCity = cities[0].Key

	return summary
}

func dimensionKey(record domain.StoreRecord, dim domain.Dimension) string {
	var field domain.Text
	switch dim {
	case domain.DimensionCountry:
		field = record.Country
	case domain.DimensionProvince:
		field = record.StateProvince
	case domain.DimensionCity:
		field = record.City
	case domain.DimensionOwnership:
		field = record.OwnershipType
	}
	if !field.Present {
		return UnknownKey
	}
	return field.Value
}

// roundHalfUp rounds to the given number of decimal places with ties going
// away from zero toward the larger value (0.005 -> 0.01).
func roundHalfUp(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(x*shift+0.5) / shift
}
