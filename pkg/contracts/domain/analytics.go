package domain

// Dimension names a grouping key for aggregation.
type Dimension string

const (
	DimensionCountry   Dimension = "country"
	DimensionProvince  Dimension = "state_province"
	DimensionCity      Dimension = "city"
	DimensionOwnership Dimension = "ownership_type"
)

// AggregateStats holds the count and share for one grouping-key value.
// Percent is count/total*100 rounded half-up to two decimals.
type AggregateStats struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// StoreSummary is the whole-collection descriptive summary.
type StoreSummary struct {
	TotalStores    int    `json:"total_stores"`
	TotalCountries int    `json:"total_countries"`
	TopCountry     string `json:"top_country"`
	TopCity        string `json:"top_city"`
}
