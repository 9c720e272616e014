package dataprocessing

import (
	"strings"

	"storescan/pkg/contracts/domain"
)

// FilterByCountry returns the ordered sub-sequence of records whose country
// matches code (case-insensitive; cleaned records are already uppercased).
// No match is a valid outcome and yields an empty, non-nil slice.
func FilterByCountry(records []domain.StoreRecord, code string) []domain.StoreRecord {
	target := strings.ToUpper(strings.TrimSpace(code))
	subset := make([]domain.StoreRecord, 0)
	for _, record := range records {
		if record.Country.Present && record.Country.Value == target {
			subset = append(subset, record)
		}
	}
	return subset
}
