package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"storescan/internal/infrastructure"
	"storescan/pkg/contracts/domain"
)

// CleanerConfig holds the optional normalization rules applied during cleaning.
type CleanerConfig struct {
	// CanonicalBrand, when set, collapses every brand variant to this name.
	CanonicalBrand string
	// FillCityFromProvince backfills a missing city with the state/province
	// value before validation, rescuing otherwise-rejected rows.
	FillCityFromProvince bool
}

// Cleaner validates, deduplicates and normalizes raw store rows.
type Cleaner struct {
	logger *slog.Logger
	config CleanerConfig
}

// NewCleaner creates a new cleaner
func NewCleaner(logger *slog.Logger, config CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger, config: config}
}

// Clean turns the raw table into the cleaned record collection plus its
// report. Retained records keep their original file order. The pass is pure:
// writing the cleaned output file is the caller's job.
//
// Invariant: retained + duplicates + rejected == len(table.Rows).
func (c *Cleaner) Clean(ctx context.Context, table *RawTable) ([]domain.StoreRecord, *domain.CleaningReport) {
	report := &domain.CleaningReport{
		RunID:         infrastructure.RunIDFrom(ctx),
		TotalRows:     len(table.Rows),
		MalformedRows: table.Malformed,
	}

	cleaned := make([]domain.StoreRecord, 0, len(table.Rows))
	seen := make(map[string]bool)

	for _, row := range table.Rows {
		record, reason := c.parseRow(row)
		if reason != "" {
			report.Rejected = append(report.Rejected, domain.RejectedRow{
				Line:        row.Line,
				StoreNumber: record.StoreNumber.String(),
				Reason:      reason,
			})
			c.logger.DebugContext(ctx, "row rejected",
				slog.Int("line", row.Line),
				slog.String("reason", string(reason)))
			continue
		}

		// First-seen wins; rows without a store number never collide.
		if record.StoreNumber.Present {
			if seen[record.StoreNumber.Value] {
				report.Duplicates++
				c.logger.DebugContext(ctx, "duplicate store number dropped",
					slog.Int("line", row.Line),
					slog.String("store_number", record.StoreNumber.Value))
				continue
			}
			seen[record.StoreNumber.Value] = true
		}

		cleaned = append(cleaned, record)
	}

	report.Retained = len(cleaned)

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("malformed", report.MalformedRows),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("rejected", report.RejectedCount()),
		slog.Int("retained", report.Retained))

	return cleaned, report
}

// parseRow builds a normalized StoreRecord from one raw row and returns the
// rejection reason, if any. Trimming and the absent-marker collapse happen
// here via domain.NewText.
func (c *Cleaner) parseRow(row RawRow) (domain.StoreRecord, domain.RejectReason) {
	record := domain.StoreRecord{
		Brand:         textField(row, ColBrand),
		StoreNumber:   textField(row, ColStoreNumber),
		StoreName:     textField(row, ColStoreName),
		OwnershipType: textField(row, ColOwnershipType),
		StreetAddress: textField(row, ColStreetAddress),
		City:          textField(row, ColCity),
		StateProvince: textField(row, ColStateProvince),
		Country:       countryField(row),
		Postcode:      textField(row, ColPostcode),
		PhoneNumber:   textField(row, ColPhoneNumber),
		Timezone:      textField(row, ColTimezone),
	}

	if c.config.CanonicalBrand != "" && record.Brand.Present {
		record.Brand = domain.NewText(c.config.CanonicalBrand)
	}
	if c.config.FillCityFromProvince && !record.City.Present && record.StateProvince.Present {
		record.City = record.StateProvince
	}

	var coordsInvalid bool
	record.Latitude, coordsInvalid = coordinateField(row, ColLatitude)
	if coordsInvalid {
		return record, domain.ReasonInvalidCoordinates
	}
	record.Longitude, coordsInvalid = coordinateField(row, ColLongitude)
	if coordsInvalid {
		return record, domain.ReasonInvalidCoordinates
	}

	if !record.Country.Present || !record.City.Present || !record.HasCoordinates() {
		return record, domain.ReasonMissingRequiredField
	}
	if record.Latitude.Value < -90 || record.Latitude.Value > 90 ||
		record.Longitude.Value < -180 || record.Longitude.Value > 180 {
		return record, domain.ReasonCoordinateOutOfRange
	}

	return record, ""
}

func textField(row RawRow, col string) domain.Text {
	raw, _ := row.Get(col)
	return domain.NewText(raw)
}

func countryField(row RawRow) domain.Text {
	t := textField(row, ColCountry)
	if t.Present {
		t.Value = strings.ToUpper(t.Value)
	}
	return t
}

// coordinateField parses one coordinate component. A blank cell is absent;
// a non-numeric cell is invalid.
func coordinateField(row RawRow, col string) (domain.Coordinate, bool) {
	raw, _ := row.Get(col)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Coordinate{}, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return domain.Coordinate{}, true
	}
	return domain.Coordinate{Value: value, Present: true}, false
}
