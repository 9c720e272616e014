package dataprocessing

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"storescan/internal/errors"
)

// Canonical column keys. Header names are matched case-insensitively and
// whitespace-trimmed, so columns may be reordered or re-cased freely.
const (
	ColBrand         = "brand"
	ColStoreNumber   = "store number"
	ColStoreName     = "store name"
	ColOwnershipType = "ownership type"
	ColStreetAddress = "street address"
	ColCity          = "city"
	ColStateProvince = "state/province"
	ColCountry       = "country"
	ColPostcode      = "postcode"
	ColPhoneNumber   = "phone number"
	ColTimezone      = "timezone"
	ColLongitude     = "longitude"
	ColLatitude      = "latitude"
)

// RawRow is one data row keyed by canonical column name.
// Line is 1-based, counting data rows after the header.
type RawRow struct {
	Line   int
	Fields map[string]string
}

// Get returns the raw cell for the given canonical column key.
// The second return is false when the column was not in the header at all.
func (r RawRow) Get(col string) (string, bool) {
	v, ok := r.Fields[col]
	return v, ok
}

// RawTable holds the parsed input in file order plus the count of rows
// that could not be parsed as rows (wrong field count, broken quoting).
type RawTable struct {
	Columns   []string
	Rows      []RawRow
	Malformed int
}

// Loader reads the tabular store input into raw field mappings.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load dispatches on the file extension: .xlsx workbooks go through
// excelize, everything else is treated as CSV.
func (l *Loader) Load(path string) (*RawTable, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return l.LoadWorkbook(path)
	}
	return l.LoadCSV(path)
}

// LoadCSV parses a delimited file with a header row. Malformed data rows are
// skipped and counted; only an unreadable or header-less file is fatal.
func (l *Loader) LoadCSV(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("failed to open input file", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // column-count mismatches are counted, not fatal

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewIOError("input file has no header row", err).WithContext("path", path)
	}
	if err != nil {
		return nil, errors.NewIOError("failed to read header row", err).WithContext("path", path)
	}

	columns := normalizeHeader(header)
	table := &RawTable{Columns: columns}

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				table.Malformed++
				l.logger.Warn("skipping malformed row",
					slog.Int("line", line),
					slog.String("error", err.Error()))
				continue
			}
			return nil, errors.NewIOError("failed to read input file", err).WithContext("path", path)
		}
		if len(record) != len(columns) {
			table.Malformed++
			l.logger.Warn("skipping row with wrong column count",
				slog.Int("line", line),
				slog.Int("want", len(columns)),
				slog.Int("got", len(record)))
			continue
		}
		table.Rows = append(table.Rows, rawRow(line, columns, record))
	}

	l.logger.Info("input file loaded",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("malformed", table.Malformed))

	return table, nil
}

// LoadWorkbook parses an .xlsx workbook. The first sheet whose header row
// names both a country and a city column is used.
func (l *Loader) LoadWorkbook(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewIOError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil || len(sheetRows) == 0 {
			continue
		}
		headerText := strings.ToLower(strings.Join(sheetRows[0], " "))
		if strings.Contains(headerText, ColCountry) && strings.Contains(headerText, ColCity) {
			rows = sheetRows
			sheetName = name
			break
		}
	}
	if sheetName == "" {
		return nil, errors.NewIOError("could not find store data sheet in workbook", nil).WithContext("path", path)
	}

	l.logger.Info("found store data sheet",
		slog.String("path", path),
		slog.String("sheet", sheetName),
		slog.Int("total_rows", len(rows)))

	columns := normalizeHeader(rows[0])
	table := &RawTable{Columns: columns}

	for i, record := range rows[1:] {
		line := i + 1
		// excelize trims trailing empty cells; pad short rows back out
		if len(record) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, record)
			record = padded
		} else if len(record) > len(columns) {
			table.Malformed++
			l.logger.Warn("skipping row with wrong column count",
				slog.Int("line", line),
				slog.Int("want", len(columns)),
				slog.Int("got", len(record)))
			continue
		}
		table.Rows = append(table.Rows, rawRow(line, columns, record))
	}

	return table, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return columns
}

func rawRow(line int, columns, record []string) RawRow {
	fields := make(map[string]string, len(columns))
	for i, col := range columns {
		fields[col] = record[i]
	}
	return RawRow{Line: line, Fields: fields}
}
