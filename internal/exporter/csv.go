package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"storescan/internal/errors"
	"storescan/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options. The file is
// truncated, never appended, so repeated runs overwrite prior output.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	sw, err := w.CreateStreamWriter(filePath, options.Headers, options.BOMPrefix)
	if err != nil {
		return err
	}

	for i, record := range options.Records {
		if err := sw.WriteRecord(record); err != nil {
			sw.Close()
			return errors.NewStorageError("failed to write CSV data row", err).WithContext("row", i)
		}
	}

	return sw.Close()
}

// WriteStores writes store records in the fixed schema with the canonical
// header. Absent fields become empty cells.
func (w *CSVWriter) WriteStores(ctx context.Context, filePath string, records []domain.StoreRecord) error {
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = record.Row()
	}

	if err := w.WriteCSV(filePath, WriteOptions{
		Headers:   domain.Header,
		Records:   rows,
		BOMPrefix: true,
	}); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "store records written",
		slog.String("path", filePath),
		slog.Int("record_count", len(records)))
	return nil
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer and emits the header.
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string, bom bool) (*StreamWriter, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.NewStorageError("failed to create output file", err).WithContext("path", filePath)
	}

	// UTF-8 BOM helps spreadsheet tools recognize the encoding
	if bom {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			return nil, errors.NewStorageError("failed to write BOM", err).WithContext("path", filePath)
		}
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, errors.NewStorageError("failed to write CSV header row", err).WithContext("path", filePath)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
