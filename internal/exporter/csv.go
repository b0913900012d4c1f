package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"salesetl/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes delimited text files into one output directory
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer for dir
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes options to a staged file for filename inside the output
// directory. The file only appears under filename once it is committed.
func (w *CSVWriter) WriteCSV(filename string, options WriteOptions) (*StagedFile, error) {
	stream, err := w.CreateStreamWriter(filename, options.Headers, options.BOMPrefix)
	if err != nil {
		return nil, err
	}

	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Abort()
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return stream.Close()
}

// WriteTable stages t with a header row of its column names
func (w *CSVWriter) WriteTable(ctx context.Context, t *domain.Table, filename string, bom bool) (*StagedFile, error) {
	w.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("file", filename),
		slog.Int("record_count", t.Len()),
		slog.Int("columns", len(t.Columns)))

	records := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for j := range record {
			if j < len(row) {
				record[j] = FormatCell(row[j])
			}
		}
		records[i] = record
	}

	staged, err := w.WriteCSV(filename, WriteOptions{
		Headers:   t.Columns,
		Records:   records,
		BOMPrefix: bom,
	})
	if err != nil {
		return nil, err
	}

	w.logger.InfoContext(ctx, "CSV file written",
		slog.String("file", filename),
		slog.Float64("size_mb", sizeMB(staged.size)))
	return staged, nil
}

// StreamWriter writes CSV rows to a temporary file that Close stages
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
	dir    string
	name   string
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filename string, headers []string, bom bool) (*StreamWriter, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := createTemp(w.dir, filename)
	if err != nil {
		return nil, err
	}

	stream := &StreamWriter{
		file:   file,
		writer: csv.NewWriter(file),
		dir:    w.dir,
		name:   filename,
	}

	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			stream.Abort()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	if len(headers) > 0 {
		if err := stream.writer.Write(headers); err != nil {
			stream.Abort()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return stream, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes the stream and returns it as a staged file
func (s *StreamWriter) Close() (*StagedFile, error) {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.Abort()
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return stage(s.file, s.dir, s.name)
}

// Abort discards everything written so far
func (s *StreamWriter) Abort() {
	s.file.Close()
	os.Remove(s.file.Name())
}

func sizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
