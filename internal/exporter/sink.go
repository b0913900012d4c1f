package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"salesetl/internal/config"
	apperrors "salesetl/internal/errors"
	"salesetl/pkg/contracts/domain"
)

// Sink persists the enriched table and the report workbook for one run
type Sink struct {
	dir    string
	csv    *CSVWriter
	excel  *ExcelWriter
	bom    bool
	logger *slog.Logger
}

// NewSink creates a sink writing into dir. The directory is created on the
// first write.
func NewSink(dir string, bom bool, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		dir:    dir,
		csv:    NewCSVWriter(dir, logger),
		excel:  NewExcelWriter(dir, logger),
		bom:    bom,
		logger: logger,
	}
}

// Batch holds the staged outputs of one run. The output directory keeps
// its previous contents until Commit.
type Batch struct {
	sink   *Sink
	staged []*StagedFile
}

// Stage writes the enriched table for sales_complete.csv, the report sheets
// for sales_reports.xlsx and a timestamped copy of the table. If any write
// fails, everything staged so far is discarded.
func (s *Sink) Stage(ctx context.Context, sales *domain.Table, sheets []*domain.Table, timestamp string) (*Batch, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, apperrors.NewSinkError("output directory unavailable", err).WithContext("dir", s.dir)
	}

	b := &Batch{sink: s}
	fail := func(file string, err error) (*Batch, error) {
		b.Discard(ctx)
		return nil, apperrors.NewSinkError(fmt.Sprintf("failed to write %s", file), err).WithContext("dir", s.dir)
	}

	staged, err := s.csv.WriteTable(ctx, sales, config.SalesCSVFile, s.bom)
	if err != nil {
		return fail(config.SalesCSVFile, err)
	}
	b.staged = append(b.staged, staged)

	staged, err = s.excel.WriteWorkbook(ctx, sheets, config.ReportWorkbookFile)
	if err != nil {
		return fail(config.ReportWorkbookFile, err)
	}
	b.staged = append(b.staged, staged)

	versioned := config.SalesCSVPrefix + timestamp + ".csv"
	staged, err = s.csv.WriteTable(ctx, sales, versioned, s.bom)
	if err != nil {
		return fail(versioned, err)
	}
	b.staged = append(b.staged, staged)

	return b, nil
}

// Add stages data as name in the batch directory
func (b *Batch) Add(name string, data []byte) (domain.OutputFile, error) {
	staged, err := stageBytes(b.sink.dir, name, data)
	if err != nil {
		return domain.OutputFile{}, apperrors.NewSinkError(fmt.Sprintf("failed to write %s", name), err).WithContext("dir", b.sink.dir)
	}
	b.staged = append(b.staged, staged)
	return staged.Output(), nil
}

// Files describes the batch as it will exist after Commit
func (b *Batch) Files() []domain.OutputFile {
	files := make([]domain.OutputFile, len(b.staged))
	for i, f := range b.staged {
		files[i] = f.Output()
	}
	return files
}

// Commit moves every staged file into place. On a failed move the files
// not yet moved are discarded.
func (b *Batch) Commit(ctx context.Context) ([]domain.OutputFile, error) {
	for i, f := range b.staged {
		if err := f.Commit(); err != nil {
			for _, rest := range b.staged[i:] {
				rest.Discard()
			}
			return nil, apperrors.NewSinkError("failed to save outputs", err).
				WithContext("dir", b.sink.dir).
				WithContext("committed", i)
		}
	}

	files := b.Files()
	b.sink.logger.InfoContext(ctx, "All outputs saved",
		slog.String("dir", b.sink.dir),
		slog.Int("files", len(files)))
	return files, nil
}

// Discard drops every staged file that was not committed
func (b *Batch) Discard(ctx context.Context) {
	for _, f := range b.staged {
		f.Discard()
	}
	if len(b.staged) > 0 {
		b.sink.logger.InfoContext(ctx, "Discarded staged outputs", slog.Int("files", len(b.staged)))
	}
}
