package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"salesetl/pkg/contracts/domain"
)

const (
	minColumnWidth = 10
	maxColumnWidth = 50
)

// ExcelWriter writes multi-sheet workbooks into one output directory
type ExcelWriter struct {
	dir    string
	logger *slog.Logger
}

// NewExcelWriter creates a new workbook writer for dir
func NewExcelWriter(dir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{dir: dir, logger: logger}
}

// WriteWorkbook stages a workbook with one sheet per table, in order, named
// after the table. Dates are written as text.
func (w *ExcelWriter) WriteWorkbook(ctx context.Context, sheets []*domain.Table, filename string) (*StagedFile, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filename)
	}

	w.logger.InfoContext(ctx, "Writing Excel workbook",
		slog.String("file", filename),
		slog.Int("sheets", len(sheets)))

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, t := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to write sheet %s: %w", t.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := createTemp(w.dir, filename)
	if err != nil {
		return nil, err
	}
	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	staged, err := stage(tmp, w.dir, filename)
	if err != nil {
		return nil, err
	}

	w.logger.InfoContext(ctx, "Excel workbook written",
		slog.String("file", filename),
		slog.Float64("size_mb", sizeMB(staged.size)),
		slog.Any("sheets", f.GetSheetList()))
	return staged, nil
}

func writeSheet(f *excelize.File, t *domain.Table, headerStyle int) error {
	widths := make([]int, len(t.Columns))

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
		widths[i] = utf8.RuneCountInString(c)
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(t.Name, 1, 1, headerStyle); err != nil {
		return err
	}

	for r, row := range t.Rows {
		values := make([]any, len(row))
		for i, v := range row {
			if d, ok := v.(time.Time); ok {
				v = formatTime(d)
			}
			values[i] = v
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(FormatCell(v)))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
			return err
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.Name, col, col, float64(min(max(width+2, minColumnWidth), maxColumnWidth))); err != nil {
			return err
		}
	}

	return f.SetPanes(t.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
