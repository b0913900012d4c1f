package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesetl/internal/shared/testutil"
	"salesetl/pkg/contracts/domain"
)

func reportSheets() []*domain.Table {
	return []*domain.Table{
		{
			Name:    "Summary",
			Columns: []string{"Metric", "Value"},
			Rows: [][]any{
				{"Total Revenue", "$79.00"},
				{"Total Orders", "2"},
			},
		},
		{
			Name:    "Categories",
			Columns: []string{"Category", "Orders", "Revenue", "Revenue %"},
			Rows: [][]any{
				{"Seafood", int64(1), 54.0, 68.35},
				{nil, int64(1), 25.0, 31.65},
			},
		},
		{
			Name:    "Top Customers",
			Columns: []string{"CustomerID", "Last Order"},
			Rows: [][]any{
				{"BONAP", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
			},
		},
	}
}

func TestExcelWriter_WriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	logger, handler := testutil.NewTestLogger(t)
	writer := NewExcelWriter(dir, logger)

	staged, err := writer.WriteWorkbook(context.Background(), reportSheets(), "sales_reports.xlsx")
	require.NoError(t, err)
	out := staged.Output()
	assert.NoFileExists(t, out.Path)
	require.NoError(t, staged.Commit())

	assert.Equal(t, "sales_reports.xlsx", out.Name)
	assert.Equal(t, filepath.Join(dir, "sales_reports.xlsx"), out.Path)
	assert.Greater(t, out.SizeBytes, int64(0))
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Excel workbook written")

	f, err := excelize.OpenFile(out.Path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Categories", "Top Customers"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Metric", "Value"},
		{"Total Revenue", "$79.00"},
		{"Total Orders", "2"},
	}, rows)

	rows, err = f.GetRows("Categories")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Seafood", "1", "54", "68.35"}, rows[1])
	assert.Equal(t, "", rows[2][0], "null cells are left empty")

	rows, err = f.GetRows("Top Customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"BONAP", "2024-02-10"}, rows[1])
}

func TestExcelWriter_NoSheets(t *testing.T) {
	dir := t.TempDir()
	writer := NewExcelWriter(dir, nil)

	_, err := writer.WriteWorkbook(context.Background(), nil, "empty.xlsx")

	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExcelWriter_InvalidSheetName(t *testing.T) {
	dir := t.TempDir()
	writer := NewExcelWriter(dir, nil)

	sheets := []*domain.Table{
		{Name: "Summary", Columns: []string{"Metric"}},
		{Name: "Bad/Name", Columns: []string{"A"}},
	}
	_, err := writer.WriteWorkbook(context.Background(), sheets, "bad.xlsx")

	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
