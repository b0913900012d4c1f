package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/shared/testutil"
	"salesetl/pkg/contracts/domain"
)

// setupTestEnv creates a writer over a fresh output directory
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "processed")
	logger, _ := testutil.NewTestLogger(t)
	return NewCSVWriter(dir, logger), dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestNewCSVWriter(t *testing.T) {
	writer := NewCSVWriter("out", nil)

	assert.NotNil(t, writer)
	assert.Equal(t, "out", writer.dir)
	assert.NotNil(t, writer.logger)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, dir := setupTestEnv(t)

	tests := []struct {
		name     string
		filename string
		options  WriteOptions
		validate func(t *testing.T, path string)
	}{
		{
			name:     "basic write with headers",
			filename: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Name", "Age", "City"},
				Records: [][]string{
					{"John", "25", "New York"},
					{"Jane", "30", "London"},
				},
			},
			validate: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3)
				assert.Equal(t, "Name,Age,City", lines[0])
				assert.Equal(t, "John,25,New York", lines[1])
				assert.Equal(t, "Jane,30,London", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filename: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Category", "Revenue"},
				Records:   [][]string{{"Beverages", "150.25"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)

				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "Category,Revenue", lines[0])
				assert.Equal(t, "Beverages,150.25", lines[1])
			},
		},
		{
			name:     "write without headers",
			filename: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{{"Data1", "Data2"}, {"Data3", "Data4"}},
			},
			validate: func(t *testing.T, path string) {
				assert.Equal(t, [][]string{{"Data1", "Data2"}, {"Data3", "Data4"}}, readCSV(t, path))
			},
		},
		{
			name:     "empty records",
			filename: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, path string) {
				assert.Equal(t, [][]string{{"Col1", "Col2"}}, readCSV(t, path))
			},
		},
		{
			name:     "quoting of separators",
			filename: "test_quotes.csv",
			options: WriteOptions{
				Headers: []string{"Company"},
				Records: [][]string{{"Bon app', \"Marseille\""}},
			},
			validate: func(t *testing.T, path string) {
				assert.Equal(t, "Bon app', \"Marseille\"", readCSV(t, path)[1][0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged, err := writer.WriteCSV(tt.filename, tt.options)
			require.NoError(t, err)
			out := staged.Output()
			assert.NoFileExists(t, out.Path, "the file appears on commit")
			require.NoError(t, staged.Commit())

			assert.Equal(t, tt.filename, out.Name)
			assert.Equal(t, filepath.Join(dir, tt.filename), out.Path)
			info, err := os.Stat(out.Path)
			require.NoError(t, err)
			assert.Equal(t, info.Size(), out.SizeBytes)

			tt.validate(t, out.Path)
		})
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary files are renamed or removed")
}

func TestCSVWriter_WriteTable(t *testing.T) {
	writer, dir := setupTestEnv(t)

	table := &domain.Table{
		Name:    "sales",
		Columns: []string{"OrderID", "OrderDate", "ShippedDate", "Total", "HasDiscount", "DeliverySpeed"},
		Rows: [][]any{
			{int64(10248), time.Date(1996, 7, 4, 0, 0, 0, 0, time.UTC), time.Date(1996, 7, 16, 0, 0, 0, 0, time.UTC), 440.0, int64(0), "Normal"},
			{int64(10249), time.Date(1996, 7, 5, 0, 0, 0, 0, time.UTC), nil, 1863.4, int64(1), "Not Shipped"},
		},
	}

	staged, err := writer.WriteTable(context.Background(), table, "sales_complete.csv", false)
	require.NoError(t, err)
	require.NoError(t, staged.Commit())
	out := staged.Output()

	assert.Equal(t, filepath.Join(dir, "sales_complete.csv"), out.Path)
	assert.Equal(t, [][]string{
		{"OrderID", "OrderDate", "ShippedDate", "Total", "HasDiscount", "DeliverySpeed"},
		{"10248", "1996-07-04", "1996-07-16", "440", "0", "Normal"},
		{"10249", "1996-07-05", "", "1863.4", "1", "Not Shipped"},
	}, readCSV(t, out.Path))
}

func TestCSVWriter_CreateStreamWriter(t *testing.T) {
	writer, dir := setupTestEnv(t)
	path := filepath.Join(dir, "stream_test.csv")

	stream, err := writer.CreateStreamWriter("stream_test.csv", []string{"Name", "Value"}, true)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"Chai", "18"}))

	staged, err := stream.Close()
	require.NoError(t, err)
	assert.NoFileExists(t, path, "file appears only on commit")
	require.NoError(t, staged.Commit())

	assert.Equal(t, path, staged.Output().Path)
	assert.Equal(t, [][]string{{"Name", "Value"}, {"Chai", "18"}}, readCSV(t, path))
}

func TestStreamWriter_Abort(t *testing.T) {
	writer, dir := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("aborted.csv", []string{"A"}, false)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"1"}))
	stream.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStagedFile_Discard(t *testing.T) {
	writer, dir := setupTestEnv(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "sales_complete.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0644))

	staged, err := writer.WriteCSV("sales_complete.csv", WriteOptions{Headers: []string{"A"}})
	require.NoError(t, err)
	staged.Discard()
	staged.Discard()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Error(t, staged.Commit(), "a discarded file cannot be committed")
}

func TestCSVWriter_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	writer := NewCSVWriter(filepath.Join(blocker, "out"), nil)
	_, err := writer.WriteCSV("a.csv", WriteOptions{Headers: []string{"A"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}
