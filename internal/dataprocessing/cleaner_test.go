package dataprocessing

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/shared/testutil"
	"salesetl/pkg/contracts/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"date only", "2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"date time", "1996-07-04 00:00:00", time.Date(1996, 7, 4, 0, 0, 0, 0, time.UTC), true},
		{"date time with fraction", "1996-07-04 13:45:10.123", time.Date(1996, 7, 4, 13, 45, 10, 123000000, time.UTC), true},
		{"rfc3339", "2024-02-10T00:00:00Z", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), true},
		{"us format", "02/10/2024", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), true},
		{"surrounding space", "  2024-01-05 ", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"invalid month", "2024-13-01", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestCleaner_Clean(t *testing.T) {
	ctx := context.Background()
	logger, handler := testutil.NewTestLogger(t)
	cleaner := NewCleaner(logger)

	valid := testutil.OrderLine{OrderID: 1, Quantity: 2, UnitPrice: 10, OrderDate: "2024-01-05", ShippedDate: "2024-01-08"}
	other := testutil.OrderLine{OrderID: 2, ProductID: 2, Product: "Chang", Quantity: 1, UnitPrice: 5, OrderDate: "2024-01-06"}

	zeroTotal := testutil.OrderLine{OrderID: 3, Quantity: 1, UnitPrice: 0, OrderDate: "2024-01-07"}.SalesLine()
	nullTotal := testutil.OrderLine{OrderID: 4, Quantity: 1, UnitPrice: 3, OrderDate: "2024-01-07"}.SalesLine()
	nullTotal.Total = sql.NullFloat64{}
	zeroQty := testutil.OrderLine{OrderID: 5, Quantity: 1, UnitPrice: 3, OrderDate: "2024-01-07"}.SalesLine()
	zeroQty.Quantity = sql.NullInt64{Int64: 0, Valid: true}
	badDate := testutil.OrderLine{OrderID: 6, Quantity: 1, UnitPrice: 3, OrderDate: "yesterday"}.SalesLine()
	noCustomer := testutil.OrderLine{OrderID: 7, Quantity: 1, UnitPrice: 3, OrderDate: "2024-01-07"}.SalesLine()
	noCustomer.CustomerID = sql.NullString{}

	lines := []domain.SalesLine{
		valid.SalesLine(),
		zeroTotal,
		valid.SalesLine(),
		nullTotal,
		zeroQty,
		badDate,
		noCustomer,
		other.SalesLine(),
	}
	input := append([]domain.SalesLine(nil), lines...)

	records, stats := cleaner.Clean(ctx, lines)

	assert.Equal(t, input, lines, "input must not be modified")
	require.Len(t, records, 2)
	assert.Equal(t, domain.CleaningStats{
		Input:               8,
		Duplicates:          1,
		NonPositiveTotal:    2,
		NonPositiveQuantity: 1,
		MissingIdentifiers:  1,
		InvalidOrderDate:    1,
		Output:              2,
	}, stats)
	assert.Equal(t, stats.Input-stats.Output, stats.Removed())

	assert.Equal(t, int64(1), records[0].OrderID)
	assert.Equal(t, int64(2), records[1].OrderID)
	for i, r := range records {
		assert.Equal(t, i, r.Index)
		assert.Greater(t, r.Total, 0.0)
		assert.Greater(t, r.Quantity, int64(0))
		assert.False(t, r.OrderDate.IsZero())
	}

	require.NotNil(t, records[0].ShippedDate)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), *records[0].ShippedDate)
	assert.Nil(t, records[1].ShippedDate)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Cleaning completed")
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "missing identifiers")
	testutil.AssertLogAttr(t, handler, "valid_records", int64(2))
}

func TestCleaner_UnparseableShippedDateBecomesNull(t *testing.T) {
	line := testutil.OrderLine{OrderID: 1, Quantity: 1, UnitPrice: 4, OrderDate: "2024-01-05", ShippedDate: "soon"}

	records, stats := NewCleaner(nil).Clean(context.Background(), testutil.SalesLines(line))

	require.Len(t, records, 1)
	assert.Nil(t, records[0].ShippedDate)
	assert.Zero(t, stats.Removed())
}

func TestCleaner_Empty(t *testing.T) {
	records, stats := NewCleaner(nil).Clean(context.Background(), nil)

	assert.Empty(t, records)
	assert.Equal(t, domain.CleaningStats{}, stats)
}

func TestCleaner_NoDuplicatesSurvive(t *testing.T) {
	base := testutil.ScenarioOrderLines()
	var lines []domain.SalesLine
	for i := 0; i < 3; i++ {
		lines = append(lines, testutil.SalesLines(base...)...)
	}

	records, stats := NewCleaner(nil).Clean(context.Background(), lines)

	assert.Len(t, records, len(base))
	assert.Equal(t, 2*len(base), stats.Duplicates)

	seen := make(map[domain.SalesRecord]bool)
	for _, r := range records {
		r.Index = 0
		r.ShippedDate = nil
		assert.False(t, seen[r], "duplicate record %+v", r)
		seen[r] = true
	}
}
