package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/shared/testutil"
	"salesetl/pkg/contracts/domain"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.75, 4},
		{1, 5},
		{0.1, 1.4},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, percentile(sorted, tt.p), 1e-9, "p=%v", tt.p)
	}
	assert.InDelta(t, 2.5, percentile([]float64{1, 2, 3, 4}, 0.5), 1e-9)
	assert.Zero(t, percentile(nil, 0.5))
}

func TestDescribe(t *testing.T) {
	d := describe([]float64{54, 20, 5})
	require.NotNil(t, d)

	assert.Equal(t, 3, d.Count)
	assert.InDelta(t, 79.0/3, d.Mean, 1e-9)
	require.NotNil(t, d.Std)
	assert.InDelta(t, 25.1064, *d.Std, 1e-3)
	assert.Equal(t, 5.0, d.Min)
	assert.Equal(t, 12.5, d.P25)
	assert.Equal(t, 20.0, d.P50)
	assert.Equal(t, 37.0, d.P75)
	assert.Equal(t, 54.0, d.Max)

	single := describe([]float64{7})
	require.NotNil(t, single)
	assert.Nil(t, single.Std)
	assert.Equal(t, 7.0, single.Mean)

	assert.Nil(t, describe(nil))
}

func auditTable() *domain.Table {
	return &domain.Table{
		Name:    "sales",
		Columns: []string{"OrderID", "OrderDate", "CategoryName", "Total", "ShippedDate"},
		Rows: [][]any{
			{int64(1), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Beverages", 20.0, nil},
			{int64(1), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Condiments", 5.0, nil},
			{int64(2), time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "Seafood", 54.0, time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)},
			{int64(3), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Beverages", 40.0, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestAuditor_Audit(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	auditor := NewAuditor(logger, AuditorConfig{TopCategories: 2})

	report := auditor.Audit(context.Background(), auditTable())

	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 5, report.Columns)

	require.Len(t, report.Missing, 1, "only the column with nulls is reported")
	assert.Equal(t, domain.MissingValues{Column: "ShippedDate", Count: 2, Percent: 50}, report.Missing[0])

	require.NotNil(t, report.Total)
	assert.Equal(t, 4, report.Total.Count)
	assert.InDelta(t, 29.75, report.Total.Mean, 1e-9)

	require.NotNil(t, report.OrderDates)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), report.OrderDates.First)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), report.OrderDates.Last)
	assert.Equal(t, 56, report.OrderDates.SpanDays)

	assert.Equal(t, []domain.CategoryRevenue{
		{Category: "Beverages", Revenue: 60},
		{Category: "Seafood", Revenue: 54},
	}, report.TopCategories)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Data quality report")
	testutil.AssertLogAttr(t, handler, "column", "ShippedDate")
	testutil.AssertNoErrors(t, handler)
}

func TestAuditor_NoMissingValues(t *testing.T) {
	table := auditTable()
	table.Columns = table.Columns[:4]
	for i := range table.Rows {
		table.Rows[i] = table.Rows[i][:4]
	}

	logger, handler := testutil.NewTestLogger(t)
	report := NewAuditor(logger, AuditorConfig{}).Audit(context.Background(), table)

	assert.Empty(t, report.Missing)
	assert.Len(t, report.TopCategories, 3)
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "No missing values")
}

func TestAuditor_SkipsAbsentColumns(t *testing.T) {
	table := &domain.Table{
		Name:    "partial",
		Columns: []string{"OrderID", "Quantity"},
		Rows:    [][]any{{int64(1), int64(2)}, {int64(2), nil}},
	}

	report := NewAuditor(nil, AuditorConfig{}).Audit(context.Background(), table)

	assert.Equal(t, 2, report.Records)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "Quantity", report.Missing[0].Column)
	assert.Nil(t, report.Total)
	assert.Nil(t, report.OrderDates)
	assert.Nil(t, report.TopCategories)
}

func TestAuditor_RawTable(t *testing.T) {
	lines := testutil.SalesLines(testutil.ScenarioOrderLines()...)
	lines[1].CategoryName.Valid = false

	report := NewAuditor(nil, AuditorConfig{}).Audit(context.Background(), domain.SalesLinesTable("raw", lines))

	assert.Equal(t, 3, report.Records)
	assert.Equal(t, len(domain.SalesLineColumns), report.Columns)

	missing := map[string]int{}
	for _, m := range report.Missing {
		missing[m.Column] = m.Count
		assert.InDelta(t, float64(m.Count)/3*100, m.Percent, 1e-9)
	}
	assert.Equal(t, map[string]int{"ShippedDate": 1, "CategoryName": 1, "CategoryDescription": 3}, missing)

	require.NotNil(t, report.OrderDates)
	assert.Equal(t, 36, report.OrderDates.SpanDays)

	require.Len(t, report.TopCategories, 3)
	assert.Equal(t, "Seafood", report.TopCategories[0].Category)
	assert.Contains(t, []string{report.TopCategories[1].Category, report.TopCategories[2].Category}, domain.UnknownGroup)
	assert.False(t, math.IsNaN(report.Total.Mean))
}
