package dataprocessing

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/shared/testutil"
	"salesetl/pkg/contracts/domain"
)

// enrich runs lines through the cleaner and enricher
func enrich(t *testing.T, lines ...testutil.OrderLine) []domain.EnrichedRecord {
	t.Helper()
	ctx := context.Background()
	records, _ := NewCleaner(nil).Clean(ctx, testutil.SalesLines(lines...))
	require.Len(t, records, len(lines))
	return NewEnricher(nil).Enrich(ctx, records)
}

func TestSummarize_Scenario(t *testing.T) {
	records := enrich(t, testutil.ScenarioOrderLines()...)

	s := Summarize(records)

	assert.InDelta(t, 79.0, s.TotalRevenue, 1e-9)
	assert.Equal(t, 2, s.Orders)
	assert.Equal(t, 2, s.Customers)
	assert.Equal(t, 3, s.Products)
	assert.InDelta(t, 39.5, s.AvgOrderValue, 1e-9)
	assert.InDelta(t, 3.0, s.AvgItemsPerOrder, 1e-9)
	assert.Equal(t, int64(6), s.TotalUnits)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), s.FirstOrder)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), s.LastOrder)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, domain.Summary{}, Summarize(nil))
}

func TestSummaryRows(t *testing.T) {
	s := domain.Summary{
		TotalRevenue:     1265793.0394,
		Orders:           830,
		Customers:        89,
		Products:         77,
		AvgOrderValue:    1525.0518,
		AvgItemsPerOrder: 61.8277,
		TotalUnits:       51317,
		FirstOrder:       time.Date(1996, 7, 4, 0, 0, 0, 0, time.UTC),
		LastOrder:        time.Date(1998, 5, 6, 0, 0, 0, 0, time.UTC),
	}

	rows := SummaryRows(s)

	assert.Equal(t, [][]any{
		{"Total Revenue", "$1,265,793.04"},
		{"Number of Orders", "830"},
		{"Number of Customers", "89"},
		{"Number of Products", "77"},
		{"Average Order Value", "$1,525.05"},
		{"Average Items per Order", "61.83"},
		{"Total Units Sold", "51,317"},
		{"Date Range", "1996-07-04 to 1998-05-06"},
	}, rows)
}

func TestCategoryAnalysis(t *testing.T) {
	records := enrich(t,
		testutil.OrderLine{OrderID: 1, Category: "Beverages", Quantity: 1, UnitPrice: 10, OrderDate: "2024-01-01"},
		testutil.OrderLine{OrderID: 2, CategoryID: 2, Category: "Condiments", Quantity: 1, UnitPrice: 20, Discount: 0.5, OrderDate: "2024-01-02"},
		testutil.OrderLine{OrderID: 2, ProductID: 4, CategoryID: 3, Category: "Seafood", Quantity: 1, UnitPrice: 3, OrderDate: "2024-01-02"},
		testutil.OrderLine{OrderID: 3, Category: "Beverages", Quantity: 2, UnitPrice: 10, OrderDate: "2024-01-03"},
	)
	records[2].CategoryName.Valid = false

	stats := CategoryAnalysis(records)

	require.Len(t, stats, 3)
	assert.Equal(t, "Beverages", stats[0].Category)
	assert.Equal(t, 2, stats[0].Orders)
	assert.Equal(t, int64(3), stats[0].UnitsSold)
	assert.InDelta(t, 30.0, stats[0].Revenue, 1e-9)
	assert.Equal(t, 69.77, stats[0].RevenueShare)

	assert.Equal(t, "Condiments", stats[1].Category)
	assert.InDelta(t, 10.0, stats[1].TotalDiscount, 1e-9)
	assert.Equal(t, 23.26, stats[1].RevenueShare)

	assert.Equal(t, domain.UnknownGroup, stats[2].Category, "null category is kept")
	assert.Equal(t, 6.98, stats[2].RevenueShare)

	var share float64
	for _, c := range stats {
		share += c.RevenueShare
	}
	assert.InDelta(t, 100.0, share, 0.01*float64(len(stats)))
}

func TestCategoryAnalysis_SharesSumToHundred(t *testing.T) {
	var lines []testutil.OrderLine
	for i := 1; i <= 7; i++ {
		lines = append(lines, testutil.OrderLine{
			OrderID:    int64(i),
			ProductID:  int64(i),
			CategoryID: int64(i),
			Category:   fmt.Sprintf("Category %d", i),
			Quantity:   int64(i),
			UnitPrice:  13.37,
			OrderDate:  "2024-01-01",
		})
	}

	var share float64
	for _, c := range CategoryAnalysis(enrich(t, lines...)) {
		share += c.RevenueShare
	}
	assert.InDelta(t, 100.0, share, 0.05)
}

func TestMonthlyAnalysis_Chronological(t *testing.T) {
	records := enrich(t,
		testutil.OrderLine{OrderID: 1, Quantity: 1, UnitPrice: 10, OrderDate: "1997-11-03"},
		testutil.OrderLine{OrderID: 2, Quantity: 2, UnitPrice: 10, OrderDate: "1996-07-04"},
		testutil.OrderLine{OrderID: 3, Quantity: 1, UnitPrice: 10, OrderDate: "1997-02-14"},
		testutil.OrderLine{OrderID: 3, ProductID: 2, Quantity: 1, UnitPrice: 5, OrderDate: "1997-02-14"},
		testutil.OrderLine{OrderID: 4, Quantity: 1, UnitPrice: 10, OrderDate: "1996-07-30"},
	)

	months := MonthlyAnalysis(records)

	require.Len(t, months, 3)
	keys := make([]string, len(months))
	for i, m := range months {
		keys[i] = m.Month
	}
	assert.Equal(t, []string{"1996-07", "1997-02", "1997-11"}, keys)
	assert.True(t, sort.StringsAreSorted(keys))

	assert.Equal(t, domain.MonthlyStat{Month: "1996-07", Orders: 2, Revenue: 30, UnitsSold: 3}, months[0])
	assert.Equal(t, domain.MonthlyStat{Month: "1997-02", Orders: 1, Revenue: 15, UnitsSold: 2}, months[1])
}

func TestTopProducts(t *testing.T) {
	revenues := []float64{30, 80, 50, 80, 10, 50, 70, 20}
	var lines []testutil.OrderLine
	for i, rev := range revenues {
		lines = append(lines, testutil.OrderLine{
			OrderID:   int64(i + 1),
			ProductID: int64(i + 1),
			Product:   fmt.Sprintf("P%d", i+1),
			Quantity:  1,
			UnitPrice: rev,
			OrderDate: "2024-01-01",
		})
	}
	records := enrich(t, lines...)

	top := TopProducts(records, 5)

	require.Len(t, top, 5)
	names := make([]string, len(top))
	for i, p := range top {
		names[i] = p.Product
	}
	assert.Equal(t, []string{"P2", "P4", "P7", "P3", "P6"}, names, "ties keep original order")
	assert.Equal(t, 80.0, top[0].AvgUnitPrice)

	assert.Len(t, TopProducts(records, 20), 8)
}

func TestTopProducts_Aggregates(t *testing.T) {
	records := enrich(t,
		testutil.OrderLine{OrderID: 1, Product: "Chai", Quantity: 2, UnitPrice: 18, OrderDate: "2024-01-01"},
		testutil.OrderLine{OrderID: 2, Product: "Chai", Quantity: 3, UnitPrice: 14.4, OrderDate: "2024-01-02"},
		testutil.OrderLine{OrderID: 2, ProductID: 2, Product: "Chang", Quantity: 1, UnitPrice: 19, OrderDate: "2024-01-02"},
	)

	top := TopProducts(records, 20)

	require.Len(t, top, 2)
	assert.Equal(t, "Chai", top[0].Product)
	assert.Equal(t, 2, top[0].Orders)
	assert.Equal(t, int64(5), top[0].UnitsSold)
	assert.InDelta(t, 79.2, top[0].Revenue, 1e-9)
	assert.InDelta(t, 16.2, top[0].AvgUnitPrice, 1e-9)
}

func TestTopCustomers(t *testing.T) {
	records := enrich(t,
		testutil.OrderLine{OrderID: 1, CustomerID: "ALFKI", Quantity: 1, UnitPrice: 10, OrderDate: "2024-01-05"},
		testutil.OrderLine{OrderID: 2, CustomerID: "ALFKI", Quantity: 1, UnitPrice: 30, OrderDate: "2024-03-01"},
		testutil.OrderLine{OrderID: 3, CustomerID: "BONAP", Company: "Bon app'", Quantity: 1, UnitPrice: 50, OrderDate: "2024-02-01"},
		testutil.OrderLine{OrderID: 4, CustomerID: "WOLZA", Company: "Wolski", Quantity: 1, UnitPrice: 5, OrderDate: "2024-02-02"},
	)

	top := TopCustomers(records, 2)

	require.Len(t, top, 2)
	assert.Equal(t, domain.CustomerStat{
		CustomerID:    "BONAP",
		Company:       "Bon app'",
		Orders:        1,
		Revenue:       50,
		AvgOrderValue: 50,
		LastOrder:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, top[0])
	assert.Equal(t, "ALFKI", top[1].CustomerID)
	assert.Equal(t, 2, top[1].Orders)
	assert.InDelta(t, 20.0, top[1].AvgOrderValue, 1e-9)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), top[1].LastOrder)
}

func TestTopCustomers_NullCompany(t *testing.T) {
	records := enrich(t,
		testutil.OrderLine{OrderID: 1, CustomerID: "ALFKI", Quantity: 1, UnitPrice: 10, OrderDate: "2024-01-05"},
		testutil.OrderLine{OrderID: 2, CustomerID: "ALFKI", Quantity: 1, UnitPrice: 10, OrderDate: "2024-01-06"},
	)
	records[1].CompanyName.Valid = false

	top := TopCustomers(records, 20)

	require.Len(t, top, 2)
	assert.Equal(t, "Alfreds Futterkiste", top[0].Company)
	assert.Equal(t, domain.UnknownGroup, top[1].Company)
}

func TestReportBuilder_Build(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	builder := NewReportBuilder(logger, ReportConfig{})
	records := enrich(t, testutil.ScenarioOrderLines()...)

	report := builder.Build(context.Background(), records)
	again := builder.Build(context.Background(), records)

	assert.Equal(t, report, again)
	assert.Equal(t, 20, builder.config.TopN)
	assert.Equal(t, 2, report.Summary.Orders)
	assert.Len(t, report.Categories, 2)
	assert.Len(t, report.Monthly, 2)
	assert.Len(t, report.TopProducts, 3)
	assert.Len(t, report.TopCustomers, 2)
	assert.True(t, handler.ContainsMessage("Report created"))

	sheets := ReportSheets(report)
	require.Len(t, sheets, 5)
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
		for _, row := range s.Rows {
			assert.Len(t, row, len(s.Columns), "sheet %s", s.Name)
		}
	}
	assert.Equal(t, []string{SheetSummary, SheetCategories, SheetMonthly, SheetTopProducts, SheetTopCustomers}, names)
	assert.Equal(t, []any{"Total Revenue", "$79.00"}, sheets[0].Rows[0])
	assert.Equal(t, []any{"Average Order Value", "$39.50"}, sheets[0].Rows[4])
}
