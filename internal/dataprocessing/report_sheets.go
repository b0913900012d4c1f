package dataprocessing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesetl/pkg/contracts/domain"
)

// Workbook sheet names, in output order
const (
	SheetSummary      = "Summary"
	SheetCategories   = "Categories"
	SheetMonthly      = "Monthly"
	SheetTopProducts  = "Top Products"
	SheetTopCustomers = "Top Customers"
)

var printer = message.NewPrinter(language.English)

// SummaryRows renders the headline metrics as display strings
func SummaryRows(s domain.Summary) [][]any {
	dateRange := ""
	if !s.FirstOrder.IsZero() {
		dateRange = s.FirstOrder.Format("2006-01-02") + " to " + s.LastOrder.Format("2006-01-02")
	}
	return [][]any{
		{"Total Revenue", printer.Sprintf("$%.2f", s.TotalRevenue)},
		{"Number of Orders", printer.Sprintf("%d", s.Orders)},
		{"Number of Customers", printer.Sprintf("%d", s.Customers)},
		{"Number of Products", printer.Sprintf("%d", s.Products)},
		{"Average Order Value", printer.Sprintf("$%.2f", s.AvgOrderValue)},
		{"Average Items per Order", printer.Sprintf("%.2f", s.AvgItemsPerOrder)},
		{"Total Units Sold", printer.Sprintf("%d", s.TotalUnits)},
		{"Date Range", dateRange},
	}
}

// ReportSheets lays out the report as one table per workbook sheet
func ReportSheets(r domain.SalesReport) []*domain.Table {
	categories := &domain.Table{
		Name:    SheetCategories,
		Columns: []string{"Category", "Orders", "Units Sold", "Revenue", "Total Discount", "Revenue %"},
	}
	for _, c := range r.Categories {
		categories.Rows = append(categories.Rows, []any{
			c.Category, int64(c.Orders), c.UnitsSold, c.Revenue, c.TotalDiscount, c.RevenueShare,
		})
	}

	monthly := &domain.Table{
		Name:    SheetMonthly,
		Columns: []string{"Month", "Orders", "Revenue", "Units Sold"},
	}
	for _, m := range r.Monthly {
		monthly.Rows = append(monthly.Rows, []any{m.Month, int64(m.Orders), m.Revenue, m.UnitsSold})
	}

	products := &domain.Table{
		Name:    SheetTopProducts,
		Columns: []string{"Product", "Orders", "Units Sold", "Revenue", "Avg Unit Price"},
	}
	for _, p := range r.TopProducts {
		products.Rows = append(products.Rows, []any{p.Product, int64(p.Orders), p.UnitsSold, p.Revenue, p.AvgUnitPrice})
	}

	customers := &domain.Table{
		Name:    SheetTopCustomers,
		Columns: []string{"CustomerID", "Company", "Orders", "Revenue", "Avg Order Value", "Last Order"},
	}
	for _, c := range r.TopCustomers {
		customers.Rows = append(customers.Rows, []any{
			c.CustomerID, c.Company, int64(c.Orders), c.Revenue, c.AvgOrderValue, c.LastOrder,
		})
	}

	return []*domain.Table{
		{Name: SheetSummary, Columns: []string{"Metric", "Value"}, Rows: SummaryRows(r.Summary)},
		categories,
		monthly,
		products,
		customers,
	}
}
