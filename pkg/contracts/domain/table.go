package domain

import (
	"database/sql"
	"time"
)

// Table is a named, column-ordered view of a record set. A nil cell is a
// null value. Cells hold int64, float64, string, bool or time.Time.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of name, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SalesLineColumns is the column order of extracted sales lines
var SalesLineColumns = []string{
	"OrderID", "OrderDate", "ShippedDate", "ShipCountry", "Freight",
	"CustomerID", "CompanyName", "ContactName", "CustomerCountry", "CustomerCity",
	"ProductID", "ProductName", "ProductUnitPrice",
	"CategoryID", "CategoryName", "CategoryDescription",
	"SupplierName", "SupplierCountry",
	"Quantity", "UnitPrice", "Discount", "Total", "DiscountAmount",
}

// CalendarColumns and BusinessColumns are the derived columns, in output order
var (
	CalendarColumns = []string{"Year", "Month", "Quarter", "DayOfWeek", "WeekOfYear", "MonthName", "YearMonth", "DayName"}
	BusinessColumns = []string{"OrderSize", "HasDiscount", "DiscountLevel", "DeliveryDays", "DeliverySpeed", "RevenuePerUnit"}
)

// EnrichedColumns returns the full column order of the enriched table
func EnrichedColumns() []string {
	cols := make([]string, 0, len(SalesLineColumns)+len(CalendarColumns)+len(BusinessColumns))
	cols = append(cols, SalesLineColumns...)
	cols = append(cols, CalendarColumns...)
	return append(cols, BusinessColumns...)
}

// SalesLinesTable lays out raw sales lines as a table
func SalesLinesTable(name string, lines []SalesLine) *Table {
	rows := make([][]any, len(lines))
	for i, l := range lines {
		rows[i] = []any{
			nullInt(l.OrderID), nullString(l.OrderDate), nullString(l.ShippedDate), nullString(l.ShipCountry), nullFloat(l.Freight),
			nullString(l.CustomerID), nullString(l.CompanyName), nullString(l.ContactName), nullString(l.CustomerCountry), nullString(l.CustomerCity),
			nullInt(l.ProductID), nullString(l.ProductName), nullFloat(l.ProductUnitPrice),
			nullInt(l.CategoryID), nullString(l.CategoryName), nullString(l.CategoryDescription),
			nullString(l.SupplierName), nullString(l.SupplierCountry),
			nullInt(l.Quantity), nullFloat(l.UnitPrice), nullFloat(l.Discount), nullFloat(l.Total), nullFloat(l.DiscountAmount),
		}
	}
	return &Table{Name: name, Columns: append([]string(nil), SalesLineColumns...), Rows: rows}
}

// EnrichedTable lays out enriched records as a table
func EnrichedTable(name string, records []EnrichedRecord) *Table {
	rows := make([][]any, len(records))
	for i, r := range records {
		var hasDiscount int64
		if r.HasDiscount {
			hasDiscount = 1
		}
		rows[i] = []any{
			r.OrderID, r.OrderDate, nullTime(r.ShippedDate), nullString(r.ShipCountry), nullFloat(r.Freight),
			r.CustomerID, nullString(r.CompanyName), nullString(r.ContactName), nullString(r.CustomerCountry), nullString(r.CustomerCity),
			r.ProductID, nullString(r.ProductName), nullFloat(r.ProductUnitPrice),
			r.CategoryID, nullString(r.CategoryName), nullString(r.CategoryDescription),
			nullString(r.SupplierName), nullString(r.SupplierCountry),
			r.Quantity, nullFloat(r.UnitPrice), nullFloat(r.Discount), r.Total, nullFloat(r.DiscountAmount),

			int64(r.Year), int64(r.Month), int64(r.Quarter), int64(r.DayOfWeek), int64(r.WeekOfYear),
			r.MonthName, r.YearMonth, r.DayName,

			label(string(r.OrderSize)), hasDiscount, label(string(r.DiscountLevel)),
			nullDays(r.DeliveryDays), label(string(r.DeliverySpeed)), r.RevenuePerUnit,
		}
	}
	return &Table{Name: name, Columns: EnrichedColumns(), Rows: rows}
}

func nullString(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func nullInt(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func nullFloat(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullDays(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

// label maps an unknown bucket to null
func label(v string) any {
	if v == "" {
		return nil
	}
	return v
}
