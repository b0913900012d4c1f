package testutil

import (
	"database/sql"

	"salesetl/pkg/contracts/domain"
)

// OrderLine describes one synthetic order line. Empty descriptive fields
// get defaults; Total and DiscountAmount are derived the way the source
// query computes them.
type OrderLine struct {
	OrderID     int64
	CustomerID  string
	Company     string
	ProductID   int64
	Product     string
	CategoryID  int64
	Category    string
	Quantity    int64
	UnitPrice   float64
	Discount    float64
	OrderDate   string
	ShippedDate string
}

func (o OrderLine) withDefaults() OrderLine {
	if o.CustomerID == "" {
		o.CustomerID = "ALFKI"
	}
	if o.Company == "" {
		o.Company = "Alfreds Futterkiste"
	}
	if o.ProductID == 0 {
		o.ProductID = 1
	}
	if o.Product == "" {
		o.Product = "Chai"
	}
	if o.CategoryID == 0 {
		o.CategoryID = 1
	}
	if o.Category == "" {
		o.Category = "Beverages"
	}
	return o
}

// Total returns quantity * unit price * (1 - discount)
func (o OrderLine) Total() float64 {
	return float64(o.Quantity) * o.UnitPrice * (1 - o.Discount)
}

// DiscountAmount returns quantity * unit price * discount
func (o OrderLine) DiscountAmount() float64 {
	return float64(o.Quantity) * o.UnitPrice * o.Discount
}

// SalesLine converts o into the row the source returns for it
func (o OrderLine) SalesLine() domain.SalesLine {
	o = o.withDefaults()
	return domain.SalesLine{
		OrderID:          sql.NullInt64{Int64: o.OrderID, Valid: true},
		OrderDate:        nullString(o.OrderDate),
		ShippedDate:      nullString(o.ShippedDate),
		ShipCountry:      nullString("Germany"),
		Freight:          sql.NullFloat64{Float64: 10, Valid: true},
		CustomerID:       nullString(o.CustomerID),
		CompanyName:      nullString(o.Company),
		ContactName:      nullString("Maria Anders"),
		CustomerCountry:  nullString("Germany"),
		CustomerCity:     nullString("Berlin"),
		ProductID:        sql.NullInt64{Int64: o.ProductID, Valid: true},
		ProductName:      nullString(o.Product),
		ProductUnitPrice: sql.NullFloat64{Float64: o.UnitPrice, Valid: true},
		CategoryID:       sql.NullInt64{Int64: o.CategoryID, Valid: true},
		CategoryName:     nullString(o.Category),
		SupplierName:     nullString("Exotic Liquids"),
		SupplierCountry:  nullString("UK"),
		Quantity:         sql.NullInt64{Int64: o.Quantity, Valid: true},
		UnitPrice:        sql.NullFloat64{Float64: o.UnitPrice, Valid: true},
		Discount:         sql.NullFloat64{Float64: o.Discount, Valid: true},
		Total:            sql.NullFloat64{Float64: o.Total(), Valid: true},
		DiscountAmount:   sql.NullFloat64{Float64: o.DiscountAmount(), Valid: true},
	}
}

// SalesLines converts each order line
func SalesLines(lines ...OrderLine) []domain.SalesLine {
	out := make([]domain.SalesLine, len(lines))
	for i, l := range lines {
		out[i] = l.SalesLine()
	}
	return out
}

// ScenarioOrderLines returns three lines across two orders with a total
// revenue of 79 and an average order value of 39.5
func ScenarioOrderLines() []OrderLine {
	return []OrderLine{
		{OrderID: 1, Quantity: 2, UnitPrice: 10, Discount: 0, OrderDate: "2024-01-05", ShippedDate: "2024-01-08"},
		{OrderID: 1, ProductID: 2, Product: "Chang", Quantity: 1, UnitPrice: 5, Discount: 0, OrderDate: "2024-01-05", ShippedDate: "2024-01-08"},
		{
			OrderID: 2, CustomerID: "BONAP", Company: "Bon app'", ProductID: 3, Product: "Ikura",
			CategoryID: 8, Category: "Seafood", Quantity: 3, UnitPrice: 20, Discount: 0.1, OrderDate: "2024-02-10",
		},
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
