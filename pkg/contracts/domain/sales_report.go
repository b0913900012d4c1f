package domain

import "time"

// UnknownGroup labels records whose grouping key is null
const UnknownGroup = "Unknown"

// SalesReport bundles the five analyses written to the report workbook
type SalesReport struct {
	Summary      Summary        `json:"summary"`
	Categories   []CategoryStat `json:"categories"`
	Monthly      []MonthlyStat  `json:"monthly"`
	TopProducts  []ProductStat  `json:"top_products"`
	TopCustomers []CustomerStat `json:"top_customers"`
}

// Summary holds the headline metrics of a record set
type Summary struct {
	TotalRevenue     float64   `json:"total_revenue"`
	Orders           int       `json:"orders"`
	Customers        int       `json:"customers"`
	Products         int       `json:"products"`
	AvgOrderValue    float64   `json:"avg_order_value"`
	AvgItemsPerOrder float64   `json:"avg_items_per_order"`
	TotalUnits       int64     `json:"total_units"`
	FirstOrder       time.Time `json:"first_order"`
	LastOrder        time.Time `json:"last_order"`
}

// CategoryStat is the per-category aggregate
type CategoryStat struct {
	Category      string  `json:"category"`
	Orders        int     `json:"orders"`
	UnitsSold     int64   `json:"units_sold"`
	Revenue       float64 `json:"revenue"`
	TotalDiscount float64 `json:"total_discount"`
	RevenueShare  float64 `json:"revenue_share"` // percent, 2 decimals
}

// MonthlyStat is the per-month aggregate
type MonthlyStat struct {
	Month     string  `json:"month"`
	Orders    int     `json:"orders"`
	Revenue   float64 `json:"revenue"`
	UnitsSold int64   `json:"units_sold"`
}

// ProductStat is the per-product aggregate
type ProductStat struct {
	Product      string  `json:"product"`
	Orders       int     `json:"orders"`
	UnitsSold    int64   `json:"units_sold"`
	Revenue      float64 `json:"revenue"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// CustomerStat is the per-customer aggregate
type CustomerStat struct {
	CustomerID    string    `json:"customer_id"`
	Company       string    `json:"company"`
	Orders        int       `json:"orders"`
	Revenue       float64   `json:"revenue"`
	AvgOrderValue float64   `json:"avg_order_value"`
	LastOrder     time.Time `json:"last_order"`
}

// QualityReport is the read-only diagnostic produced by the quality audit.
// Sub-reports are nil when the columns they need are absent.
type QualityReport struct {
	Records       int               `json:"records"`
	Columns       int               `json:"columns"`
	Missing       []MissingValues   `json:"missing"`
	Total         *Describe         `json:"total,omitempty"`
	OrderDates    *DateRange        `json:"order_dates,omitempty"`
	TopCategories []CategoryRevenue `json:"top_categories,omitempty"`
}

// MissingValues counts the nulls in one column
type MissingValues struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Describe holds descriptive statistics of a numeric column.
// Std is nil when fewer than two values exist.
type Describe struct {
	Count int      `json:"count"`
	Mean  float64  `json:"mean"`
	Std   *float64 `json:"std,omitempty"`
	Min   float64  `json:"min"`
	P25   float64  `json:"p25"`
	P50   float64  `json:"p50"`
	P75   float64  `json:"p75"`
	Max   float64  `json:"max"`
}

// DateRange is the span of a date column
type DateRange struct {
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
	SpanDays int       `json:"span_days"`
}

// CategoryRevenue is a category with its revenue sum
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}
