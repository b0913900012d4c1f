package domain

import (
	"database/sql"
	"time"
)

// SalesLine is one order-detail row joined with its order, customer,
// product, category and supplier context, exactly as the source returns it.
// Every column is nullable. SalesLine is comparable: two lines are equal
// when all of their fields are equal.
type SalesLine struct {
	OrderID             sql.NullInt64   `json:"order_id" db:"OrderID"`
	OrderDate           sql.NullString  `json:"order_date" db:"OrderDate"`
	ShippedDate         sql.NullString  `json:"shipped_date" db:"ShippedDate"`
	ShipCountry         sql.NullString  `json:"ship_country" db:"ShipCountry"`
	Freight             sql.NullFloat64 `json:"freight" db:"Freight"`
	CustomerID          sql.NullString  `json:"customer_id" db:"CustomerID"`
	CompanyName         sql.NullString  `json:"company_name" db:"CompanyName"`
	ContactName         sql.NullString  `json:"contact_name" db:"ContactName"`
	CustomerCountry     sql.NullString  `json:"customer_country" db:"CustomerCountry"`
	CustomerCity        sql.NullString  `json:"customer_city" db:"CustomerCity"`
	ProductID           sql.NullInt64   `json:"product_id" db:"ProductID"`
	ProductName         sql.NullString  `json:"product_name" db:"ProductName"`
	ProductUnitPrice    sql.NullFloat64 `json:"product_unit_price" db:"ProductUnitPrice"`
	CategoryID          sql.NullInt64   `json:"category_id" db:"CategoryID"`
	CategoryName        sql.NullString  `json:"category_name" db:"CategoryName"`
	CategoryDescription sql.NullString  `json:"category_description" db:"CategoryDescription"`
	SupplierName        sql.NullString  `json:"supplier_name" db:"SupplierName"`
	SupplierCountry     sql.NullString  `json:"supplier_country" db:"SupplierCountry"`
	Quantity            sql.NullInt64   `json:"quantity" db:"Quantity"`
	UnitPrice           sql.NullFloat64 `json:"unit_price" db:"UnitPrice"`
	Discount            sql.NullFloat64 `json:"discount" db:"Discount"`
	Total               sql.NullFloat64 `json:"total" db:"Total"`
	DiscountAmount      sql.NullFloat64 `json:"discount_amount" db:"DiscountAmount"`
}

// SalesRecord is a cleaned sales line. Identifiers and OrderDate are always
// present, Quantity and Total are strictly positive. ShippedDate is nil for
// orders that have not shipped.
type SalesRecord struct {
	Index int `json:"index"`

	OrderID     int64      `json:"order_id"`
	OrderDate   time.Time  `json:"order_date"`
	ShippedDate *time.Time `json:"shipped_date,omitempty"`
	CustomerID  string     `json:"customer_id"`
	ProductID   int64      `json:"product_id"`
	CategoryID  int64      `json:"category_id"`

	ShipCountry         sql.NullString  `json:"ship_country"`
	Freight             sql.NullFloat64 `json:"freight"`
	CompanyName         sql.NullString  `json:"company_name"`
	ContactName         sql.NullString  `json:"contact_name"`
	CustomerCountry     sql.NullString  `json:"customer_country"`
	CustomerCity        sql.NullString  `json:"customer_city"`
	ProductName         sql.NullString  `json:"product_name"`
	ProductUnitPrice    sql.NullFloat64 `json:"product_unit_price"`
	CategoryName        sql.NullString  `json:"category_name"`
	CategoryDescription sql.NullString  `json:"category_description"`
	SupplierName        sql.NullString  `json:"supplier_name"`
	SupplierCountry     sql.NullString  `json:"supplier_country"`

	Quantity       int64           `json:"quantity"`
	UnitPrice      sql.NullFloat64 `json:"unit_price"`
	Discount       sql.NullFloat64 `json:"discount"`
	Total          float64         `json:"total"`
	DiscountAmount sql.NullFloat64 `json:"discount_amount"`
}

// EnrichedRecord is a SalesRecord with its derived calendar and business
// attributes.
type EnrichedRecord struct {
	SalesRecord
	Calendar
	Business
}

// CustomerSummary is the per-customer aggregate computed by the source query
type CustomerSummary struct {
	CustomerID    string          `json:"customer_id" db:"CustomerID"`
	CompanyName   sql.NullString  `json:"company_name" db:"CompanyName"`
	Country       sql.NullString  `json:"country" db:"Country"`
	City          sql.NullString  `json:"city" db:"City"`
	TotalOrders   int64           `json:"total_orders" db:"TotalOrders"`
	TotalRevenue  sql.NullFloat64 `json:"total_revenue" db:"TotalRevenue"`
	AvgOrderValue sql.NullFloat64 `json:"avg_order_value" db:"AvgOrderValue"`
	LastOrderDate sql.NullString  `json:"last_order_date" db:"LastOrderDate"`
}

// ProductSummary is the per-product aggregate computed by the source query
type ProductSummary struct {
	ProductID       int64           `json:"product_id" db:"ProductID"`
	ProductName     sql.NullString  `json:"product_name" db:"ProductName"`
	CategoryName    sql.NullString  `json:"category_name" db:"CategoryName"`
	SupplierName    sql.NullString  `json:"supplier_name" db:"SupplierName"`
	TimesOrdered    int64           `json:"times_ordered" db:"TimesOrdered"`
	TotalUnitsSold  sql.NullInt64   `json:"total_units_sold" db:"TotalUnitsSold"`
	TotalRevenue    sql.NullFloat64 `json:"total_revenue" db:"TotalRevenue"`
	AvgSellingPrice sql.NullFloat64 `json:"avg_selling_price" db:"AvgSellingPrice"`
}

// TableInfo is a table name with its row count
type TableInfo struct {
	Name string `json:"name" db:"name"`
	Rows int64  `json:"rows" db:"rows"`
}
