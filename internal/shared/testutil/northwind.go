package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var northwindSchema = []string{
	`CREATE TABLE Categories (CategoryID INTEGER PRIMARY KEY, CategoryName TEXT, Description TEXT)`,
	`CREATE TABLE Suppliers (SupplierID INTEGER PRIMARY KEY, CompanyName TEXT, Country TEXT)`,
	`CREATE TABLE Customers (CustomerID TEXT PRIMARY KEY, CompanyName TEXT, ContactName TEXT, Country TEXT, City TEXT)`,
	`CREATE TABLE Products (ProductID INTEGER PRIMARY KEY, ProductName TEXT, SupplierID INTEGER, CategoryID INTEGER, UnitPrice NUMERIC)`,
	`CREATE TABLE Orders (OrderID INTEGER PRIMARY KEY, CustomerID TEXT, OrderDate DATETIME, ShippedDate DATETIME, ShipCountry TEXT, Freight NUMERIC)`,
	`CREATE TABLE "Order Details" (OrderID INTEGER, ProductID INTEGER, UnitPrice NUMERIC, Quantity INTEGER, Discount REAL)`,
}

// NewNorthwindDB writes a SQLite database with the Northwind tables the
// extraction queries read, populated from lines. It returns the file path.
func NewNorthwindDB(t *testing.T, lines []OrderLine) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "northwind.db")
	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range northwindSchema {
		db.MustExec(stmt)
	}

	db.MustExec(`INSERT INTO Suppliers VALUES (1, 'Exotic Liquids', 'UK')`)

	seen := map[string]bool{}
	once := func(kind string, id any, insert func()) {
		key := fmt.Sprintf("%s:%v", kind, id)
		if !seen[key] {
			seen[key] = true
			insert()
		}
	}

	for _, l := range lines {
		l = l.withDefaults()
		once("category", l.CategoryID, func() {
			db.MustExec(`INSERT INTO Categories VALUES (?, ?, ?)`, l.CategoryID, l.Category, l.Category+" products")
		})
		once("customer", l.CustomerID, func() {
			db.MustExec(`INSERT INTO Customers VALUES (?, ?, 'Maria Anders', 'Germany', 'Berlin')`, l.CustomerID, l.Company)
		})
		once("product", l.ProductID, func() {
			db.MustExec(`INSERT INTO Products VALUES (?, ?, 1, ?, ?)`, l.ProductID, l.Product, l.CategoryID, l.UnitPrice)
		})
		once("order", l.OrderID, func() {
			var orderDate, shipped any
			if l.OrderDate != "" {
				orderDate = l.OrderDate
			}
			if l.ShippedDate != "" {
				shipped = l.ShippedDate
			}
			db.MustExec(`INSERT INTO Orders VALUES (?, ?, ?, ?, 'Germany', 10)`, l.OrderID, l.CustomerID, orderDate, shipped)
		})
		db.MustExec(`INSERT INTO "Order Details" VALUES (?, ?, ?, ?, ?)`,
			l.OrderID, l.ProductID, l.UnitPrice, l.Quantity, l.Discount)
	}

	return path
}
