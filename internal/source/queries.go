package source

// salesQuery joins every order line with its order, customer, product,
// category and supplier. Column aliases match the db tags of
// domain.SalesLine.
const salesQuery = `
SELECT
    o.OrderID,
    o.OrderDate,
    o.ShippedDate,
    o.ShipCountry,
    o.Freight,

    c.CustomerID,
    c.CompanyName,
    c.ContactName,
    c.Country AS CustomerCountry,
    c.City AS CustomerCity,

    p.ProductID,
    p.ProductName,
    p.UnitPrice AS ProductUnitPrice,

    cat.CategoryID,
    cat.CategoryName,
    cat.Description AS CategoryDescription,

    s.CompanyName AS SupplierName,
    s.Country AS SupplierCountry,

    od.Quantity,
    od.UnitPrice,
    od.Discount,

    (od.Quantity * od.UnitPrice * (1 - od.Discount)) AS Total,
    (od.Quantity * od.UnitPrice * od.Discount) AS DiscountAmount

FROM Orders o
INNER JOIN "Order Details" od ON o.OrderID = od.OrderID
INNER JOIN Products p ON od.ProductID = p.ProductID
INNER JOIN Categories cat ON p.CategoryID = cat.CategoryID
INNER JOIN Customers c ON o.CustomerID = c.CustomerID
INNER JOIN Suppliers s ON p.SupplierID = s.SupplierID

WHERE
    o.OrderDate IS NOT NULL
    AND od.Quantity > 0
    AND od.UnitPrice >= 0

ORDER BY o.OrderDate DESC`

const customersSummaryQuery = `
SELECT
    c.CustomerID,
    c.CompanyName,
    c.Country,
    c.City,
    COUNT(DISTINCT o.OrderID) AS TotalOrders,
    SUM(od.Quantity * od.UnitPrice * (1 - od.Discount)) AS TotalRevenue,
    AVG(od.Quantity * od.UnitPrice * (1 - od.Discount)) AS AvgOrderValue,
    MAX(o.OrderDate) AS LastOrderDate

FROM Customers c
LEFT JOIN Orders o ON c.CustomerID = o.CustomerID
LEFT JOIN "Order Details" od ON o.OrderID = od.OrderID

GROUP BY
    c.CustomerID,
    c.CompanyName,
    c.Country,
    c.City

ORDER BY TotalRevenue DESC`

const productsSummaryQuery = `
SELECT
    p.ProductID,
    p.ProductName,
    cat.CategoryName,
    s.CompanyName AS SupplierName,
    COUNT(DISTINCT o.OrderID) AS TimesOrdered,
    SUM(od.Quantity) AS TotalUnitsSold,
    SUM(od.Quantity * od.UnitPrice * (1 - od.Discount)) AS TotalRevenue,
    AVG(od.UnitPrice) AS AvgSellingPrice

FROM Products p
INNER JOIN Categories cat ON p.CategoryID = cat.CategoryID
INNER JOIN Suppliers s ON p.SupplierID = s.SupplierID
LEFT JOIN "Order Details" od ON p.ProductID = od.ProductID
LEFT JOIN Orders o ON od.OrderID = o.OrderID

GROUP BY
    p.ProductID,
    p.ProductName,
    cat.CategoryName,
    s.CompanyName

ORDER BY TotalRevenue DESC`

const (
	sqliteTablesQuery   = `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`
	postgresTablesQuery = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name`
)
