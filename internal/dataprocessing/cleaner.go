package dataprocessing

import (
	"context"
	"log/slog"

	"salesetl/pkg/contracts/domain"
)

// Cleaner removes duplicate and invalid sales lines
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a Cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean filters lines down to records with a parseable order date, positive
// Total and Quantity, and all identifiers present. Exact duplicates keep their
// first occurrence. Survivors are indexed 0..n-1 in input order. The input
// slice is not modified.
func (c *Cleaner) Clean(ctx context.Context, lines []domain.SalesLine) ([]domain.SalesRecord, domain.CleaningStats) {
	stats := domain.CleaningStats{Input: len(lines)}

	c.logger.InfoContext(ctx, "Starting data cleaning", slog.Int("records", len(lines)))

	kept := dedupe(lines)
	stats.Duplicates = len(lines) - len(kept)
	c.logger.InfoContext(ctx, "Removed duplicates", slog.Int("removed", stats.Duplicates))

	before := len(kept)
	kept = filterLines(kept, func(l domain.SalesLine) bool {
		return l.Total.Valid && l.Total.Float64 > 0
	})
	stats.NonPositiveTotal = before - len(kept)
	c.logger.InfoContext(ctx, "Removed records with non-positive total", slog.Int("removed", stats.NonPositiveTotal))

	before = len(kept)
	kept = filterLines(kept, func(l domain.SalesLine) bool {
		return l.Quantity.Valid && l.Quantity.Int64 > 0
	})
	stats.NonPositiveQuantity = before - len(kept)
	c.logger.InfoContext(ctx, "Removed records with invalid quantity", slog.Int("removed", stats.NonPositiveQuantity))

	before = len(kept)
	kept = filterLines(kept, hasIdentifiers)
	stats.MissingIdentifiers = before - len(kept)
	if stats.MissingIdentifiers > 0 {
		c.logger.WarnContext(ctx, "Removed records with missing identifiers", slog.Int("removed", stats.MissingIdentifiers))
	}

	records := make([]domain.SalesRecord, 0, len(kept))
	for _, l := range kept {
		orderDate, ok := ParseDate(l.OrderDate.String)
		if !l.OrderDate.Valid || !ok {
			stats.InvalidOrderDate++
			continue
		}
		rec := toRecord(l)
		rec.OrderDate = orderDate
		if l.ShippedDate.Valid {
			if shipped, ok := ParseDate(l.ShippedDate.String); ok {
				rec.ShippedDate = &shipped
			}
		}
		rec.Index = len(records)
		records = append(records, rec)
	}
	c.logger.InfoContext(ctx, "Removed records with invalid date", slog.Int("removed", stats.InvalidOrderDate))

	stats.Output = len(records)
	c.logger.InfoContext(ctx, "Cleaning completed",
		slog.Int("valid_records", stats.Output),
		slog.Int("removed", stats.Removed()))

	return records, stats
}

func dedupe(lines []domain.SalesLine) []domain.SalesLine {
	seen := make(map[domain.SalesLine]struct{}, len(lines))
	out := make([]domain.SalesLine, 0, len(lines))
	for _, l := range lines {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// filterLines keeps lines matching keep; it reuses the backing array of a
// slice the cleaner owns
func filterLines(lines []domain.SalesLine, keep func(domain.SalesLine) bool) []domain.SalesLine {
	out := lines[:0]
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func hasIdentifiers(l domain.SalesLine) bool {
	return l.OrderID.Valid && l.CustomerID.Valid && l.CustomerID.String != "" &&
		l.ProductID.Valid && l.CategoryID.Valid
}

func toRecord(l domain.SalesLine) domain.SalesRecord {
	return domain.SalesRecord{
		OrderID:             l.OrderID.Int64,
		CustomerID:          l.CustomerID.String,
		ProductID:           l.ProductID.Int64,
		CategoryID:          l.CategoryID.Int64,
		ShipCountry:         l.ShipCountry,
		Freight:             l.Freight,
		CompanyName:         l.CompanyName,
		ContactName:         l.ContactName,
		CustomerCountry:     l.CustomerCountry,
		CustomerCity:        l.CustomerCity,
		ProductName:         l.ProductName,
		ProductUnitPrice:    l.ProductUnitPrice,
		CategoryName:        l.CategoryName,
		CategoryDescription: l.CategoryDescription,
		SupplierName:        l.SupplierName,
		SupplierCountry:     l.SupplierCountry,
		Quantity:            l.Quantity.Int64,
		UnitPrice:           l.UnitPrice,
		Discount:            l.Discount,
		Total:               l.Total.Float64,
		DiscountAmount:      l.DiscountAmount,
	}
}
