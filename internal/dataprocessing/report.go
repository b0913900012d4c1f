package dataprocessing

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salesetl/pkg/contracts/domain"
)

// ReportConfig holds options for the report builder
type ReportConfig struct {
	TopN int
}

// DefaultReportConfig returns the default report options
func DefaultReportConfig() ReportConfig {
	return ReportConfig{TopN: 20}
}

// ReportBuilder computes the grouped summaries of an enriched record set
type ReportBuilder struct {
	logger *slog.Logger
	config ReportConfig
}

// NewReportBuilder creates a ReportBuilder
func NewReportBuilder(logger *slog.Logger, config ReportConfig) *ReportBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopN <= 0 {
		config.TopN = DefaultReportConfig().TopN
	}
	return &ReportBuilder{logger: logger, config: config}
}

// Build computes all five analyses. Null group keys are reported under
// domain.UnknownGroup. Ties keep first-appearance order.
func (b *ReportBuilder) Build(ctx context.Context, records []domain.EnrichedRecord) domain.SalesReport {
	b.logger.InfoContext(ctx, "Creating complete report", slog.Int("records", len(records)))

	report := domain.SalesReport{
		Summary:      Summarize(records),
		Categories:   CategoryAnalysis(records),
		Monthly:      MonthlyAnalysis(records),
		TopProducts:  TopProducts(records, b.config.TopN),
		TopCustomers: TopCustomers(records, b.config.TopN),
	}

	b.logger.InfoContext(ctx, "Report created",
		slog.Int("categories", len(report.Categories)),
		slog.Int("months", len(report.Monthly)),
		slog.Int("top_products", len(report.TopProducts)),
		slog.Int("top_customers", len(report.TopCustomers)))

	return report
}

// orderSet counts distinct order ids
type orderSet map[int64]struct{}

func (s orderSet) add(id int64) { s[id] = struct{}{} }

// groups accumulates values keyed by K in first-appearance order
type groups[K comparable, V any] struct {
	index map[K]int
	vals  []*V
}

func newGroups[K comparable, V any]() *groups[K, V] {
	return &groups[K, V]{index: make(map[K]int)}
}

func (g *groups[K, V]) get(key K, init func() *V) *V {
	if i, ok := g.index[key]; ok {
		return g.vals[i]
	}
	g.index[key] = len(g.vals)
	v := init()
	g.vals = append(g.vals, v)
	return v
}

func groupKey(s sql.NullString) string {
	if !s.Valid {
		return domain.UnknownGroup
	}
	return s.String
}

// Summarize computes the headline metrics. Average order value and items per
// order are taken over per-order sums, not per line.
func Summarize(records []domain.EnrichedRecord) domain.Summary {
	var s domain.Summary
	if len(records) == 0 {
		return s
	}

	type orderTotals struct {
		revenue float64
		units   int64
	}
	orders := newGroups[int64, orderTotals]()
	customers := make(map[string]struct{})
	products := make(map[int64]struct{})

	s.FirstOrder = records[0].OrderDate
	s.LastOrder = records[0].OrderDate
	for _, r := range records {
		s.TotalRevenue += r.Total
		s.TotalUnits += r.Quantity

		o := orders.get(r.OrderID, func() *orderTotals { return &orderTotals{} })
		o.revenue += r.Total
		o.units += r.Quantity

		customers[r.CustomerID] = struct{}{}
		products[r.ProductID] = struct{}{}

		if r.OrderDate.Before(s.FirstOrder) {
			s.FirstOrder = r.OrderDate
		}
		if r.OrderDate.After(s.LastOrder) {
			s.LastOrder = r.OrderDate
		}
	}

	var revenue float64
	var units int64
	for _, o := range orders.vals {
		revenue += o.revenue
		units += o.units
	}

	s.Orders = len(orders.vals)
	s.Customers = len(customers)
	s.Products = len(products)
	s.AvgOrderValue = revenue / float64(s.Orders)
	s.AvgItemsPerOrder = float64(units) / float64(s.Orders)
	return s
}

// CategoryAnalysis groups by category name, sorted by revenue descending.
// RevenueShare is rounded to 2 decimals.
func CategoryAnalysis(records []domain.EnrichedRecord) []domain.CategoryStat {
	type acc struct {
		stat   domain.CategoryStat
		orders orderSet
	}
	g := newGroups[string, acc]()
	var total float64
	for _, r := range records {
		key := groupKey(r.CategoryName)
		a := g.get(key, func() *acc {
			return &acc{stat: domain.CategoryStat{Category: key}, orders: orderSet{}}
		})
		a.orders.add(r.OrderID)
		a.stat.UnitsSold += r.Quantity
		a.stat.Revenue += r.Total
		if r.DiscountAmount.Valid {
			a.stat.TotalDiscount += r.DiscountAmount.Float64
		}
		total += r.Total
	}

	out := make([]domain.CategoryStat, len(g.vals))
	for i, a := range g.vals {
		a.stat.Orders = len(a.orders)
		a.stat.RevenueShare = revenueShare(a.stat.Revenue, total)
		out[i] = a.stat
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return out
}

func revenueShare(revenue, total float64) float64 {
	if total == 0 {
		return 0
	}
	share, _ := decimal.NewFromFloat(revenue).
		Div(decimal.NewFromFloat(total)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return share
}

// MonthlyAnalysis groups by year-month key in ascending order
func MonthlyAnalysis(records []domain.EnrichedRecord) []domain.MonthlyStat {
	type acc struct {
		stat   domain.MonthlyStat
		orders orderSet
	}
	g := newGroups[string, acc]()
	for _, r := range records {
		key := r.YearMonth
		if key == "" {
			key = domain.UnknownGroup
		}
		a := g.get(key, func() *acc {
			return &acc{stat: domain.MonthlyStat{Month: key}, orders: orderSet{}}
		})
		a.orders.add(r.OrderID)
		a.stat.Revenue += r.Total
		a.stat.UnitsSold += r.Quantity
	}

	out := make([]domain.MonthlyStat, len(g.vals))
	for i, a := range g.vals {
		a.stat.Orders = len(a.orders)
		out[i] = a.stat
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}

// TopProducts groups by product name and keeps the n highest by revenue.
// AvgUnitPrice is the mean list unit price of the product's lines.
func TopProducts(records []domain.EnrichedRecord, n int) []domain.ProductStat {
	type acc struct {
		stat     domain.ProductStat
		orders   orderSet
		priceSum float64
		priced   int
	}
	g := newGroups[string, acc]()
	for _, r := range records {
		key := groupKey(r.ProductName)
		a := g.get(key, func() *acc {
			return &acc{stat: domain.ProductStat{Product: key}, orders: orderSet{}}
		})
		a.orders.add(r.OrderID)
		a.stat.UnitsSold += r.Quantity
		a.stat.Revenue += r.Total
		if r.UnitPrice.Valid {
			a.priceSum += r.UnitPrice.Float64
			a.priced++
		}
	}

	out := make([]domain.ProductStat, len(g.vals))
	for i, a := range g.vals {
		a.stat.Orders = len(a.orders)
		if a.priced > 0 {
			a.stat.AvgUnitPrice = a.priceSum / float64(a.priced)
		}
		out[i] = a.stat
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return truncate(out, n)
}

// TopCustomers groups by (customer id, company name) and keeps the n highest
// by revenue
func TopCustomers(records []domain.EnrichedRecord, n int) []domain.CustomerStat {
	type key struct {
		id, company string
	}
	type acc struct {
		stat   domain.CustomerStat
		orders orderSet
	}
	g := newGroups[key, acc]()
	for _, r := range records {
		k := key{
			id:      r.CustomerID,
			company: groupKey(r.CompanyName),
		}
		a := g.get(k, func() *acc {
			return &acc{stat: domain.CustomerStat{CustomerID: k.id, Company: k.company}, orders: orderSet{}}
		})
		a.orders.add(r.OrderID)
		a.stat.Revenue += r.Total
		a.stat.LastOrder = latest(a.stat.LastOrder, r.OrderDate)
	}

	out := make([]domain.CustomerStat, len(g.vals))
	for i, a := range g.vals {
		a.stat.Orders = len(a.orders)
		a.stat.AvgOrderValue = a.stat.Revenue / float64(a.stat.Orders)
		out[i] = a.stat
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return truncate(out, n)
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
