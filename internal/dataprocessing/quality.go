package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"salesetl/pkg/contracts/domain"
)

// AuditorConfig holds options for the quality audit
type AuditorConfig struct {
	TopCategories int
}

// Auditor computes read-only data quality diagnostics over a table
type Auditor struct {
	logger *slog.Logger
	config AuditorConfig
}

// NewAuditor creates an Auditor
func NewAuditor(logger *slog.Logger, config AuditorConfig) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopCategories <= 0 {
		config.TopCategories = 5
	}
	return &Auditor{logger: logger, config: config}
}

// Audit builds the quality report for t and logs it. Sub-reports whose
// column is missing from t are skipped.
func (a *Auditor) Audit(ctx context.Context, t *domain.Table) domain.QualityReport {
	report := domain.QualityReport{
		Records: t.Len(),
		Columns: len(t.Columns),
		Missing: missingValues(t),
	}

	if col := t.ColumnIndex("Total"); col >= 0 {
		report.Total = describe(numericColumn(t, col))
	}
	if col := t.ColumnIndex("OrderDate"); col >= 0 {
		report.OrderDates = dateRange(t, col)
	}
	if cat, total := t.ColumnIndex("CategoryName"), t.ColumnIndex("Total"); cat >= 0 && total >= 0 {
		report.TopCategories = topCategories(t, cat, total, a.config.TopCategories)
	}

	a.log(ctx, report)
	return report
}

func (a *Auditor) log(ctx context.Context, r domain.QualityReport) {
	a.logger.InfoContext(ctx, "Data quality report",
		slog.Int("records", r.Records),
		slog.Int("columns", r.Columns),
		slog.Int("columns_with_missing", len(r.Missing)))

	if len(r.Missing) == 0 {
		a.logger.InfoContext(ctx, "No missing values")
	}
	for _, m := range r.Missing {
		a.logger.InfoContext(ctx, "Missing values",
			slog.String("column", m.Column),
			slog.Int("count", m.Count),
			slog.Float64("percent", m.Percent))
	}

	if d := r.Total; d != nil {
		attrs := []any{
			slog.Int("count", d.Count),
			slog.Float64("mean", d.Mean),
			slog.Float64("min", d.Min),
			slog.Float64("p25", d.P25),
			slog.Float64("p50", d.P50),
			slog.Float64("p75", d.P75),
			slog.Float64("max", d.Max),
		}
		if d.Std != nil {
			attrs = append(attrs, slog.Float64("std", *d.Std))
		}
		a.logger.InfoContext(ctx, "Total statistics", attrs...)
	}

	if dr := r.OrderDates; dr != nil {
		a.logger.InfoContext(ctx, "Date range",
			slog.Time("first_order", dr.First),
			slog.Time("last_order", dr.Last),
			slog.Int("period_days", dr.SpanDays))
	}

	for i, c := range r.TopCategories {
		a.logger.InfoContext(ctx, "Top category by revenue",
			slog.Int("rank", i+1),
			slog.String("category", c.Category),
			slog.Float64("revenue", c.Revenue))
	}
}

func missingValues(t *domain.Table) []domain.MissingValues {
	counts := make([]int, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			if v == nil {
				counts[i]++
			}
		}
	}

	var out []domain.MissingValues
	for i, n := range counts {
		if n == 0 {
			continue
		}
		out = append(out, domain.MissingValues{
			Column:  t.Columns[i],
			Count:   n,
			Percent: float64(n) / float64(t.Len()) * 100,
		})
	}
	return out
}

func numericColumn(t *domain.Table, col int) []float64 {
	values := make([]float64, 0, t.Len())
	for _, row := range t.Rows {
		if v, ok := toFloat(row[col]); ok {
			values = append(values, v)
		}
	}
	return values
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		return ParseDate(d)
	default:
		return time.Time{}, false
	}
}

// describe mirrors a pandas describe(): sample std, linearly interpolated quartiles
func describe(values []float64) *domain.Describe {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	d := &domain.Describe{
		Count: len(sorted),
		Min:   floats.Min(sorted),
		Max:   floats.Max(sorted),
		P25:   percentile(sorted, 0.25),
		P50:   percentile(sorted, 0.50),
		P75:   percentile(sorted, 0.75),
	}
	if len(sorted) > 1 {
		mean, std := stat.MeanStdDev(sorted, nil)
		d.Mean = mean
		d.Std = &std
	} else {
		d.Mean = sorted[0]
	}
	return d
}

// percentile returns the p-quantile of sorted using linear interpolation
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	index := p * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func dateRange(t *domain.Table, col int) *domain.DateRange {
	var dr *domain.DateRange
	for _, row := range t.Rows {
		d, ok := toTime(row[col])
		if !ok {
			continue
		}
		if dr == nil {
			dr = &domain.DateRange{First: d, Last: d}
			continue
		}
		if d.Before(dr.First) {
			dr.First = d
		}
		if d.After(dr.Last) {
			dr.Last = d
		}
	}
	if dr != nil {
		dr.SpanDays = daysBetween(dr.First, dr.Last)
	}
	return dr
}

func topCategories(t *domain.Table, catCol, totalCol, n int) []domain.CategoryRevenue {
	index := make(map[string]int)
	var groups []domain.CategoryRevenue
	for _, row := range t.Rows {
		total, ok := toFloat(row[totalCol])
		if !ok {
			continue
		}
		name, ok := row[catCol].(string)
		if !ok {
			name = domain.UnknownGroup
		}
		i, seen := index[name]
		if !seen {
			i = len(groups)
			index[name] = i
			groups = append(groups, domain.CategoryRevenue{Category: name})
		}
		groups[i].Revenue += total
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Revenue > groups[j].Revenue
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}
