package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"time"

	"salesetl/pkg/contracts/domain"
)

// bucket is a right-inclusive interval (Low, High] mapped to a label
type bucket[T any] struct {
	Low, High float64
	Label     T
}

var orderSizeBuckets = []bucket[domain.OrderSize]{
	{0, 100, domain.OrderSizeVerySmall},
	{100, 500, domain.OrderSizeSmall},
	{500, 1000, domain.OrderSizeMedium},
	{1000, 5000, domain.OrderSizeLarge},
	{5000, math.Inf(1), domain.OrderSizeVIP},
}

var discountBuckets = []bucket[domain.DiscountLevel]{
	{-0.01, 0, domain.DiscountLevelNone},
	{0, 0.05, domain.DiscountLevelLow},
	{0.05, 0.15, domain.DiscountLevelMedium},
	{0.15, 0.25, domain.DiscountLevelHigh},
	{0.25, 1, domain.DiscountLevelVeryHigh},
}

var deliveryBuckets = []bucket[domain.DeliverySpeed]{
	{-1, 3, domain.DeliveryExpress},
	{3, 7, domain.DeliveryFast},
	{7, 14, domain.DeliveryNormal},
	{14, math.Inf(1), domain.DeliverySlow},
}

// classify returns the label of the bucket holding v, or unknown
func classify[T any](buckets []bucket[T], v float64, unknown T) T {
	for _, b := range buckets {
		if v > b.Low && v <= b.High {
			return b.Label
		}
	}
	return unknown
}

// ClassifyOrderSize buckets a line total
func ClassifyOrderSize(total float64) domain.OrderSize {
	return classify(orderSizeBuckets, total, domain.OrderSizeUnknown)
}

// ClassifyDiscount buckets a discount fraction
func ClassifyDiscount(discount float64) domain.DiscountLevel {
	return classify(discountBuckets, discount, domain.DiscountLevelUnknown)
}

// ClassifyDelivery buckets delivery days; nil days means not shipped
func ClassifyDelivery(days *int) domain.DeliverySpeed {
	if days == nil {
		return domain.DeliveryNotShipped
	}
	return classify(deliveryBuckets, float64(*days), domain.DeliverySpeedUnknown)
}

// CalendarOf derives the calendar breakdown of t
func CalendarOf(t time.Time) domain.Calendar {
	_, week := t.ISOWeek()
	month := int(t.Month())
	dow := (int(t.Weekday()) + 6) % 7
	return domain.Calendar{
		Year:       t.Year(),
		Month:      month,
		Quarter:    (month-1)/3 + 1,
		DayOfWeek:  dow,
		WeekOfYear: week,
		MonthName:  domain.MonthNames[month],
		YearMonth:  t.Format("2006-01"),
		DayName:    domain.DayNames[dow],
	}
}

// BusinessOf derives the business classification of a cleaned record.
// Quantity is positive for every cleaned record.
func BusinessOf(r domain.SalesRecord) domain.Business {
	b := domain.Business{
		OrderSize:      ClassifyOrderSize(r.Total),
		DiscountLevel:  domain.DiscountLevelUnknown,
		RevenuePerUnit: r.Total / float64(r.Quantity),
	}
	if r.Discount.Valid {
		b.HasDiscount = r.Discount.Float64 > 0
		b.DiscountLevel = ClassifyDiscount(r.Discount.Float64)
	}
	if r.ShippedDate != nil {
		days := daysBetween(r.OrderDate, *r.ShippedDate)
		b.DeliveryDays = &days
	}
	b.DeliverySpeed = ClassifyDelivery(b.DeliveryDays)
	return b
}

// Enricher adds calendar and business attributes to cleaned records
type Enricher struct {
	logger *slog.Logger
}

// NewEnricher creates an Enricher
func NewEnricher(logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{logger: logger}
}

// Enrich returns one enriched record per input record, in the same order.
func (e *Enricher) Enrich(ctx context.Context, records []domain.SalesRecord) []domain.EnrichedRecord {
	out := make([]domain.EnrichedRecord, len(records))
	for i, r := range records {
		out[i] = domain.EnrichedRecord{
			SalesRecord: r,
			Calendar:    CalendarOf(r.OrderDate),
			Business:    BusinessOf(r),
		}
	}

	e.logger.InfoContext(ctx, "Features created",
		slog.Int("records", len(out)),
		slog.Int("calendar_features", domain.CalendarFeatureCount),
		slog.Int("business_features", domain.BusinessFeatureCount))

	return out
}
