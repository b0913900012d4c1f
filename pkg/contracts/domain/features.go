package domain

// Calendar holds the calendar breakdown of an order date
type Calendar struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Quarter    int    `json:"quarter"`
	DayOfWeek  int    `json:"day_of_week"`  // Monday=0 .. Sunday=6
	WeekOfYear int    `json:"week_of_year"` // ISO 8601 week
	MonthName  string `json:"month_name"`
	YearMonth  string `json:"year_month"` // "YYYY-MM", sorts chronologically as text
	DayName    string `json:"day_name"`
}

// Business holds the business classification of a sales record
type Business struct {
	OrderSize      OrderSize     `json:"order_size"`
	HasDiscount    bool          `json:"has_discount"`
	DiscountLevel  DiscountLevel `json:"discount_level"`
	DeliveryDays   *int          `json:"delivery_days,omitempty"`
	DeliverySpeed  DeliverySpeed `json:"delivery_speed"`
	RevenuePerUnit float64       `json:"revenue_per_unit"`
}

// OrderSize classifies a line total
type OrderSize string

const (
	OrderSizeUnknown   OrderSize = ""
	OrderSizeVerySmall OrderSize = "Very Small"
	OrderSizeSmall     OrderSize = "Small"
	OrderSizeMedium    OrderSize = "Medium"
	OrderSizeLarge     OrderSize = "Large"
	OrderSizeVIP       OrderSize = "VIP"
)

// DiscountLevel classifies a discount fraction
type DiscountLevel string

const (
	DiscountLevelUnknown  DiscountLevel = ""
	DiscountLevelNone     DiscountLevel = "No Discount"
	DiscountLevelLow      DiscountLevel = "Low"
	DiscountLevelMedium   DiscountLevel = "Medium"
	DiscountLevelHigh     DiscountLevel = "High"
	DiscountLevelVeryHigh DiscountLevel = "Very High"
)

// DeliverySpeed classifies the days between order and shipment.
// DeliveryNotShipped is its own state, never one of the buckets.
type DeliverySpeed string

const (
	DeliverySpeedUnknown DeliverySpeed = ""
	DeliveryNotShipped   DeliverySpeed = "Not Shipped"
	DeliveryExpress      DeliverySpeed = "Express"
	DeliveryFast         DeliverySpeed = "Fast"
	DeliveryNormal       DeliverySpeed = "Normal"
	DeliverySlow         DeliverySpeed = "Slow"
)

// MonthNames maps month 1..12 to its short name
var MonthNames = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DayNames maps DayOfWeek (Monday=0) to its name
var DayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CalendarFeatureCount and BusinessFeatureCount are the number of derived
// columns each feature group adds
const (
	CalendarFeatureCount = 8
	BusinessFeatureCount = 6
)
