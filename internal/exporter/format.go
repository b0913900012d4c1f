package exporter

import (
	"fmt"
	"strconv"
	"time"
)

// Date layouts for exported cells
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// formatFloat formats a float64 at full precision without trailing zeros
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatTime writes midnight timestamps as plain dates
func formatTime(t time.Time) string {
	h, m, s := t.Clock()
	if h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

// FormatCell renders a table cell as text. Nil cells are empty.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case int:
		return strconv.Itoa(c)
	case float64:
		return formatFloat(c)
	case bool:
		return strconv.FormatBool(c)
	case time.Time:
		return formatTime(c)
	default:
		return fmt.Sprint(c)
	}
}
