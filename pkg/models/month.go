package models

import (
	"fmt"
	"time"
)

// Month is a calendar month, the resolution portfolio series are indexed
// at. The wire format is "2006-01".
type Month struct {
	Year int
	Mon  time.Month
}

// ParseMonth parses a "2006-01" label.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the month n months after m. n may be negative.
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Mon+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Mon: t.Month()}
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	return m.Year < o.Year || (m.Year == o.Year && m.Mon < o.Mon)
}

// After reports whether m is strictly later than o.
func (m Month) After(o Month) bool { return o.Before(m) }

// Sub returns the number of months from o to m.
func (m Month) Sub(o Month) int {
	return (m.Year-o.Year)*12 + int(m.Mon) - int(o.Mon)
}
