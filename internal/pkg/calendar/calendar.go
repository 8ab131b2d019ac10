package calendar

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// Calendar decides which days count as working days. Monday to Saturday are
// working days, Sunday is not, and any holiday is never a working day.
type Calendar struct {
	holidays map[Date]struct{}
}

// New builds a calendar over a snapshot of holiday dates.
func New(holidays []Date) *Calendar {
	set := make(map[Date]struct{}, len(holidays))
	for _, h := range holidays {
		set[h] = struct{}{}
	}
	return &Calendar{holidays: set}
}

func (c *Calendar) IsHoliday(d Date) bool {
	if c == nil {
		return false
	}
	_, ok := c.holidays[d]
	return ok
}

func (c *Calendar) IsWorkingDay(d Date) bool {
	if d.Weekday() == time.Sunday {
		return false
	}
	return !c.IsHoliday(d)
}

// WorkingDaysBetween lists working days in the inclusive range [start, end].
func (c *Calendar) WorkingDaysBetween(start, end Date) []Date {
	days := make([]Date, 0)
	for d := start; !d.After(end); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// CountLeaveDays counts chargeable days in [start, end]: one per working day,
// or one half per working day when the request is a half-day request.
func (c *Calendar) CountLeaveDays(start, end Date, isHalfDay bool) decimal.Decimal {
	unit := fullDay
	if isHalfDay {
		unit = halfDay
	}
	total := decimal.Zero
	for d := start; !d.After(end); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			total = total.Add(unit)
		}
	}
	return total
}
