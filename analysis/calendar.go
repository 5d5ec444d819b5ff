package analysis

import "time"

// =============================================================================
// DATE HELPERS - All engine dates are date-only UTC
// =============================================================================

// DateOnly truncates a time to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day gap from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// BUSINESS CALENDAR - Configurable non-business weekdays
// =============================================================================

// Calendar decides which weekdays are business days. The default treats
// Saturday and Sunday as non-business; the set is configurable so the
// roll-forward rule never hardcodes a particular weekend convention.
type Calendar struct {
	weekend map[time.Weekday]bool
}

// NewCalendar builds a calendar with the given non-business weekdays.
func NewCalendar(weekend ...time.Weekday) Calendar {
	c := Calendar{weekend: make(map[time.Weekday]bool, len(weekend))}
	for _, d := range weekend {
		c.weekend[d] = true
	}
	return c
}

// DefaultCalendar returns the Saturday/Sunday weekend calendar.
func DefaultCalendar() Calendar {
	return NewCalendar(time.Saturday, time.Sunday)
}

// IsBusinessDay reports whether the date falls on a business weekday.
func (c Calendar) IsBusinessDay(t time.Time) bool {
	return !c.weekend[t.Weekday()]
}

// NextBusinessDay rolls a date forward to the first business day on or after
// it. A degenerate calendar marking all seven weekdays as weekend returns the
// input unchanged rather than looping.
func (c Calendar) NextBusinessDay(t time.Time) time.Time {
	day := t
	for i := 0; i < 7; i++ {
		if c.IsBusinessDay(day) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return t
}
