package analysis

import "time"

// =============================================================================
// ANALYSIS WINDOW - The year range the tally covers
// =============================================================================

// DefaultFromYear is the default lower bound of the tally window. It is a
// default, not a rule: callers configure the bound, and the upper bound is
// always derived from the run date so the window grows by one each year.
const DefaultFromYear = 2021

// Window is the inclusive year range [FromYear, ToYear] covered by the tally.
type Window struct {
	FromYear int
	ToYear   int
}

// WindowFor computes the analysis window for a run date. A fromYear of zero
// falls back to DefaultFromYear. If the run date's year precedes fromYear the
// window collapses to that single year rather than going empty.
func WindowFor(runDate time.Time, fromYear int) Window {
	if fromYear <= 0 {
		fromYear = DefaultFromYear
	}
	toYear := runDate.Year()
	if toYear < fromYear {
		toYear = fromYear
	}
	return Window{FromYear: fromYear, ToYear: toYear}
}

// Years lists every year in the window in ascending order.
func (w Window) Years() []int {
	years := make([]int, 0, w.ToYear-w.FromYear+1)
	for y := w.FromYear; y <= w.ToYear; y++ {
		years = append(years, y)
	}
	return years
}

// Contains reports whether a year falls inside the window.
func (w Window) Contains(year int) bool {
	return year >= w.FromYear && year <= w.ToYear
}

// Horizon returns the projection cutoff for a run date: December 31 of the
// calendar year after the run date's year.
func Horizon(runDate time.Time) time.Time {
	return time.Date(runDate.Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC)
}
