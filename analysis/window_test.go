package analysis_test

import (
	"testing"
	"time"

	"github.com/tribolab/sampling-cadence/analysis"
)

func TestWindowFor_GrowsWithRunDate(t *testing.T) {
	w := analysis.WindowFor(date(2025, time.June, 16), 2021)
	if w.FromYear != 2021 || w.ToYear != 2025 {
		t.Fatalf("Expected [2021,2025], got [%d,%d]", w.FromYear, w.ToYear)
	}
	years := w.Years()
	if len(years) != 5 || years[0] != 2021 || years[4] != 2025 {
		t.Fatalf("Unexpected years: %v", years)
	}

	next := analysis.WindowFor(date(2026, time.January, 1), 2021)
	if next.ToYear != 2026 {
		t.Errorf("Window upper bound must follow the run date, got %d", next.ToYear)
	}
}

func TestWindowFor_DefaultsAndCollapse(t *testing.T) {
	w := analysis.WindowFor(date(2025, time.June, 16), 0)
	if w.FromYear != analysis.DefaultFromYear {
		t.Errorf("Expected default lower bound %d, got %d", analysis.DefaultFromYear, w.FromYear)
	}

	// A run date before the lower bound collapses to one year, never empty.
	collapsed := analysis.WindowFor(date(2019, time.June, 16), 2021)
	if got := collapsed.Years(); len(got) != 1 || got[0] != 2021 {
		t.Errorf("Expected collapsed window [2021], got %v", got)
	}
}

func TestHorizon_IsEndOfNextCalendarYear(t *testing.T) {
	h := analysis.Horizon(date(2025, time.June, 16))
	if !h.Equal(date(2026, time.December, 31)) {
		t.Fatalf("Expected 2026-12-31, got %s", h.Format("2006-01-02"))
	}
}

func TestCalendar_RollForward(t *testing.T) {
	cal := analysis.DefaultCalendar()

	sat := date(2025, time.July, 12)
	if got := cal.NextBusinessDay(sat); !got.Equal(date(2025, time.July, 14)) {
		t.Errorf("Saturday should roll to Monday, got %s", got.Format("2006-01-02"))
	}
	fri := date(2025, time.July, 11)
	if got := cal.NextBusinessDay(fri); !got.Equal(fri) {
		t.Errorf("Friday should stay put, got %s", got.Format("2006-01-02"))
	}

	// A Friday-Saturday weekend convention rolls Saturday to Sunday.
	fiveTwo := analysis.NewCalendar(time.Friday, time.Saturday)
	if got := fiveTwo.NextBusinessDay(sat); !got.Equal(date(2025, time.July, 13)) {
		t.Errorf("Fri/Sat weekend should roll Saturday to Sunday, got %s", got.Format("2006-01-02"))
	}

	// Degenerate all-weekend calendar must not loop forever.
	all := analysis.NewCalendar(
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	)
	if got := all.NextBusinessDay(sat); !got.Equal(sat) {
		t.Errorf("Degenerate calendar should return input, got %s", got.Format("2006-01-02"))
	}
}
