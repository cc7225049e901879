package core

import (
	"testing"
	"time"
)

func TestEvaluateBudgetScenarios(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		amount  int64
		spent   int64
		wantPct float64
		want    BudgetState
	}{
		{"95 percent is danger", 100000, 95000, 95.0, StateDanger},
		{"zero limit is success", 0, 0, 0, StateSuccess},
		{"no spend", 100000, 0, 0, StateSuccess},
		{"exactly 70 is still success", 100000, 70000, 70.0, StateSuccess},
		{"just over 70 is warning", 100000, 70001, 70.001, StateWarning},
		{"exactly 90 is still warning", 100000, 90000, 90.0, StateWarning},
		{"just over 90 is danger", 100000, 90001, 90.001, StateDanger},
		{"overspent", 100000, 150000, 150.0, StateDanger},
	}
	for _, tc := range cases {
		b := Budget{Amount: Money{Paise: tc.amount}, PeriodType: Monthly}
		r := EvaluateBudget(b, Money{Paise: tc.spent}, now)
		if r.State != tc.want {
			t.Fatalf("%s: state = %q, want %q", tc.name, r.State, tc.want)
		}
		if r.Percentage != tc.wantPct {
			t.Fatalf("%s: percentage = %v, want %v", tc.name, r.Percentage, tc.wantPct)
		}
		if r.Remaining.Paise != tc.amount-tc.spent {
			t.Fatalf("%s: remaining = %d, want %d", tc.name, r.Remaining.Paise, tc.amount-tc.spent)
		}
	}
}

// Percentage must grow with spend for a fixed positive limit.
func TestEvaluateBudgetMonotonic(t *testing.T) {
	now := time.Now()
	b := Budget{Amount: Money{Paise: 123456}, PeriodType: Monthly}
	prev := -1.0
	for spent := int64(0); spent <= 200000; spent += 7919 {
		r := EvaluateBudget(b, Money{Paise: spent}, now)
		if r.Percentage < prev {
			t.Fatalf("percentage decreased at spent=%d: %v < %v", spent, r.Percentage, prev)
		}
		prev = r.Percentage
	}
}

func TestPeriodWindow(t *testing.T) {
	// Wednesday, 18 June 2025.
	ref := time.Date(2025, time.June, 18, 11, 0, 0, 0, time.UTC)

	m := PeriodWindow(Monthly, ref)
	if m.Start.Day() != 1 || m.Start.Month() != time.June || m.End.Month() != time.July {
		t.Fatalf("monthly window = %+v", m)
	}

	w := PeriodWindow(Weekly, ref)
	if w.Start.Weekday() != time.Monday {
		t.Fatalf("weekly window should start on Monday, got %v", w.Start.Weekday())
	}
	if w.Start != time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("weekly start = %v", w.Start)
	}
	if !w.End.Equal(w.Start.AddDate(0, 0, 7)) {
		t.Fatalf("weekly end = %v", w.End)
	}

	d := PeriodWindow(Daily, ref)
	if d.Start != time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC) || !d.End.Equal(d.Start.AddDate(0, 0, 1)) {
		t.Fatalf("daily window = %+v", d)
	}

	y := PeriodWindow(Yearly, ref)
	if y.Start != time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) || y.End.Year() != 2026 {
		t.Fatalf("yearly window = %+v", y)
	}
}

// A Monday reference must map to the week starting that same day.
func TestWeeklyWindowOnMonday(t *testing.T) {
	monday := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	w := PeriodWindow(Weekly, monday)
	if !w.Start.Equal(monday) {
		t.Fatalf("weekly start = %v, want %v", w.Start, monday)
	}
}
