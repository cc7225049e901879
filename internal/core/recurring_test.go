package core

import (
	"testing"
	"time"
)

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		date   Date
		period Period
		want   Date
	}{
		{"daily", NewDate(2025, time.March, 10), Daily, NewDate(2025, time.March, 11)},
		{"weekly", NewDate(2025, time.March, 10), Weekly, NewDate(2025, time.March, 17)},
		{"monthly", NewDate(2025, time.March, 10), Monthly, NewDate(2025, time.April, 10)},
		{"yearly", NewDate(2025, time.March, 10), Yearly, NewDate(2026, time.March, 10)},
		{"monthly across year end", NewDate(2025, time.December, 15), Monthly, NewDate(2026, time.January, 15)},
		// Jan 31 + 1 month lands on the normalized Mar 3 (Feb 31 does not exist).
		{"monthly from jan 31", NewDate(2025, time.January, 31), Monthly, NewDate(2025, time.March, 3)},
		{"yearly from leap day", NewDate(2024, time.February, 29), Yearly, NewDate(2025, time.March, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(tt.date, tt.period)
			if !got.Equal(tt.want.Time) {
				t.Errorf("NextOccurrence(%s, %s) = %s, want %s", tt.date, tt.period, got, tt.want)
			}
		})
	}
}

func TestOccurrencesDue(t *testing.T) {
	today := NewDate(2025, time.April, 15)

	due := OccurrencesDue(NewDate(2025, time.February, 1), Monthly, today, 60)
	if len(due) != 3 {
		t.Fatalf("due = %d occurrences, want 3", len(due))
	}
	want := []Date{
		NewDate(2025, time.February, 1),
		NewDate(2025, time.March, 1),
		NewDate(2025, time.April, 1),
	}
	for i, w := range want {
		if !due[i].Equal(w.Time) {
			t.Errorf("due[%d] = %s, want %s", i, due[i], w)
		}
	}

	if due := OccurrencesDue(NewDate(2025, time.May, 1), Monthly, today, 60); len(due) != 0 {
		t.Errorf("future next-due produced %d occurrences, want 0", len(due))
	}

	// Same-day occurrences are due.
	if due := OccurrencesDue(today, Daily, today, 60); len(due) != 1 {
		t.Errorf("same-day due = %d, want 1", len(due))
	}

	// A long-idle daily template is capped rather than flooding.
	capped := OccurrencesDue(NewDate(2024, time.January, 1), Daily, today, 60)
	if len(capped) != 60 {
		t.Errorf("capped due = %d, want 60", len(capped))
	}
}
