package core

import (
	"testing"
	"time"
)

func TestAggregateByCategory(t *testing.T) {
	expenses := []Expense{
		{Title: "A", CategoryName: "cat1", Amount: Money{Paise: 5000}},
		{Title: "B", CategoryName: "cat1", Amount: Money{Paise: 3000}},
		{Title: "C", CategoryName: "cat2", Amount: Money{Paise: 2000}},
	}

	groups := Aggregate(expenses,
		func(e Expense) string { return e.CategoryName },
		func(e Expense) Money { return e.Amount })

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "cat1" || groups[0].Total.Paise != 8000 || groups[0].Count != 2 {
		t.Fatalf("group 0 = %+v, want cat1/8000/2", groups[0])
	}
	if groups[1].Key != "cat2" || groups[1].Total.Paise != 2000 || groups[1].Count != 1 {
		t.Fatalf("group 1 = %+v, want cat2/2000/1", groups[1])
	}
}

// Grouping partitions exactly: the totals across groups must add up to the
// ungrouped sum, whatever the key.
func TestAggregatePartitionProperty(t *testing.T) {
	expenses := []Expense{
		{PaymentMethod: PayCash, Amount: Money{Paise: 1234}},
		{PaymentMethod: PayUPI, Amount: Money{Paise: 5678}},
		{PaymentMethod: PayCash, Amount: Money{Paise: 910}},
		{PaymentMethod: PayCard, Amount: Money{Paise: 11}},
		{PaymentMethod: PayUPI, Amount: Money{Paise: 120013}},
	}

	ungrouped := Sum(expenses, func(e Expense) Money { return e.Amount })

	groups := Aggregate(expenses,
		func(e Expense) string { return string(e.PaymentMethod) },
		func(e Expense) Money { return e.Amount })

	var grouped Money
	var count int
	for _, g := range groups {
		grouped = grouped.Add(g.Total)
		count += g.Count
	}
	if grouped != ungrouped {
		t.Fatalf("grouped total %d != ungrouped total %d", grouped.Paise, ungrouped.Paise)
	}
	if count != len(expenses) {
		t.Fatalf("grouped count %d != record count %d", count, len(expenses))
	}
}

func TestAggregateEmptySet(t *testing.T) {
	groups := Aggregate(nil,
		func(e Expense) string { return e.CategoryName },
		func(e Expense) Money { return e.Amount })
	if len(groups) != 0 {
		t.Fatalf("expected empty result, got %d groups", len(groups))
	}
	if total := Sum[Expense](nil, func(e Expense) Money { return e.Amount }); total.Paise != 0 {
		t.Fatalf("empty sum = %d, want 0", total.Paise)
	}
}

func TestAggregateTieKeepsFirstSeenOrder(t *testing.T) {
	expenses := []Expense{
		{CategoryName: "zeta", Amount: Money{Paise: 100}},
		{CategoryName: "alpha", Amount: Money{Paise: 100}},
	}
	groups := Aggregate(expenses,
		func(e Expense) string { return e.CategoryName },
		func(e Expense) Money { return e.Amount })
	if groups[0].Key != "zeta" || groups[1].Key != "alpha" {
		t.Fatalf("tie order changed: %v", groups)
	}
}

func TestMonthWindow(t *testing.T) {
	ref := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)

	w := MonthWindow(ref, 0)
	if w.Start != time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("start = %v", w.Start)
	}
	if w.End != time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("end = %v", w.End)
	}

	// Offsets cross year boundaries.
	prev := MonthWindow(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), -1)
	if prev.Start != time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("prev start = %v", prev.Start)
	}
}

func TestWindowContains(t *testing.T) {
	w := MonthWindow(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), 0)
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2025, time.June, 1), true},
		{NewDate(2025, time.June, 30), true},
		{NewDate(2025, time.July, 1), false}, // upper bound is exclusive
		{NewDate(2025, time.May, 31), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.d); got != tc.want {
			t.Fatalf("Contains(%s) = %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestTrailingMonthsChronological(t *testing.T) {
	ref := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)
	windows := TrailingMonths(ref, 6)
	if len(windows) != 6 {
		t.Fatalf("expected 6 windows, got %d", len(windows))
	}
	// Oldest first, newest (the ref month) last.
	if windows[0].Label() != "Sep 2024" {
		t.Fatalf("first label = %q", windows[0].Label())
	}
	if windows[5].Label() != "Feb 2025" {
		t.Fatalf("last label = %q", windows[5].Label())
	}
	for i := 1; i < len(windows); i++ {
		if !windows[i-1].End.Equal(windows[i].Start) {
			t.Fatalf("windows %d and %d not contiguous", i-1, i)
		}
	}
}
