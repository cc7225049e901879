package core

import (
	"sort"
	"time"
)

// GroupTotal is one row of an aggregation result: a distinct key with the
// exact sum and count of the records that mapped to it.
type GroupTotal struct {
	Key   string
	Total Money
	Count int
}

// Aggregate partitions records by keyFn and sums amountFn over each
// partition. The result is ordered by total descending; equal totals keep
// first-seen order. An empty input yields an empty (not nil-error) result,
// so the sum over all groups always equals the ungrouped sum.
func Aggregate[T any](records []T, keyFn func(T) string, amountFn func(T) Money) []GroupTotal {
	index := make(map[string]int)
	groups := make([]GroupTotal, 0)
	for _, r := range records {
		k := keyFn(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, GroupTotal{Key: k})
		}
		groups[i].Total = groups[i].Total.Add(amountFn(r))
		groups[i].Count++
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Total.Paise > groups[b].Total.Paise
	})
	return groups
}

// Sum totals amountFn over records without grouping.
func Sum[T any](records []T, amountFn func(T) Money) Money {
	var total Money
	for _, r := range records {
		total = total.Add(amountFn(r))
	}
	return total
}

// Window is a half-open date interval [Start, End) scoping an aggregation
// to one calendar bucket or budget cycle.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Date) bool {
	t := d.Time
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label renders the window's month for chart axes, e.g. "Jan 2025".
func (w Window) Label() string {
	return w.Start.Format("Jan 2006")
}

// MonthWindow returns the calendar-month window containing ref shifted by
// offset months (offset 0 = current month, -1 = previous month). The start
// snaps to day 1; the end is the first of the following month.
func MonthWindow(ref time.Time, offset int) Window {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, offset, 0)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// DayWindow returns the calendar-day window containing ref.
func DayWindow(ref time.Time) Window {
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// TrailingMonths builds the n month windows ending with the month of ref.
// Buckets are walked most-recent first and reversed, so the result is in
// chronological order ready for chart rendering.
func TrailingMonths(ref time.Time, n int) []Window {
	if n < 1 {
		return nil
	}
	windows := make([]Window, 0, n)
	for i := 0; i < n; i++ {
		windows = append(windows, MonthWindow(ref, -i))
	}
	for i, j := 0, len(windows)-1; i < j; i, j = i+1, j-1 {
		windows[i], windows[j] = windows[j], windows[i]
	}
	return windows
}
