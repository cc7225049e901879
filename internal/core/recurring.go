package core

// NextOccurrence advances a recurring entry's date by one period. Monthly
// and yearly steps use calendar arithmetic, so Jan 31 + monthly normalizes
// to Mar 2/3 the way time.AddDate does.
func NextOccurrence(d Date, p Period) Date {
	switch p {
	case Daily:
		return Date{Time: d.AddDate(0, 0, 1)}
	case Weekly:
		return Date{Time: d.AddDate(0, 0, 7)}
	case Yearly:
		return Date{Time: d.AddDate(1, 0, 0)}
	default:
		return Date{Time: d.AddDate(0, 1, 0)}
	}
}

// OccurrencesDue lists every occurrence date from next up to and including
// today, capped to avoid unbounded catch-up when an entry has been dormant.
func OccurrencesDue(next Date, p Period, today Date, max int) []Date {
	var due []Date
	for !next.After(today.Time) && len(due) < max {
		due = append(due, next)
		next = NextOccurrence(next, p)
	}
	return due
}
