package core

import "time"

// BudgetState classifies how much of a budget's limit has been consumed.
type BudgetState string

const (
	StateSuccess BudgetState = "success"
	StateWarning BudgetState = "warning"
	StateDanger  BudgetState = "danger"
)

// Thresholds are exclusive on the lower bound: spending exactly 70% is
// still success, exactly 90% is still warning.
const (
	warningThreshold = 70.0
	dangerThreshold  = 90.0
)

// BudgetReport is the computed status of one budget for its current period.
type BudgetReport struct {
	Budget     Budget
	Window     Window
	Spent      Money
	Remaining  Money
	Percentage float64
	State      BudgetState
}

// PeriodWindow resolves the current cycle window for a budget period
// containing ref. Monthly is first-of-month to first-of-next-month; the
// other granularities follow the same first-of-period convention: weekly
// runs Monday to Monday, daily is the calendar day, yearly the calendar
// year. Windows are half-open.
func PeriodWindow(p Period, ref time.Time) Window {
	switch p {
	case Daily:
		return DayWindow(ref)
	case Weekly:
		// Snap back to Monday 00:00.
		offset := (int(ref.Weekday()) + 6) % 7
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}
	case Yearly:
		start := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(1, 0, 0)}
	default:
		return MonthWindow(ref, 0)
	}
}

// EvaluateBudget combines a budget's limit with the period's aggregated
// spend. Pure function of its inputs: remaining may be negative, and a zero
// limit yields percentage 0 rather than a division error.
func EvaluateBudget(b Budget, spent Money, ref time.Time) BudgetReport {
	report := BudgetReport{
		Budget:    b,
		Window:    PeriodWindow(b.PeriodType, ref),
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
	}
	if b.Amount.Paise > 0 {
		report.Percentage = float64(spent.Paise) / float64(b.Amount.Paise) * 100
	}
	switch {
	case report.Percentage > dangerThreshold:
		report.State = StateDanger
	case report.Percentage > warningThreshold:
		report.State = StateWarning
	default:
		report.State = StateSuccess
	}
	return report
}
