package core

import "time"

// TransactionKind discriminates the merged expense/income feed.
type TransactionKind string

const (
	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"
)

// Transaction is one row of the merged recent-activity feed shown on the
// dashboard: either an expense or an income, flattened to common fields.
// Detail carries the category name for expenses and the source label for
// incomes.
type Transaction struct {
	Kind      TransactionKind
	ID        int64
	Title     string
	Detail    string
	Amount    Money
	Date      Date
	CreatedAt time.Time
}
