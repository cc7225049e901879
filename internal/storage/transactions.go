package storage

import (
	"context"
	"fmt"

	"kharcha/internal/core"
)

// RecentTransactions merges the user's expenses and incomes into one feed,
// newest first. The source label resolution for incomes happens in Go since
// the labels are presentation strings, not stored data.
func (r *SQLiteRepository) RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, id, title, detail, amount_paise, date, created_at FROM (
			SELECT 'expense' AS kind, e.id, e.title, c.name AS detail,
				e.amount_paise, e.date, e.created_at
			FROM expenses e JOIN categories c ON c.id = e.category_id
			WHERE e.user_id = ?
			UNION ALL
			SELECT 'income' AS kind, i.id, i.title, i.source AS detail,
				i.amount_paise, i.date, i.created_at
			FROM incomes i
			WHERE i.user_id = ?
		)
		ORDER BY date DESC, created_at DESC
		LIMIT ?`, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			date    string
			created string
		)
		if err := rows.Scan(&t.Kind, &t.ID, &t.Title, &t.Detail, &t.Amount.Paise, &date, &created); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = parseDate(date)
		t.CreatedAt = parseTime(created)
		if t.Kind == core.KindIncome {
			t.Detail = core.IncomeSource(t.Detail).Label()
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
