package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
)

// DueExpense pairs a recurring expense template with its pending
// materialization date.
type DueExpense struct {
	Template core.Expense
	NextDue  core.Date
}

// DueIncome pairs a recurring income template with its pending
// materialization date.
type DueIncome struct {
	Template core.Income
	NextDue  core.Date
}

// ListDueRecurringExpenses returns recurring expense templates whose next
// occurrence is on or before asOf.
func (r *SQLiteRepository) ListDueRecurringExpenses(ctx context.Context, asOf core.Date) ([]DueExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+`, e.recurring_next_due FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.is_recurring = 1 AND e.recurring_next_due IS NOT NULL AND e.recurring_next_due <= ?
		ORDER BY e.id`, formatDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("list due recurring expenses: %w", err)
	}
	defer rows.Close()

	var due []DueExpense
	for rows.Next() {
		var (
			e       core.Expense
			date    string
			period  sql.NullString
			created string
			updated string
			nextDue string
		)
		err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName, &e.Title, &e.Description,
			&e.Amount.Paise, &date, &e.PaymentMethod, &e.ReceiptRef, &e.IsRecurring,
			&period, &e.Tags, &e.Location, &created, &updated, &nextDue)
		if err != nil {
			return nil, fmt.Errorf("scan due expense: %w", err)
		}
		e.Date = parseDate(date)
		e.RecurringEach = core.Period(period.String)
		e.CreatedAt = parseTime(created)
		e.UpdatedAt = parseTime(updated)
		due = append(due, DueExpense{Template: e, NextDue: parseDate(nextDue)})
	}
	return due, rows.Err()
}

// ListDueRecurringIncomes returns recurring income templates whose next
// occurrence is on or before asOf.
func (r *SQLiteRepository) ListDueRecurringIncomes(ctx context.Context, asOf core.Date) ([]DueIncome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+incomeColumns+`, recurring_next_due FROM incomes
		WHERE is_recurring = 1 AND recurring_next_due IS NOT NULL AND recurring_next_due <= ?
		ORDER BY id`, formatDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("list due recurring incomes: %w", err)
	}
	defer rows.Close()

	var due []DueIncome
	for rows.Next() {
		var (
			i       core.Income
			date    string
			period  sql.NullString
			created string
			updated string
			nextDue string
		)
		err := rows.Scan(&i.ID, &i.UserID, &i.Title, &i.Description, &i.Amount.Paise, &i.Source,
			&date, &i.IsRecurring, &period, &created, &updated, &nextDue)
		if err != nil {
			return nil, fmt.Errorf("scan due income: %w", err)
		}
		i.Date = parseDate(date)
		i.RecurringEach = core.Period(period.String)
		i.CreatedAt = parseTime(created)
		i.UpdatedAt = parseTime(updated)
		due = append(due, DueIncome{Template: i, NextDue: parseDate(nextDue)})
	}
	return due, rows.Err()
}

// MaterializeExpenseOccurrence inserts a one-off copy of a recurring expense
// template dated at the occurrence and advances the template's next due date,
// atomically. Re-running after a crash repeats at most the last occurrence.
func (r *SQLiteRepository) MaterializeExpenseOccurrence(ctx context.Context, tmpl core.Expense, occurrence core.Date) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin materialize: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (user_id, category_id, title, description, amount_paise, date,
			payment_method, receipt_ref, is_recurring, recurring_period, recurring_next_due,
			tags, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, NULL, ?, ?, ?, ?)`,
		tmpl.UserID, tmpl.CategoryID, tmpl.Title, tmpl.Description, tmpl.Amount.Paise,
		formatDate(occurrence), string(tmpl.PaymentMethod), tmpl.ReceiptRef,
		tmpl.Tags, tmpl.Location, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("insert occurrence: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("occurrence insert id: %w", err)
	}

	next := core.NextOccurrence(occurrence, tmpl.RecurringEach)
	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET recurring_next_due = ?, updated_at = ? WHERE id = ?`,
		formatDate(next), ts, tmpl.ID)
	if err != nil {
		return 0, fmt.Errorf("advance next due: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit materialize: %w", err)
	}

	slog.InfoContext(ctx, "Recurring expense materialized",
		"template_id", tmpl.ID,
		"occurrence_id", id,
		"date", occurrence.String(),
		"next_due", next.String())
	return id, nil
}

// MaterializeIncomeOccurrence is the income counterpart of
// MaterializeExpenseOccurrence.
func (r *SQLiteRepository) MaterializeIncomeOccurrence(ctx context.Context, tmpl core.Income, occurrence core.Date) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin materialize: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO incomes (user_id, title, description, amount_paise, source, date,
			is_recurring, recurring_period, recurring_next_due, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, NULL, NULL, ?, ?)`,
		tmpl.UserID, tmpl.Title, tmpl.Description, tmpl.Amount.Paise, string(tmpl.Source),
		formatDate(occurrence), ts, ts)
	if err != nil {
		return 0, fmt.Errorf("insert occurrence: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("occurrence insert id: %w", err)
	}

	next := core.NextOccurrence(occurrence, tmpl.RecurringEach)
	_, err = tx.ExecContext(ctx,
		`UPDATE incomes SET recurring_next_due = ?, updated_at = ? WHERE id = ?`,
		formatDate(next), ts, tmpl.ID)
	if err != nil {
		return 0, fmt.Errorf("advance next due: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit materialize: %w", err)
	}

	slog.InfoContext(ctx, "Recurring income materialized",
		"template_id", tmpl.ID,
		"occurrence_id", id,
		"date", occurrence.String(),
		"next_due", next.String())
	return id, nil
}
