package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"kharcha/internal/core"
)

const expenseColumns = `e.id, e.user_id, e.category_id, c.name, e.title, e.description,
	e.amount_paise, e.date, e.payment_method, e.receipt_ref, e.is_recurring,
	e.recurring_period, e.tags, e.location, e.created_at, e.updated_at`

func scanExpense(s interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e       core.Expense
		date    string
		period  sql.NullString
		created string
		updated string
	)
	err := s.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName, &e.Title, &e.Description,
		&e.Amount.Paise, &date, &e.PaymentMethod, &e.ReceiptRef, &e.IsRecurring,
		&period, &e.Tags, &e.Location, &created, &updated)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = parseDate(date)
	e.RecurringEach = core.Period(period.String)
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

// expenseConditions translates a filter plus a free-text query into SQL
// conditions. All filter fields AND together; the search query ORs a
// case-insensitive substring match over title, description, raw tags,
// location and category name. Present-only semantics: zero fields add no
// condition, and an empty query matches everything.
func expenseConditions(userID int64, f core.ExpenseFilter, search string) (string, []any) {
	conds := []string{"e.user_id = ?"}
	args := []any{userID}

	if !f.DateFrom.IsZero() {
		conds = append(conds, "e.date >= ?")
		args = append(args, formatDate(f.DateFrom))
	}
	if !f.DateTo.IsZero() {
		conds = append(conds, "e.date <= ?")
		args = append(args, formatDate(f.DateTo))
	}
	if f.CategoryID != 0 {
		conds = append(conds, "e.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.PaymentMethod != "" {
		conds = append(conds, "e.payment_method = ?")
		args = append(args, string(f.PaymentMethod))
	}
	if f.AmountMin != nil {
		conds = append(conds, "e.amount_paise >= ?")
		args = append(args, f.AmountMin.Paise)
	}
	if f.AmountMax != nil {
		conds = append(conds, "e.amount_paise <= ?")
		args = append(args, f.AmountMax.Paise)
	}
	if q := strings.TrimSpace(search); q != "" {
		conds = append(conds,
			`(LOWER(e.title) LIKE ? OR LOWER(e.description) LIKE ? OR LOWER(e.tags) LIKE ?
			OR LOWER(e.location) LIKE ? OR LOWER(c.name) LIKE ?)`)
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like, like, like, like)
	}

	return strings.Join(conds, " AND "), args
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, category_id, title, description, amount_paise, date,
			payment_method, receipt_ref, is_recurring, recurring_period, recurring_next_due,
			tags, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.CategoryID, e.Title, e.Description, e.Amount.Paise, formatDate(e.Date),
		string(e.PaymentMethod), e.ReceiptRef, e.IsRecurring, nullString(string(e.RecurringEach)),
		recurringNextDue(e.IsRecurring, e.RecurringEach, e.Date), e.Tags, e.Location, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"title", e.Title,
		"amount_paise", e.Amount.Paise,
		"date", e.Date.String())
	return id, nil
}

// UpdateExpense replaces all editable fields of an owned expense.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET category_id = ?, title = ?, description = ?, amount_paise = ?,
			date = ?, payment_method = ?, receipt_ref = ?, is_recurring = ?,
			recurring_period = ?, recurring_next_due = ?, tags = ?, location = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		e.CategoryID, e.Title, e.Description, e.Amount.Paise, formatDate(e.Date),
		string(e.PaymentMethod), e.ReceiptRef, e.IsRecurring,
		nullString(string(e.RecurringEach)), recurringNextDue(e.IsRecurring, e.RecurringEach, e.Date),
		e.Tags, e.Location, now(), e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = ? AND e.user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns one page of the filtered, searched expense set in the
// default order: date descending, then creation descending. limit <= 0
// disables pagination.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, f core.ExpenseFilter, search string, limit, offset int) ([]core.Expense, error) {
	where, args := expenseConditions(userID, f, search)
	query := `SELECT ` + expenseColumns + ` FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE ` + where + `
		ORDER BY e.date DESC, e.created_at DESC, e.id DESC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// FilteredExpenseTotals computes count and exact sum over the whole filtered
// set, independent of any page boundaries.
func (r *SQLiteRepository) FilteredExpenseTotals(ctx context.Context, userID int64, f core.ExpenseFilter, search string) (int, core.Money, error) {
	where, args := expenseConditions(userID, f, search)
	var (
		count int
		total int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(e.amount_paise), 0) FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE `+where, args...).Scan(&count, &total)
	if err != nil {
		return 0, core.Money{}, fmt.Errorf("expense totals: %w", err)
	}
	return count, core.Money{Paise: total}, nil
}

// ExpensesInWindow returns the owned expenses whose date falls in the
// half-open window, for in-process aggregation.
func (r *SQLiteRepository) ExpensesInWindow(ctx context.Context, userID int64, w core.Window) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ? AND e.date >= ? AND e.date < ?
		ORDER BY e.date DESC, e.created_at DESC, e.id DESC`,
		userID, w.Start.Format(dateLayout), w.End.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("expenses in window: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// SumExpensesInWindow totals owned spend inside the window, optionally
// restricted to one category (categoryID 0 means all). An empty window
// yields zero, never an error.
func (r *SQLiteRepository) SumExpensesInWindow(ctx context.Context, userID, categoryID int64, w core.Window) (core.Money, error) {
	query := `SELECT COALESCE(SUM(amount_paise), 0) FROM expenses
		WHERE user_id = ? AND date >= ? AND date < ?`
	args := []any{userID, w.Start.Format(dateLayout), w.End.Format(dateLayout)}
	if categoryID != 0 {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return core.Money{}, fmt.Errorf("sum expenses in window: %w", err)
	}
	return core.Money{Paise: total}, nil
}

// recurringNextDue computes the first materialization date for a recurring
// entry: one period after its own date. Non-recurring entries store NULL.
func recurringNextDue(isRecurring bool, period core.Period, date core.Date) sql.NullString {
	if !isRecurring || !period.Valid() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(core.NextOccurrence(date, period)), Valid: true}
}
