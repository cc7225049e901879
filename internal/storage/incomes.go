package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
)

const incomeColumns = `id, user_id, title, description, amount_paise, source, date,
	is_recurring, recurring_period, created_at, updated_at`

func scanIncome(s interface{ Scan(...any) error }) (core.Income, error) {
	var (
		i       core.Income
		date    string
		period  sql.NullString
		created string
		updated string
	)
	err := s.Scan(&i.ID, &i.UserID, &i.Title, &i.Description, &i.Amount.Paise, &i.Source,
		&date, &i.IsRecurring, &period, &created, &updated)
	if err != nil {
		return core.Income{}, err
	}
	i.Date = parseDate(date)
	i.RecurringEach = core.Period(period.String)
	i.CreatedAt = parseTime(created)
	i.UpdatedAt = parseTime(updated)
	return i, nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, i core.Income) (int64, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, title, description, amount_paise, source, date,
			is_recurring, recurring_period, recurring_next_due, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.UserID, i.Title, i.Description, i.Amount.Paise, string(i.Source), formatDate(i.Date),
		i.IsRecurring, nullString(string(i.RecurringEach)),
		recurringNextDue(i.IsRecurring, i.RecurringEach, i.Date), ts, ts)
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", id,
		"title", i.Title,
		"amount_paise", i.Amount.Paise,
		"source", string(i.Source))
	return id, nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, i core.Income) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE incomes SET title = ?, description = ?, amount_paise = ?, source = ?, date = ?,
			is_recurring = ?, recurring_period = ?, recurring_next_due = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		i.Title, i.Description, i.Amount.Paise, string(i.Source), formatDate(i.Date),
		i.IsRecurring, nullString(string(i.RecurringEach)),
		recurringNextDue(i.IsRecurring, i.RecurringEach, i.Date), now(), i.ID, i.UserID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update income rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete income rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Income deleted", "id", id, "user_id", userID)
	return nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, userID, id int64) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
	i, err := scanIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	return i, nil
}

// ListIncomes pages through owned incomes, newest first. limit <= 0 disables
// pagination.
func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID int64, limit, offset int) ([]core.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = ?
		ORDER BY date DESC, created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, i)
	}
	return incomes, rows.Err()
}

// IncomesInWindow returns owned incomes dated inside the half-open window.
func (r *SQLiteRepository) IncomesInWindow(ctx context.Context, userID int64, w core.Window) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+incomeColumns+` FROM incomes
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date DESC, created_at DESC, id DESC`,
		userID, w.Start.Format(dateLayout), w.End.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("incomes in window: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, i)
	}
	return incomes, rows.Err()
}

func (r *SQLiteRepository) SumIncomesInWindow(ctx context.Context, userID int64, w core.Window) (core.Money, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_paise), 0) FROM incomes
		WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, w.Start.Format(dateLayout), w.End.Format(dateLayout)).Scan(&total)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum incomes in window: %w", err)
	}
	return core.Money{Paise: total}, nil
}
