package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
)

const budgetColumns = `b.id, b.user_id, b.category_id, c.name, b.amount_paise,
	b.period_type, b.start_date, b.is_active, b.created_at, b.updated_at`

func scanBudget(s interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b       core.Budget
		start   string
		created string
		updated string
	)
	err := s.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Amount.Paise,
		&b.PeriodType, &start, &b.IsActive, &created, &updated)
	if err != nil {
		return core.Budget{}, err
	}
	b.StartDate = parseDate(start)
	b.CreatedAt = parseTime(created)
	b.UpdatedAt = parseTime(updated)
	return b, nil
}

// CreateBudget inserts a budget. At most one budget may exist per user,
// category and period granularity; a second one maps to ErrDuplicateBudget.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, amount_paise, period_type, start_date,
			is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.CategoryID, b.Amount.Paise, string(b.PeriodType), formatDate(b.StartDate),
		b.IsActive, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateBudget
		}
		return 0, fmt.Errorf("create budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("budget insert id: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", id,
		"category_id", b.CategoryID,
		"period", string(b.PeriodType),
		"amount_paise", b.Amount.Paise)
	return id, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, amount_paise = ?, period_type = ?, start_date = ?,
			is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		b.CategoryID, b.Amount.Paise, string(b.PeriodType), formatDate(b.StartDate),
		b.IsActive, now(), b.ID, b.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateBudget
		}
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Budget deleted", "id", id, "user_id", userID)
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.id = ? AND b.user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns the user's budgets with category names resolved,
// active ones first, then by category name.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = ?
		ORDER BY b.is_active DESC, c.name, b.period_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// ListAlertableBudgets returns every active budget whose owner has budget
// alerts enabled, across all users. The alert worker walks this set.
func (r *SQLiteRepository) ListAlertableBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets b
		JOIN categories c ON c.id = b.category_id
		JOIN user_profiles p ON p.user_id = b.user_id
		WHERE b.is_active = 1 AND p.budget_alerts = 1
		ORDER BY b.user_id, b.id`)
	if err != nil {
		return nil, fmt.Errorf("list alertable budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
