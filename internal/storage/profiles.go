package storage

import (
	"context"
	"database/sql"
	"fmt"

	"kharcha/internal/core"
)

// GetOrCreateProfile returns the user's profile, creating one with defaults
// on first touch. The insert ignores conflicts so concurrent first requests
// both land on the same row.
func (r *SQLiteRepository) GetOrCreateProfile(ctx context.Context, userID int64) (core.UserProfile, error) {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`, userID, ts, ts)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("ensure profile: %w", err)
	}

	var (
		p       core.UserProfile
		dob     sql.NullString
		budget  sql.NullInt64
		created string
		updated string
	)
	err = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, avatar_ref, phone, date_of_birth, currency, monthly_budget_paise,
			timezone, email_notifications, budget_alerts, created_at, updated_at
		FROM user_profiles WHERE user_id = ?`, userID).
		Scan(&p.ID, &p.UserID, &p.AvatarRef, &p.Phone, &dob, &p.Currency, &budget,
			&p.Timezone, &p.EmailNotifications, &p.BudgetAlerts, &created, &updated)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	if dob.Valid {
		p.DateOfBirth = parseDate(dob.String)
	}
	if budget.Valid {
		p.MonthlyBudget = &core.Money{Paise: budget.Int64}
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p core.UserProfile) error {
	var dob sql.NullString
	if !p.DateOfBirth.IsZero() {
		dob = sql.NullString{String: formatDate(p.DateOfBirth), Valid: true}
	}
	var budget sql.NullInt64
	if p.MonthlyBudget != nil {
		budget = sql.NullInt64{Int64: p.MonthlyBudget.Paise, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles SET avatar_ref = ?, phone = ?, date_of_birth = ?, currency = ?,
			monthly_budget_paise = ?, timezone = ?, email_notifications = ?, budget_alerts = ?,
			updated_at = ?
		WHERE user_id = ?`,
		p.AvatarRef, p.Phone, dob, p.Currency, budget, p.Timezone,
		p.EmailNotifications, p.BudgetAlerts, now(), p.UserID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
