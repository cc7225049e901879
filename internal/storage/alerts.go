package storage

import (
	"context"
	"fmt"
	"time"

	"kharcha/internal/core"
)

// TryRecordAlert claims the alert slot for a budget's period window and
// state. It returns true when this call inserted the row, false when an
// alert for the same (budget, window, state) was already sent. Dedup rides
// on the table's unique constraint, so concurrent workers can race safely.
func (r *SQLiteRepository) TryRecordAlert(ctx context.Context, budgetID int64, windowStart time.Time, state core.BudgetState) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_alert_log (budget_id, window_start, state, sent_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (budget_id, window_start, state) DO NOTHING`,
		budgetID, windowStart.Format(dateLayout), string(state), now())
	if err != nil {
		return false, fmt.Errorf("record alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record alert rows: %w", err)
	}
	return n > 0, nil
}
