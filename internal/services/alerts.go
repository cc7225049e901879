package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// AlertPublisher publishes budget threshold alerts. *amqp.Client satisfies
// it; a nil publisher means alerts are only logged.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, report core.BudgetReport) error
}

// BudgetAlertService evaluates active budgets for users who opted into
// alerts and publishes one alert per (budget, period window, state). The
// dedup lives in storage, so overlapping runs cannot double-send.
type BudgetAlertService struct {
	storage   *storage.SQLiteRepository
	publisher AlertPublisher
	now       func() time.Time
}

func NewBudgetAlertService(storage *storage.SQLiteRepository, publisher AlertPublisher) *BudgetAlertService {
	return &BudgetAlertService{
		storage:   storage,
		publisher: publisher,
		now:       time.Now,
	}
}

// Run evaluates every alertable budget once.
func (s *BudgetAlertService) Run(ctx context.Context) error {
	budgets, err := s.storage.ListAlertableBudgets(ctx)
	if err != nil {
		return fmt.Errorf("list alertable budgets: %w", err)
	}

	ref := s.now()
	var firstErr error

	for _, b := range budgets {
		window := core.PeriodWindow(b.PeriodType, ref)
		spent, err := s.storage.SumExpensesInWindow(ctx, b.UserID, b.CategoryID, window)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to sum budget spend",
				"budget_id", b.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		report := core.EvaluateBudget(b, spent, ref)
		if report.State == core.StateSuccess {
			continue
		}

		inserted, err := s.storage.TryRecordAlert(ctx, b.ID, report.Window.Start, report.State)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to record alert",
				"budget_id", b.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !inserted {
			continue
		}

		slog.InfoContext(ctx, "Budget threshold crossed",
			"budget_id", b.ID,
			"category", b.CategoryName,
			"state", string(report.State),
			"percentage", report.Percentage)

		if s.publisher != nil {
			if err := s.publisher.PublishBudgetAlert(ctx, report); err != nil {
				slog.ErrorContext(ctx, "Failed to publish budget alert",
					"budget_id", b.ID, "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}
