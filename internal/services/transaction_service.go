// Package services orchestrates storage, messaging and the pure core
// computations into the application's use cases.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// SyncPublisher publishes transaction sync events for the backup worker.
// *amqp.Client satisfies it; a nil publisher disables sync.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, kind core.TransactionKind, id, version int64) error
}

// TransactionService writes expenses and incomes. Storage is the source of
// truth: the write lands first and the sync publish is best-effort, so a
// broker outage never fails a user request.
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

func (s *TransactionService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.publishSync(ctx, core.KindExpense, id, 1)
	return id, nil
}

func (s *TransactionService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return err
	}

	s.publishSync(ctx, core.KindExpense, e.ID, 2)
	return nil
}

func (s *TransactionService) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteExpense(ctx, userID, id)
}

func (s *TransactionService) CreateIncome(ctx context.Context, i core.Income) (int64, error) {
	if err := i.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.CreateIncome(ctx, i)
	if err != nil {
		return 0, fmt.Errorf("save income: %w", err)
	}

	s.publishSync(ctx, core.KindIncome, id, 1)
	return id, nil
}

func (s *TransactionService) UpdateIncome(ctx context.Context, i core.Income) error {
	if err := i.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateIncome(ctx, i); err != nil {
		return err
	}

	s.publishSync(ctx, core.KindIncome, i.ID, 2)
	return nil
}

func (s *TransactionService) DeleteIncome(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteIncome(ctx, userID, id)
}

func (s *TransactionService) publishSync(ctx context.Context, kind core.TransactionKind, id, version int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message",
			"kind", string(kind), "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, kind, id, version); err != nil {
		// The local write already succeeded; sync catches up later.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"kind", string(kind), "id", id, "error", err)
	}
}
