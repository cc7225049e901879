package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/sheets"
	"kharcha/internal/storage"
)

// SyncWorker consumes transaction sync messages and appends the referenced
// transaction to the backup sheet. The repository is the source of truth:
// the message only carries the id, the row is re-read at handling time.
type SyncWorker struct {
	storage *storage.SQLiteRepository
	writer  sheets.TransactionWriter
	ownerID int64
}

func NewSyncWorker(storage *storage.SQLiteRepository, writer sheets.TransactionWriter, ownerID int64) *SyncWorker {
	return &SyncWorker{
		storage: storage,
		writer:  writer,
		ownerID: ownerID,
	}
}

// HandleSync resolves the message to a transaction and writes it to the
// sheet. A row deleted between publish and handling is skipped, not retried.
func (w *SyncWorker) HandleSync(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	tx, err := w.load(ctx, msg)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Transaction gone before sync, skipping",
				"kind", string(msg.Kind), "id", msg.ID)
			return nil
		}
		return fmt.Errorf("load %s %d: %w", msg.Kind, msg.ID, err)
	}

	rowRef, err := w.writer.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append %s %d: %w", msg.Kind, msg.ID, err)
	}

	slog.InfoContext(ctx, "Synced transaction to sheet",
		"kind", string(tx.Kind), "id", tx.ID, "row", rowRef)
	return nil
}

func (w *SyncWorker) load(ctx context.Context, msg *amqp.TransactionSyncMessage) (core.Transaction, error) {
	switch msg.Kind {
	case core.KindExpense:
		e, err := w.storage.GetExpense(ctx, w.ownerID, msg.ID)
		if err != nil {
			return core.Transaction{}, err
		}
		return core.Transaction{
			Kind:      core.KindExpense,
			ID:        e.ID,
			Title:     e.Title,
			Detail:    e.CategoryName,
			Amount:    e.Amount,
			Date:      e.Date,
			CreatedAt: e.CreatedAt,
		}, nil
	case core.KindIncome:
		i, err := w.storage.GetIncome(ctx, w.ownerID, msg.ID)
		if err != nil {
			return core.Transaction{}, err
		}
		return core.Transaction{
			Kind:      core.KindIncome,
			ID:        i.ID,
			Title:     i.Title,
			Detail:    i.Source.Label(),
			Amount:    i.Amount,
			Date:      i.Date,
			CreatedAt: i.CreatedAt,
		}, nil
	default:
		return core.Transaction{}, fmt.Errorf("unknown transaction kind %q", msg.Kind)
	}
}
