package amqp

import (
	"encoding/json"
	"time"

	"kharcha/internal/core"
)

// TransactionSyncMessage tells the sheets worker that a transaction was
// created or updated. It carries only the kind and id; the worker fetches
// the full row so stale in-flight copies never overwrite fresher data.
type TransactionSyncMessage struct {
	Kind      core.TransactionKind `json:"kind"`
	ID        int64                `json:"id"`
	Version   int64                `json:"version"`
	Timestamp time.Time            `json:"timestamp"`
}

func NewTransactionSyncMessage(kind core.TransactionKind, id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Kind:      kind,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BudgetAlertMessage is published when a budget crosses a warning or danger
// threshold for the first time in its current period window.
type BudgetAlertMessage struct {
	BudgetID     int64            `json:"budget_id"`
	UserID       int64            `json:"user_id"`
	CategoryName string           `json:"category_name"`
	Percentage   float64          `json:"percentage"`
	State        core.BudgetState `json:"state"`
	Timestamp    time.Time        `json:"timestamp"`
}

func NewBudgetAlertMessage(report core.BudgetReport) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		BudgetID:     report.Budget.ID,
		UserID:       report.Budget.UserID,
		CategoryName: report.Budget.CategoryName,
		Percentage:   report.Percentage,
		State:        report.State,
		Timestamp:    time.Now(),
	}
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
