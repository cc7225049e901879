// Package sheets defines the outbound port for the spreadsheet backup.
package sheets

import (
	"context"

	"kharcha/internal/core"
)

// TransactionWriter appends one synced transaction to the backup sheet and
// returns a reference to the written row.
type TransactionWriter interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}
