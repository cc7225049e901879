// Package export renders expense history as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"kharcha/internal/core"
)

// Filename is the attachment name the HTTP layer serves exports under.
const Filename = "expenses.csv"

var header = []string{
	"Date", "Title", "Category", "Amount", "Payment Method",
	"Description", "Tags", "Location",
}

// WriteExpenses streams expenses as CSV in the order given (callers pass the
// default date-descending listing). Amounts are plain 2-decimal strings and
// payment methods use their human labels.
func WriteExpenses(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Date.String(),
			e.Title,
			e.CategoryName,
			e.Amount.Decimal(),
			e.PaymentMethod.Label(),
			e.Description,
			e.Tags,
			e.Location,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
