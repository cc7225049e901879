package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// maxCatchUp caps how many missed occurrences a single run materializes per
// template, so a long-dormant daily entry cannot flood a run.
const maxCatchUp = 60

// RecurringProcessor materializes due occurrences of recurring expenses and
// incomes. Each materialization is transactional (copy inserted, template
// advanced together), so a crashed run resumes where it stopped.
type RecurringProcessor struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewRecurringProcessor(storage *storage.SQLiteRepository) *RecurringProcessor {
	return &RecurringProcessor{
		storage: storage,
		now:     time.Now,
	}
}

// Run processes everything due as of today. It keeps going past individual
// failures and returns the first error encountered, if any.
func (p *RecurringProcessor) Run(ctx context.Context) error {
	today := core.Today(p.now())

	expenses, err := p.storage.ListDueRecurringExpenses(ctx, today)
	if err != nil {
		return fmt.Errorf("list due expenses: %w", err)
	}
	incomes, err := p.storage.ListDueRecurringIncomes(ctx, today)
	if err != nil {
		return fmt.Errorf("list due incomes: %w", err)
	}

	var firstErr error
	var materialized int

	for _, d := range expenses {
		for _, occ := range core.OccurrencesDue(d.NextDue, d.Template.RecurringEach, today, maxCatchUp) {
			if _, err := p.storage.MaterializeExpenseOccurrence(ctx, d.Template, occ); err != nil {
				slog.ErrorContext(ctx, "Failed to materialize expense occurrence",
					"template_id", d.Template.ID, "date", occ.String(), "error", err)
				if firstErr == nil {
					firstErr = err
				}
				break
			}
			materialized++
		}
	}

	for _, d := range incomes {
		for _, occ := range core.OccurrencesDue(d.NextDue, d.Template.RecurringEach, today, maxCatchUp) {
			if _, err := p.storage.MaterializeIncomeOccurrence(ctx, d.Template, occ); err != nil {
				slog.ErrorContext(ctx, "Failed to materialize income occurrence",
					"template_id", d.Template.ID, "date", occ.String(), "error", err)
				if firstErr == nil {
					firstErr = err
				}
				break
			}
			materialized++
		}
	}

	if materialized > 0 {
		slog.InfoContext(ctx, "Recurring run complete",
			"materialized", materialized,
			"expense_templates", len(expenses),
			"income_templates", len(incomes))
	}
	return firstErr
}
