package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kharcha/internal/core"
)

type budgetRow struct {
	Budget core.Budget
	Report core.BudgetReport
}

type budgetListPage struct {
	Rows       []budgetRow
	Categories []core.Category
	Periods    []core.Period
}

// handleBudgetList renders every budget with its live spend for the current
// cycle. Inactive budgets show without a report.
func (s *Server) handleBudgetList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	budgets, err := s.repo.ListBudgets(ctx, s.ownerID)
	if err != nil {
		slog.ErrorContext(ctx, "Budget list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Category list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rows := make([]budgetRow, 0, len(budgets))
	for _, b := range budgets {
		row := budgetRow{Budget: b}
		if b.IsActive {
			window := core.PeriodWindow(b.PeriodType, now)
			spent, err := s.repo.SumExpensesInWindow(ctx, s.ownerID, b.CategoryID, window)
			if err != nil {
				slog.ErrorContext(ctx, "Budget spend lookup failed", "budget_id", b.ID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			row.Report = core.EvaluateBudget(b, spent, now)
		}
		rows = append(rows, row)
	}

	name := "budgets.html"
	if r.Header.Get("HX-Request") == "true" {
		name = "budget_list.html"
	}
	s.render(w, r, name, budgetListPage{
		Rows:       rows,
		Categories: categories,
		Periods:    core.Periods(),
	})
}

func (s *Server) handleBudgetCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	b, err := parseBudgetForm(r.PostForm, s.ownerID)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}

	if _, err := s.repo.CreateBudget(r.Context(), b); err != nil {
		s.writeMutationError(w, r, "Budget create failed", err)
		return
	}

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged("budget").
		TriggerFormReset().
		TriggerSuccessNotification("Budget created").
		Write(w)
}

func (s *Server) handleBudgetUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Budget not found").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}

	existing, err := s.repo.GetBudget(r.Context(), s.ownerID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Budget not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Budget lookup failed", "id", id, "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	b, err := parseBudgetForm(r.PostForm, s.ownerID)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}
	b.ID = existing.ID
	b.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateBudget(r.Context(), b); err != nil {
		s.writeMutationError(w, r, "Budget update failed", err)
		return
	}

	NewHTMXResponse().
		TriggerChanged("budget").
		TriggerSuccessNotification("Budget updated").
		Write(w)
}

func (s *Server) handleBudgetDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Budget not found").Write(w)
		return
	}

	if err := s.repo.DeleteBudget(r.Context(), s.ownerID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Budget not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Budget delete failed", "id", id, "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerChanged("budget").
		TriggerSuccessNotification("Budget deleted").
		Write(w)
}
