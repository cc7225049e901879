package http

import (
	"errors"
	"log/slog"
	"net/http"

	"kharcha/internal/core"
	"kharcha/internal/export"
)

type expenseListPage struct {
	Expenses       []core.Expense
	Categories     []core.Category
	PaymentMethods []core.PaymentMethod
	Periods        []core.Period

	Query         string
	Filter        core.ExpenseFilter
	FilteredCount int
	FilteredTotal string

	Page       int
	TotalPages int
}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter, err := parseExpenseFilter(query)
	if err != nil {
		BadRequestError(errorMessage(err)).Write(w)
		return
	}
	search := sanitizeInput(query.Get("q"))
	page := parsePage(query)
	offset := (page - 1) * defaultPageSize

	expenses, err := s.repo.ListExpenses(ctx, s.ownerID, filter, search, defaultPageSize, offset)
	if err != nil {
		slog.ErrorContext(ctx, "Expense list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	count, total, err := s.repo.FilteredExpenseTotals(ctx, s.ownerID, filter, search)
	if err != nil {
		slog.ErrorContext(ctx, "Expense totals failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Category list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	totalPages := (count + defaultPageSize - 1) / defaultPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	name := "expenses.html"
	if r.Header.Get("HX-Request") == "true" {
		name = "expense_list.html"
	}
	s.render(w, r, name, expenseListPage{
		Expenses:       expenses,
		Categories:     categories,
		PaymentMethods: core.PaymentMethods(),
		Periods:        core.Periods(),
		Query:          search,
		Filter:         filter,
		FilteredCount:  count,
		FilteredTotal:  total.Display(),
		Page:           page,
		TotalPages:     totalPages,
	})
}

func (s *Server) handleExpenseCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	e, err := parseExpenseForm(r.PostForm, s.ownerID)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}

	if _, err := s.txs.CreateExpense(r.Context(), e); err != nil {
		s.writeMutationError(w, r, "Expense create failed", err)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged("expense").
		TriggerFormReset().
		TriggerSuccessNotification("Expense added").
		Write(w)
}

func (s *Server) handleExpenseUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}

	existing, err := s.repo.GetExpense(r.Context(), s.ownerID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Expense lookup failed", "id", id, "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	e, err := parseExpenseForm(r.PostForm, s.ownerID)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}
	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt

	if err := s.txs.UpdateExpense(r.Context(), e); err != nil {
		s.writeMutationError(w, r, "Expense update failed", err)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		TriggerChanged("expense").
		TriggerSuccessNotification("Expense updated").
		Write(w)
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}

	if err := s.txs.DeleteExpense(r.Context(), s.ownerID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete failed", "id", id, "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		TriggerChanged("expense").
		TriggerSuccessNotification("Expense deleted").
		Write(w)
}

// handleExpenseExport streams the current filtered set as a CSV download.
// The same filter and search parameters as the list page apply; pagination
// does not.
func (s *Server) handleExpenseExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter, err := parseExpenseFilter(query)
	if err != nil {
		http.Error(w, errorMessage(err), http.StatusBadRequest)
		return
	}
	search := sanitizeInput(query.Get("q"))

	expenses, err := s.repo.ListExpenses(ctx, s.ownerID, filter, search, 0, 0)
	if err != nil {
		slog.ErrorContext(ctx, "Expense export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	if err := export.WriteExpenses(w, expenses); err != nil {
		slog.ErrorContext(ctx, "CSV write failed", "error", err)
	}
}

// writeMutationError maps service errors to HTMX error responses, keeping
// validation and conflict feedback distinct from server faults.
func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("Not found").Write(w)
	case errors.Is(err, core.ErrDuplicateCategory), errors.Is(err, core.ErrDuplicateBudget):
		ConflictError(errorMessage(err)).Write(w)
	case isValidationError(err):
		UnprocessableEntityError(errorMessage(err)).Write(w)
	default:
		slog.ErrorContext(r.Context(), logMsg, "error", err)
		InternalServerError("Something went wrong").Write(w)
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount, core.ErrEmptyTitle, core.ErrEmptyName,
		core.ErrInvalidDate, core.ErrInvalidPayment, core.ErrInvalidSource,
		core.ErrInvalidPeriod, core.ErrMissingPeriod, core.ErrMissingCategory,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
