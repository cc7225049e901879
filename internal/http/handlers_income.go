package http

import (
	"errors"
	"log/slog"
	"net/http"

	"kharcha/internal/core"
)

type incomeListPage struct {
	Incomes []core.Income
	Sources []core.IncomeSource
	Periods []core.Period
	Page    int
}

func (s *Server) handleIncomeList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := parsePage(r.URL.Query())
	offset := (page - 1) * defaultPageSize

	incomes, err := s.repo.ListIncomes(ctx, s.ownerID, defaultPageSize, offset)
	if err != nil {
		slog.ErrorContext(ctx, "Income list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := "incomes.html"
	if r.Header.Get("HX-Request") == "true" {
		name = "income_list.html"
	}
	s.render(w, r, name, incomeListPage{
		Incomes: incomes,
		Sources: core.IncomeSources(),
		Periods: core.Periods(),
		Page:    page,
	})
}

func (s *Server) handleIncomeCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	i, err := parseIncomeForm(r.PostForm, s.ownerID)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}

	if _, err := s.txs.CreateIncome(r.Context(), i); err != nil {
		s.writeMutationError(w, r, "Income create failed", err)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged("income").
		TriggerFormReset().
		TriggerSuccessNotification("Income added").
		Write(w)
}

func (s *Server) handleIncomeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Income not found").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}

	existing, err := s.repo.GetIncome(r.Context(), s.ownerID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Income not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Income lookup failed", "id", id, "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	i, err := parseIncomeForm(r.PostForm, s.ownerID)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}
	i.ID = existing.ID
	i.CreatedAt = existing.CreatedAt

	if err := s.txs.UpdateIncome(r.Context(), i); err != nil {
		s.writeMutationError(w, r, "Income update failed", err)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		TriggerChanged("income").
		TriggerSuccessNotification("Income updated").
		Write(w)
}

func (s *Server) handleIncomeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Income not found").Write(w)
		return
	}

	if err := s.txs.DeleteIncome(r.Context(), s.ownerID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Income not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Income delete failed", "id", id, "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		TriggerChanged("income").
		TriggerSuccessNotification("Income deleted").
		Write(w)
}
