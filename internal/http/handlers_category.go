package http

import (
	"errors"
	"log/slog"
	"net/http"

	"kharcha/internal/core"
)

type categoryListPage struct {
	Categories []core.Category
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repo.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := "categories.html"
	if r.Header.Get("HX-Request") == "true" {
		name = "category_list.html"
	}
	s.render(w, r, name, categoryListPage{Categories: categories})
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	c, err := parseCategoryForm(r.PostForm)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}

	if _, err := s.repo.CreateCategory(r.Context(), c); err != nil {
		s.writeMutationError(w, r, "Category create failed", err)
		return
	}

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged("category").
		TriggerFormReset().
		TriggerSuccessNotification("Category created").
		Write(w)
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Category not found").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}

	c, err := parseCategoryForm(r.PostForm)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}
	c.ID = id

	if err := s.repo.UpdateCategory(r.Context(), c); err != nil {
		s.writeMutationError(w, r, "Category update failed", err)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		TriggerChanged("category").
		TriggerSuccessNotification("Category updated").
		Write(w)
}

// handleCategoryDelete removes a category along with its expenses and
// budgets through the schema's cascading foreign keys.
func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		NotFoundError("Category not found").Write(w)
		return
	}

	if err := s.repo.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Category not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Category delete failed", "id", id, "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	s.invalidateCharts()
	NewHTMXResponse().
		TriggerChanged("category").
		TriggerChanged("expense").
		TriggerSuccessNotification("Category deleted").
		Write(w)
}
