package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

const testOwnerID = 1

func newTestServer(t *testing.T) (*Server, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	srv := NewServer(":0", testOwnerID, repo, services.NewTransactionService(repo, nil))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, repo
}

func seedCategory(t *testing.T, repo *storage.SQLiteRepository, name string) int64 {
	t.Helper()
	id, err := repo.CreateCategory(context.Background(), core.Category{Name: name})
	if err != nil {
		t.Fatalf("CreateCategory(%q) error = %v", name, err)
	}
	return id
}

func seedExpense(t *testing.T, repo *storage.SQLiteRepository, catID int64, title string, paise int64, d core.Date) int64 {
	t.Helper()
	id, err := repo.CreateExpense(context.Background(), core.Expense{
		UserID:        testOwnerID,
		CategoryID:    catID,
		Title:         title,
		Amount:        core.Money{Paise: paise},
		Date:          d,
		PaymentMethod: core.PayCash,
	})
	if err != nil {
		t.Fatalf("CreateExpense(%q) error = %v", title, err)
	}
	return id
}

func doRequest(srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestDashboardAndHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/", "/healthz", "/readyz"} {
		rr := doRequest(srv, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rr.Code)
		}
	}

	rr := doRequest(srv, http.MethodGet, "/metricsz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /metricsz status = %d, want 200", rr.Code)
	}
	var metrics map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("metrics payload not JSON: %v", err)
	}
	if _, ok := metrics["total_requests"]; !ok {
		t.Errorf("metrics missing total_requests: %v", metrics)
	}
}

func TestExpenseCreateListDelete(t *testing.T) {
	srv, repo := newTestServer(t)
	catID := seedCategory(t, repo, "Food")

	form := url.Values{}
	form.Set("title", "Groceries")
	form.Set("amount", "450.50")
	form.Set("category_id", fmt.Sprintf("%d", catID))
	form.Set("date", "2025-03-10")
	form.Set("payment_method", "upi")

	rr := doRequest(srv, http.MethodPost, "/expenses", form)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201, body: %s", rr.Code, rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "expense:changed") {
		t.Errorf("HX-Trigger = %q, want expense:changed", trigger)
	}
	if !strings.Contains(trigger, "show-notification") {
		t.Errorf("HX-Trigger = %q, want show-notification", trigger)
	}

	rr = doRequest(srv, http.MethodGet, "/expenses", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Groceries") {
		t.Errorf("list does not show created expense")
	}
	if !strings.Contains(rr.Body.String(), "₹450.50") {
		t.Errorf("list does not show amount, body: %s", rr.Body.String())
	}

	expenses, err := repo.ListExpenses(context.Background(), testOwnerID, core.ExpenseFilter{}, "", 0, 0)
	if err != nil || len(expenses) != 1 {
		t.Fatalf("stored expenses = %d (err %v), want 1", len(expenses), err)
	}

	rr = doRequest(srv, http.MethodPost, fmt.Sprintf("/expenses/%d/delete", expenses[0].ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rr.Code)
	}
	expenses, _ = repo.ListExpenses(context.Background(), testOwnerID, core.ExpenseFilter{}, "", 0, 0)
	if len(expenses) != 0 {
		t.Errorf("expenses after delete = %d, want 0", len(expenses))
	}
}

func TestExpenseCreateValidation(t *testing.T) {
	srv, repo := newTestServer(t)
	catID := seedCategory(t, repo, "Food")

	cases := []struct {
		name string
		form url.Values
	}{
		{"bad amount", url.Values{"title": {"x"}, "amount": {"abc"}, "category_id": {fmt.Sprintf("%d", catID)}}},
		{"zero amount", url.Values{"title": {"x"}, "amount": {"0"}, "category_id": {fmt.Sprintf("%d", catID)}}},
		{"missing title", url.Values{"title": {""}, "amount": {"10"}, "category_id": {fmt.Sprintf("%d", catID)}}},
		{"missing category", url.Values{"title": {"x"}, "amount": {"10"}}},
		{"recurring without period", url.Values{"title": {"x"}, "amount": {"10"}, "category_id": {fmt.Sprintf("%d", catID)}, "is_recurring": {"on"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(srv, http.MethodPost, "/expenses", tc.form)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422, body: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestExpenseListFilterAndSearch(t *testing.T) {
	srv, repo := newTestServer(t)
	food := seedCategory(t, repo, "Food")
	travel := seedCategory(t, repo, "Travel")
	seedExpense(t, repo, food, "Lunch at cafe", 20000, core.NewDate(2025, time.March, 5))
	seedExpense(t, repo, travel, "Train ticket", 50000, core.NewDate(2025, time.March, 20))
	seedExpense(t, repo, food, "Dinner", 30000, core.NewDate(2025, time.April, 2))

	rr := doRequest(srv, http.MethodGet, fmt.Sprintf("/expenses?category=%d", food), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("filter status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Lunch at cafe") || strings.Contains(body, "Train ticket") {
		t.Errorf("category filter not applied")
	}

	rr = doRequest(srv, http.MethodGet, "/expenses?q=TRAIN", nil)
	body = rr.Body.String()
	if !strings.Contains(body, "Train ticket") || strings.Contains(body, "Lunch at cafe") {
		t.Errorf("case-insensitive search not applied")
	}

	rr = doRequest(srv, http.MethodGet, "/expenses?date_from=2025-03-01&date_to=2025-03-31", nil)
	body = rr.Body.String()
	if !strings.Contains(body, "Lunch at cafe") || strings.Contains(body, "Dinner") {
		t.Errorf("date range filter not applied")
	}

	rr = doRequest(srv, http.MethodGet, "/expenses?date_from=bogus", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rr.Code)
	}
}

func TestExpenseExportCSV(t *testing.T) {
	srv, repo := newTestServer(t)
	food := seedCategory(t, repo, "Food")
	seedExpense(t, repo, food, "Lunch", 32050, core.NewDate(2025, time.March, 5))

	rr := doRequest(srv, http.MethodGet, "/expenses/export", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, "expenses.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want 2:\n%s", len(lines), rr.Body.String())
	}
	if lines[0] != "Date,Title,Category,Amount,Payment Method,Description,Tags,Location" {
		t.Errorf("csv header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Lunch") || !strings.Contains(lines[1], "320.50") {
		t.Errorf("csv row = %q", lines[1])
	}
}

func TestExpenseTrendEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	food := seedCategory(t, repo, "Food")
	today := core.Today(time.Now())
	seedExpense(t, repo, food, "Now", 10000, today)
	seedExpense(t, repo, food, "Also now", 5000, today)

	rr := doRequest(srv, http.MethodGet, "/api/expense-trend?months=3", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("trend status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var payload struct {
		Data []struct {
			Month string  `json:"month"`
			Total float64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Data) != 3 {
		t.Fatalf("points = %d, want 3", len(payload.Data))
	}
	last := payload.Data[len(payload.Data)-1]
	if last.Month != time.Now().Format("Jan 2006") {
		t.Errorf("last month = %q, want %q", last.Month, time.Now().Format("Jan 2006"))
	}
	if last.Total != 150.0 {
		t.Errorf("current month total = %v, want 150.0", last.Total)
	}
	for _, p := range payload.Data[:len(payload.Data)-1] {
		if p.Total != 0 {
			t.Errorf("month %s total = %v, want 0", p.Month, p.Total)
		}
	}
}

func TestCategoryBreakdownEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	food := seedCategory(t, repo, "Food")
	travel := seedCategory(t, repo, "Travel")
	today := core.Today(time.Now())
	seedExpense(t, repo, food, "a", 10000, today)
	seedExpense(t, repo, travel, "b", 90000, today)

	rr := doRequest(srv, http.MethodGet, "/api/category-breakdown", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("breakdown status = %d", rr.Code)
	}

	var payload struct {
		Labels []string  `json:"labels"`
		Data   []float64 `json:"data"`
		Colors []string  `json:"colors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Labels) != 2 || len(payload.Data) != 2 || len(payload.Colors) != 2 {
		t.Fatalf("arrays not parallel: %+v", payload)
	}
	// Descending by total
	if payload.Labels[0] != "Travel" || payload.Data[0] != 900.0 {
		t.Errorf("top group = %s/%v, want Travel/900", payload.Labels[0], payload.Data[0])
	}
	if payload.Colors[0] == "" {
		t.Errorf("colors not populated")
	}
}

func TestIncomeExpenseTrendEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	food := seedCategory(t, repo, "Food")
	today := core.Today(time.Now())
	seedExpense(t, repo, food, "spend", 40000, today)
	if _, err := repo.CreateIncome(context.Background(), core.Income{
		UserID: testOwnerID,
		Title:  "Salary",
		Amount: core.Money{Paise: 500000},
		Source: core.SourceSalary,
		Date:   today,
	}); err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}

	rr := doRequest(srv, http.MethodGet, "/api/income-expense-trend", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("trend status = %d", rr.Code)
	}

	var payload struct {
		Labels   []string  `json:"labels"`
		Expenses []float64 `json:"expenses"`
		Income   []float64 `json:"income"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Labels) != 12 || len(payload.Expenses) != 12 || len(payload.Income) != 12 {
		t.Fatalf("arrays = %d/%d/%d, want 12 each", len(payload.Labels), len(payload.Expenses), len(payload.Income))
	}
	lastIdx := len(payload.Labels) - 1
	if payload.Expenses[lastIdx] != 400.0 {
		t.Errorf("current month expenses = %v, want 400", payload.Expenses[lastIdx])
	}
	if payload.Income[lastIdx] != 5000.0 {
		t.Errorf("current month income = %v, want 5000", payload.Income[lastIdx])
	}
}

func TestChartCacheInvalidatedOnMutation(t *testing.T) {
	srv, repo := newTestServer(t)
	catID := seedCategory(t, repo, "Food")
	seedExpense(t, repo, catID, "first", 10000, core.Today(time.Now()))

	rr := doRequest(srv, http.MethodGet, "/api/expense-trend?months=1", nil)
	before := rr.Body.String()

	form := url.Values{}
	form.Set("title", "second")
	form.Set("amount", "200")
	form.Set("category_id", fmt.Sprintf("%d", catID))
	if rr := doRequest(srv, http.MethodPost, "/expenses", form); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}

	rr = doRequest(srv, http.MethodGet, "/api/expense-trend?months=1", nil)
	after := rr.Body.String()
	if before == after {
		t.Errorf("trend payload unchanged after mutation: %s", after)
	}
}

func TestBudgetCreateConflict(t *testing.T) {
	srv, repo := newTestServer(t)
	catID := seedCategory(t, repo, "Food")

	form := url.Values{}
	form.Set("category_id", fmt.Sprintf("%d", catID))
	form.Set("amount", "1000")
	form.Set("period_type", "monthly")
	form.Set("start_date", "2025-03-01")

	if rr := doRequest(srv, http.MethodPost, "/budgets", form); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if rr := doRequest(srv, http.MethodPost, "/budgets", form); rr.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rr.Code)
	}

	rr := doRequest(srv, http.MethodGet, "/budgets", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Food") {
		t.Errorf("budget list missing category name")
	}
}

func TestCategoryCreateDuplicateAndDelete(t *testing.T) {
	srv, repo := newTestServer(t)

	form := url.Values{"name": {"Food"}}
	if rr := doRequest(srv, http.MethodPost, "/categories", form); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}
	if rr := doRequest(srv, http.MethodPost, "/categories", form); rr.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rr.Code)
	}

	cats, err := repo.ListCategories(context.Background())
	if err != nil || len(cats) != 1 {
		t.Fatalf("categories = %d (err %v), want 1", len(cats), err)
	}
	seedExpense(t, repo, cats[0].ID, "doomed", 1000, core.NewDate(2025, time.March, 1))

	rr := doRequest(srv, http.MethodPost, fmt.Sprintf("/categories/%d/delete", cats[0].ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	expenses, _ := repo.ListExpenses(context.Background(), testOwnerID, core.ExpenseFilter{}, "", 0, 0)
	if len(expenses) != 0 {
		t.Errorf("expenses after category delete = %d, want 0 (cascade)", len(expenses))
	}
}

func TestProfileRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/profile", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("show status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), core.DefaultCurrency) {
		t.Errorf("profile page missing default currency")
	}

	form := url.Values{}
	form.Set("phone", "+91 98765 43210")
	form.Set("currency", "inr")
	form.Set("monthly_budget", "50000")
	form.Set("budget_alerts", "on")
	if rr := doRequest(srv, http.MethodPost, "/profile", form); rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(srv, http.MethodGet, "/profile", nil)
	body := rr.Body.String()
	if !strings.Contains(body, "+91 98765 43210") {
		t.Errorf("updated phone not shown")
	}
	if !strings.Contains(body, "50000.00") {
		t.Errorf("monthly budget not shown, body: %s", body)
	}
}

func TestIncomeCreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{}
	form.Set("title", "March salary")
	form.Set("amount", "75000")
	form.Set("source", "salary")
	form.Set("date", "2025-03-01")

	rr := doRequest(srv, http.MethodPost, "/incomes", form)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if trigger := rr.Header().Get("HX-Trigger"); !strings.Contains(trigger, "income:changed") {
		t.Errorf("HX-Trigger = %q, want income:changed", trigger)
	}

	rr = doRequest(srv, http.MethodGet, "/incomes", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "March salary") {
		t.Errorf("income list missing created entry")
	}
	if !strings.Contains(rr.Body.String(), "Salary") {
		t.Errorf("income list missing source label")
	}
}

func TestUnknownIDReturns404(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{
		"/expenses/9999/delete",
		"/incomes/9999/delete",
		"/budgets/9999/delete",
		"/categories/9999/delete",
	} {
		rr := doRequest(srv, http.MethodPost, target, nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("POST %s status = %d, want 404", target, rr.Code)
		}
	}
}
