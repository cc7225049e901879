package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"kharcha/internal/core"
)

func chartKeyPrefix(userID int64) string {
	return fmt.Sprintf("charts:%d:", userID)
}

// writeChartJSON serves the payload from cache when fresh, otherwise builds
// it, caches it and writes it.
func (s *Server) writeChartJSON(w http.ResponseWriter, r *http.Request, key string, build func(ctx context.Context) (any, error)) {
	w.Header().Set("Content-Type", "application/json")

	fullKey := chartKeyPrefix(s.ownerID) + key
	if payload, ok := s.chartCache.Get(fullKey); ok {
		_, _ = w.Write(payload)
		return
	}

	data, err := build(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart build failed", "key", key, "error", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart marshal failed", "key", key, "error", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	s.chartCache.Set(fullKey, payload)
	_, _ = w.Write(payload)
}

type trendPoint struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// handleExpenseTrend serves the N-trailing-month spend series,
// chronological. Months without expenses report 0.
func (s *Server) handleExpenseTrend(w http.ResponseWriter, r *http.Request) {
	months := parseMonths(r.URL.Query(), 6)

	s.writeChartJSON(w, r, fmt.Sprintf("expense-trend:%d", months), func(ctx context.Context) (any, error) {
		windows := core.TrailingMonths(time.Now(), months)
		points := make([]trendPoint, 0, len(windows))
		for _, win := range windows {
			total, err := s.repo.SumExpensesInWindow(ctx, s.ownerID, 0, win)
			if err != nil {
				return nil, err
			}
			points = append(points, trendPoint{Month: win.Label(), Total: total.Rupees()})
		}
		return map[string]any{"data": points}, nil
	})
}

// handleCategoryBreakdown serves current-month spend by category as three
// parallel arrays, descending by total, top 10.
func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	s.writeChartJSON(w, r, "category-breakdown", func(ctx context.Context) (any, error) {
		window := core.MonthWindow(time.Now(), 0)
		expenses, err := s.repo.ExpensesInWindow(ctx, s.ownerID, window)
		if err != nil {
			return nil, err
		}

		colorByName := make(map[string]string)
		cats, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range cats {
			colorByName[c.Name] = c.Color
		}

		groups := core.Aggregate(expenses,
			func(e core.Expense) string { return e.CategoryName },
			func(e core.Expense) core.Money { return e.Amount })
		if len(groups) > 10 {
			groups = groups[:10]
		}

		labels := make([]string, 0, len(groups))
		data := make([]float64, 0, len(groups))
		colors := make([]string, 0, len(groups))
		for _, g := range groups {
			labels = append(labels, g.Key)
			data = append(data, g.Total.Rupees())
			color := colorByName[g.Key]
			if color == "" {
				color = core.DefaultCategoryColor
			}
			colors = append(colors, color)
		}
		return map[string]any{"labels": labels, "data": data, "colors": colors}, nil
	})
}

// handleIncomeExpenseTrend serves 12 months of income vs expenses as
// parallel arrays, chronological.
func (s *Server) handleIncomeExpenseTrend(w http.ResponseWriter, r *http.Request) {
	s.writeChartJSON(w, r, "income-expense-trend", func(ctx context.Context) (any, error) {
		windows := core.TrailingMonths(time.Now(), 12)
		labels := make([]string, 0, len(windows))
		expenses := make([]float64, 0, len(windows))
		income := make([]float64, 0, len(windows))
		for _, win := range windows {
			spent, err := s.repo.SumExpensesInWindow(ctx, s.ownerID, 0, win)
			if err != nil {
				return nil, err
			}
			earned, err := s.repo.SumIncomesInWindow(ctx, s.ownerID, win)
			if err != nil {
				return nil, err
			}
			labels = append(labels, win.Label())
			expenses = append(expenses, spent.Rupees())
			income = append(income, earned.Rupees())
		}
		return map[string]any{"labels": labels, "expenses": expenses, "income": income}, nil
	})
}

type dashboardBudgetRow struct {
	CategoryName string
	Amount       string
	Spent        string
	Remaining    string
	Percentage   float64
	State        string
}

type dashboardTransactionRow struct {
	Kind   string
	Title  string
	Detail string
	Amount string
	Date   string
}

// handleDashboard renders the landing page: month summary, budget statuses
// and the recent transaction feed. Charts load client-side from the JSON
// endpoints.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	month := core.MonthWindow(now, 0)

	spent, err := s.repo.SumExpensesInWindow(ctx, s.ownerID, 0, month)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard month spend failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	earned, err := s.repo.SumIncomesInWindow(ctx, s.ownerID, month)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard month income failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	budgets, err := s.repo.ListBudgets(ctx, s.ownerID)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard budgets failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	budgetRows := make([]dashboardBudgetRow, 0, len(budgets))
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		window := core.PeriodWindow(b.PeriodType, now)
		catSpent, err := s.repo.SumExpensesInWindow(ctx, s.ownerID, b.CategoryID, window)
		if err != nil {
			slog.ErrorContext(ctx, "Dashboard budget spend failed", "budget_id", b.ID, "error", err)
			continue
		}
		report := core.EvaluateBudget(b, catSpent, now)
		budgetRows = append(budgetRows, dashboardBudgetRow{
			CategoryName: b.CategoryName,
			Amount:       b.Amount.Display(),
			Spent:        report.Spent.Display(),
			Remaining:    report.Remaining.Display(),
			Percentage:   report.Percentage,
			State:        string(report.State),
		})
	}

	recent, err := s.repo.RecentTransactions(ctx, s.ownerID, 10)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard recent transactions failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	recentRows := make([]dashboardTransactionRow, 0, len(recent))
	for _, t := range recent {
		recentRows = append(recentRows, dashboardTransactionRow{
			Kind:   string(t.Kind),
			Title:  t.Title,
			Detail: t.Detail,
			Amount: t.Amount.Display(),
			Date:   t.Date.String(),
		})
	}

	s.render(w, r, "dashboard.html", struct {
		MonthLabel string
		Spent      string
		Earned     string
		Net        string
		Budgets    []dashboardBudgetRow
		Recent     []dashboardTransactionRow
	}{
		MonthLabel: month.Label(),
		Spent:      spent.Display(),
		Earned:     earned.Display(),
		Net:        earned.Sub(spent).Display(),
		Budgets:    budgetRows,
		Recent:     recentRows,
	})
}
