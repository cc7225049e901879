package http

import (
	"context"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"kharcha/internal/cache"
	"kharcha/internal/middleware/ratelimit"
	"kharcha/internal/middleware/security"
	"kharcha/internal/middleware/trace"
	"kharcha/internal/services"
	"kharcha/internal/storage"
	appweb "kharcha/web"
)

// Server owns the HTTP surface. All data access runs scoped to ownerID; the
// chart cache holds rendered JSON payloads and is invalidated wholesale on
// any mutation.
type Server struct {
	http.Server
	templates *template.Template
	repo      *storage.SQLiteRepository
	txs       *services.TransactionService
	ownerID   int64

	chartCache   *cache.LRUCache[[]byte]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer wires routes, templates and middleware into a ready-to-run
// server listening on addr.
func NewServer(addr string, ownerID int64, repo *storage.SQLiteRepository, txs *services.TransactionService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:    repo,
		txs:     txs,
		ownerID: ownerID,

		chartCache:   cache.NewLRUCache[[]byte](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	s.cacheManager.Register(s.chartCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	resolver := security.NewResolver()
	s.tracer = trace.NewMiddleware(resolver.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metricsz", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/expense-trend", s.handleExpenseTrend)
	mux.HandleFunc("GET /api/category-breakdown", s.handleCategoryBreakdown)
	mux.HandleFunc("GET /api/income-expense-trend", s.handleIncomeExpenseTrend)

	mux.HandleFunc("GET /expenses", s.handleExpenseList)
	mux.HandleFunc("POST /expenses", s.handleExpenseCreate)
	mux.HandleFunc("GET /expenses/export", s.handleExpenseExport)
	mux.HandleFunc("POST /expenses/{id}", s.handleExpenseUpdate)
	mux.HandleFunc("POST /expenses/{id}/delete", s.handleExpenseDelete)

	mux.HandleFunc("GET /incomes", s.handleIncomeList)
	mux.HandleFunc("POST /incomes", s.handleIncomeCreate)
	mux.HandleFunc("POST /incomes/{id}", s.handleIncomeUpdate)
	mux.HandleFunc("POST /incomes/{id}/delete", s.handleIncomeDelete)

	mux.HandleFunc("GET /budgets", s.handleBudgetList)
	mux.HandleFunc("POST /budgets", s.handleBudgetCreate)
	mux.HandleFunc("POST /budgets/{id}", s.handleBudgetUpdate)
	mux.HandleFunc("POST /budgets/{id}/delete", s.handleBudgetDelete)

	mux.HandleFunc("GET /categories", s.handleCategoryList)
	mux.HandleFunc("POST /categories", s.handleCategoryCreate)
	mux.HandleFunc("POST /categories/{id}", s.handleCategoryUpdate)
	mux.HandleFunc("POST /categories/{id}/delete", s.handleCategoryDelete)

	mux.HandleFunc("GET /profile", s.handleProfileShow)
	mux.HandleFunc("POST /profile", s.handleProfileUpdate)

	handler := s.tracer.Middleware(
		headers.Middleware(
			s.limiter.Middleware(resolver.ExtractClientIP)(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops background goroutines and then the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateCharts drops every cached chart payload for the owner. Cheap
// enough to do on every mutation.
func (s *Server) invalidateCharts() {
	s.chartCache.DeletePrefix(chartKeyPrefix(s.ownerID))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.ListCategories(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	metrics := s.tracer.GetMetrics()
	payload := map[string]any{
		"total_requests":     metrics.TotalRequests,
		"last_duration_ms":   metrics.LastDurationMS,
		"rate_limit_clients": s.limiter.ActiveClients(),
		"chart_cache_size":   s.chartCache.Size(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"until": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"add1": func(n int) int { return n + 1 },
	}
}
