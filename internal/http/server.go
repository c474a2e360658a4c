// Package http exposes the expense tracker as a JSON API: expense and
// category CRUD, spreadsheet import, and the summary projections.
package http

import (
	"context"
	"net/http"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/log"
	"kakeibo/internal/services"
)

// CategoryStore is the category management surface the handlers need.
// *storage.SQLiteRepository satisfies it.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, id string, c core.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type server struct {
	expenses   *services.ExpenseService
	imports    *services.ImportService
	summaries  *services.SummaryService
	categories CategoryStore
	uploadMax  int64
	logger     *log.Logger
}

// NewServer wires the API routes and returns a configured *http.Server.
func NewServer(addr string, expenses *services.ExpenseService, imports *services.ImportService,
	summaries *services.SummaryService, categories CategoryStore, uploadMax int64) *http.Server {

	s := &server{
		expenses:   expenses,
		imports:    imports,
		summaries:  summaries,
		categories: categories,
		uploadMax:  uploadMax,
		logger:     log.New(log.Config{Component: log.ComponentHTTP}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("POST /api/import/preview", s.handleImportPreview)
	mux.HandleFunc("POST /api/import/commit", s.handleImportCommit)

	mux.HandleFunc("GET /api/summary/monthly", s.handleMonthlySummary)
	mux.HandleFunc("GET /api/summary/categories", s.handleCategorySummary)

	return &http.Server{
		Addr:    addr,
		Handler: s.withRequestLogging(mux),
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "request handled",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	})
}
