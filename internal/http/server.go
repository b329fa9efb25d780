package http

import (
	"context"
	"net/http"
	"time"

	"ledger/internal/cache"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/services"
)

// Server exposes the ledger over a JSON API.
type Server struct {
	http.Server
	svc     *services.LedgerService
	logger  *log.Logger
	limiter *ratelimit.Limiter

	// Rendered documents per month, keyed on the ledger version.
	documents *cache.LRU[[]byte]
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// A nil m disables the /metrics endpoint and request instrumentation.
func NewServer(addr string, svc *services.LedgerService, m *metrics.Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Server{
		svc:     svc,
		logger:  logger.WithComponent(log.ComponentHTTP),
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),

		documents: cache.NewLRU[[]byte](48),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("GET /api/transactions/{id}/draft", s.handleGetDraft)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/months/{month}", s.handleMonth)
	mux.HandleFunc("GET /api/months/{month}/export", s.handleExport)
	mux.HandleFunc("GET /api/months/{month}/export.md", s.handleExportMarkdown)
	mux.HandleFunc("GET /api/months/{month}/export.xlsx", s.handleExportWorkbook)
	mux.HandleFunc("GET /api/months/{month}/chart.png", s.handleChart)

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	var handler http.Handler = m.Middleware(mux)
	handler = s.limiter.Middleware(s.handleRateLimited, http.MethodPost, http.MethodPut, http.MethodDelete)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		"client_ip", ratelimit.ClientIP(r), log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
}
