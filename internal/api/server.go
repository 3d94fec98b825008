// Package api implements the HTTP layer for the Derma Analyzer email server.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyashahama/derma-analyzer-backend/internal/mail"
	"github.com/nyashahama/derma-analyzer-backend/internal/pdf"
	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string

	// EmailConfigured feeds the /api/status response so the mobile client can
	// tell a reachable-but-unconfigured server from a healthy one.
	EmailConfigured bool
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// renderer turns the normalized payload into the report HTML.
	renderer *report.Renderer

	// pdf converts the rendered HTML into the attachment buffer.
	pdf pdf.Renderer

	// mailer dispatches the report email through the SMTP relay.
	mailer mail.Dispatcher

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	renderer *report.Renderer,
	pdfRenderer pdf.Renderer,
	mailer mail.Dispatcher,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		renderer: renderer,
		pdf:      pdfRenderer,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	// The send-report pipeline holds the request open through PDF generation
	// and the SMTP round trip, so the ceiling is generous.
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/", s.handleHome)

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", s.handleTest)
		r.Get("/status", s.handleStatus)
		r.Post("/send-report", s.handleSendReport)
	})

	return r
}

// ─── GET / ────────────────────────────────────────────────────────────────────

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Derma Analyzer Email Server is running. Go to /api/test for API test."))
}

// ─── GET /api/test ────────────────────────────────────────────────────────────

// handleTest is the health check the delivery client probes before each send
// attempt. Any 2xx counts as reachable.
func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"message": "Server is running correctly",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ─── GET /api/status ──────────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"status":           "online",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"email_configured": s.cfg.EmailConfigured,
	})
}
