// Package web serves the HTTP API: extraction, journaling prompts, record
// CRUD, memory recall, and review reports.
package web

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/extract"
	"github.com/tendhq/tend/internal/ratelimit"
	"github.com/tendhq/tend/internal/recall"
)

// ServerDeps carries the collaborators the handlers need.
type ServerDeps struct {
	DB       *sql.DB
	Cfg      *config.Config
	Pipeline *extract.Pipeline
	Embedder recall.Embedder

	// Generator produces journaling prompts; nil means canned prompts only.
	Generator extract.Generator

	// ReportsDir receives exported review reports.
	ReportsDir string
}

// NewServer creates and configures the HTTP server for the Tend API.
func NewServer(deps ServerDeps, bind string, port int) *http.Server {
	cfg := deps.Cfg

	h := &Handlers{
		deps: deps,
		extractLimiter: ratelimit.NewLimiter(nil,
			time.Duration(cfg.ExtractWindowSeconds)*time.Second, cfg.ExtractCapacity),
		promptsLimiter: ratelimit.NewLimiter(nil,
			time.Duration(cfg.PromptsWindowSeconds)*time.Second, cfg.PromptsCapacity),
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("POST /api/extract", h.HandleExtract)
	mux.HandleFunc("POST /api/journal/prompts", h.HandlePrompts)

	mux.HandleFunc("POST /api/tasks", h.HandleCreateTask)
	mux.HandleFunc("GET /api/tasks", h.HandleListTasks)
	mux.HandleFunc("PATCH /api/tasks/{id}/status", h.HandleUpdateTaskStatus)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.HandleDeleteTask)

	mux.HandleFunc("POST /api/goals", h.HandleCreateGoal)
	mux.HandleFunc("GET /api/goals", h.HandleListGoals)

	mux.HandleFunc("POST /api/activities", h.HandleCreateActivity)
	mux.HandleFunc("GET /api/activities", h.HandleListActivities)

	mux.HandleFunc("POST /api/areas", h.HandleCreateArea)
	mux.HandleFunc("GET /api/areas", h.HandleListAreas)

	mux.HandleFunc("POST /api/journal", h.HandleCreateEntry)
	mux.HandleFunc("GET /api/journal", h.HandleListEntries)

	mux.HandleFunc("POST /api/memories", h.HandleStoreMemory)
	mux.HandleFunc("POST /api/recall", h.HandleRecall)

	mux.HandleFunc("GET /api/review/report", h.HandleReviewReport)

	mux.HandleFunc("GET /api/health", h.HandleHealth)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: securityHeaders(mux),
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("Tend API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
