// Package server provides the HTTP server setup and wiring.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ashbridge/spyglass/internal/chains"
	"github.com/ashbridge/spyglass/internal/config"
	"github.com/ashbridge/spyglass/internal/explorer"
	"github.com/ashbridge/spyglass/internal/middleware/logging"
	"github.com/ashbridge/spyglass/internal/observability/metrics"
	"github.com/ashbridge/spyglass/internal/rpcproxy"
	"github.com/ashbridge/spyglass/internal/tracker"
)

// Deps carries the long-lived collaborators the server wires together. One
// tracker instance exists per process; everything that needs it gets this
// same reference.
type Deps struct {
	Version   string
	ChainID   uint64
	Artifacts int // compiled artifacts in the tracker's snapshot
	Tracker   *tracker.Tracker
	Records   explorer.RecordSource
	Links     *rpcproxy.LinkPrinter
}

// Server is the HTTP server
type Server struct {
	cfg        *config.Config
	deps       Deps
	logger     *slog.Logger
	router     *chi.Mux
	sessionID  string
	aggregator *explorer.Aggregator
}

// New creates a new server
func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		deps:      deps,
		logger:    logger,
		router:    chi.NewRouter(),
		sessionID: uuid.NewString(),
	}

	s.aggregator = explorer.NewAggregator(deps.Records, deps.Tracker)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// SessionID identifies this process; the webapp uses it to detect restarts.
func (s *Server) SessionID() string {
	return s.sessionID
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// CORS: the webapp and external tooling (wallets, test runners) call the
	// RPC endpoint cross-origin.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}

func (s *Server) setupRoutes() {
	// Health checks
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleHealth)

	s.router.Get("/metrics", metrics.Handler().ServeHTTP)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/contracts", s.handleContracts)
		r.Get("/status", s.handleStatus)
	})

	// JSON-RPC proxy, body-capped; the node accepts POST on the root path
	rpcHandler := rpcproxy.NewHandler(s.cfg.Node.RPCURL, s.deps.Tracker, s.deps.Links, s.logger)
	s.router.Group(func(r chi.Router) {
		r.Use(MaxBodySize(int64(s.cfg.Server.MaxBodySizeMB) * 1024 * 1024))
		r.Post("/", rpcHandler.ServeHTTP)
		r.Post("/rpc", rpcHandler.ServeHTTP)
	})

	// Everything else is the explorer webapp
	webHandler := explorer.NewHandler(s.cfg.Project.WebappDir, s.aggregator, s.logger)
	s.router.Get("/*", webHandler.ServeHTTP)
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleContracts serves the merged contract state the webapp also receives
// by injection.
func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	snapshot := s.aggregator.Snapshot()
	if snapshot == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// statusResponse is the /api/v1/status payload.
type statusResponse struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	ChainID   uint64 `json:"chainId"`
	ChainName string `json:"chainName"`
	RPCURL    string `json:"rpcUrl"`
	SessionID string `json:"sessionId"`
	Artifacts int    `json:"artifacts"`
	Tracked   int    `json:"tracked"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Service:   "spyglass",
		Version:   s.deps.Version,
		ChainID:   s.deps.ChainID,
		ChainName: chains.Name(s.deps.ChainID),
		RPCURL:    s.cfg.Node.RPCURL,
		SessionID: s.sessionID,
		Artifacts: s.deps.Artifacts,
		Tracked:   len(s.deps.Tracker.Artifacts()),
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
