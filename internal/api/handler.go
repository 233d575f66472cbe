// Package api implements the esgscope REST API.
// It serves stateless scoring plus ingest and read endpoints backed by the
// ledger and blob storage.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/esgscope/esgscope/internal/ingestion"
)

// maxBodyBytes bounds uploaded documents.
const maxBodyBytes = 32 << 20

// Handler is the top-level API handler.
type Handler struct {
	ingestionSvc *ingestion.Service
	scorer       ingestion.Scorer
	cache        *DocumentCache
	metrics      *Metrics
	registry     *prometheus.Registry
	log          *zap.Logger
}

// NewHandler creates a new API handler. ingestionSvc may be nil, in which
// case only the stateless endpoints are served.
func NewHandler(ingestionSvc *ingestion.Service, scorer ingestion.Scorer, cache *DocumentCache, logger *zap.Logger) *Handler {
	if cache == nil {
		cache = NewDocumentCache(0)
	}
	if logger == nil {
		logger = zap.L()
	}
	reg := prometheus.NewRegistry()
	return &Handler{
		ingestionSvc: ingestionSvc,
		scorer:       scorer,
		cache:        cache,
		metrics:      NewMetrics(reg),
		registry:     reg,
		log:          logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/v1/score", h.handleScore)

	if h.ingestionSvc == nil {
		return
	}
	mux.HandleFunc("POST /api/v1/reports", h.handleIngest)
	mux.HandleFunc("GET /api/v1/reports/{id}", h.handleGetReport)
	mux.HandleFunc("GET /api/v1/reports/{id}/breakdown", h.handleBreakdown)
	mux.HandleFunc("GET /api/v1/organizations/{org}/reports", h.handleListReports)
	mux.HandleFunc("GET /api/v1/rankings", h.handleRankings)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
