package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/esgscope/esgscope/internal/ingestion"
	"github.com/esgscope/esgscope/internal/ledger"
	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/scoring"
	"github.com/esgscope/esgscope/pkg/surface"
)

type ingestResponse struct {
	Entry  *ledger.Entry   `json:"entry"`
	Result *scoring.Result `json:"result"`
	Issues []esg.Issue     `json:"issues,omitempty"`
}

type reportResponse struct {
	Entry    *ledger.Entry `json:"entry"`
	Document *esg.Document `json:"document"`
}

// handleIngest handles POST /api/v1/reports?organization=&period=&source=.
// The body is the disclosure document itself.
func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := requestFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	res, err := h.ingestionSvc.Ingest(r.Context(), ingestion.Request{
		Organization: q.Get("organization"),
		Period:       q.Get("period"),
		Source:       q.Get("source"),
		Format:       format,
		Body:         data,
	})
	if err != nil {
		if eris.Is(err, ingestion.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("ingest failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to ingest report: "+err.Error())
		return
	}
	h.metrics.Observe("ingest", res.Score, time.Since(start).Seconds())
	h.cache.Put(res.Entry.ID, res.Entry, res.Document)

	writeJSON(w, http.StatusCreated, ingestResponse{Entry: res.Entry, Result: res.Score, Issues: res.Issues})
}

// loadReport returns a stored report, checking the cache first.
func (h *Handler) loadReport(ctx context.Context, id string) (*ledger.Entry, *esg.Document, error) {
	if entry, doc, ok := h.cache.Get(id); ok {
		return entry, doc, nil
	}
	entry, doc, err := h.ingestionSvc.Document(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	h.cache.Put(id, entry, doc)
	return entry, doc, nil
}

func (h *Handler) writeLoadError(w http.ResponseWriter, id string, err error) {
	if eris.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	h.log.Error("load report failed", zap.String("report_id", id), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to load report")
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entry, doc, err := h.loadReport(r.Context(), id)
	if err != nil {
		h.writeLoadError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Entry: entry, Document: doc})
}

// handleBreakdown re-scores a stored document with the current engine and
// returns the full per-component report.
func (h *Handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entry, doc, err := h.loadReport(r.Context(), id)
	if err != nil {
		h.writeLoadError(w, id, err)
		return
	}
	res := h.scorer.Score(doc)
	writeJSON(w, http.StatusOK, surface.NewReport(entry.Source, doc, res))
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ingestionSvc.Ledger().ListByOrganization(r.Context(), r.PathValue("org"))
	if err != nil {
		h.log.Error("list reports failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleRankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := ledger.RankingQuery{
		Pillar: q.Get("pillar"),
		Period: q.Get("period"),
	}
	switch query.Pillar {
	case "", "total", esg.PillarEnvironmental, esg.PillarSocial, esg.PillarGovernance:
	default:
		writeError(w, http.StatusBadRequest, "pillar must be environmental, social, governance or total")
		return
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		query.Limit = n
	}

	ranked, err := h.ingestionSvc.Ledger().Ranking(r.Context(), query)
	if err != nil {
		h.log.Error("ranking failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to rank reports")
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}
