package api

import (
	"bytes"
	"compress/gzip"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/internal/ingestion"
	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/surface"
)

// scoreResponse is the body of POST /api/v1/score.
type scoreResponse struct {
	*surface.Report
	Document *esg.Document `json:"document,omitempty"`
}

// requestFormat picks the body format from ?format=, then Content-Type.
func requestFormat(r *http.Request) (esg.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return esg.ParseFormat(f)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return esg.FormatYAML, nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return esg.FormatXLSX, nil
	default:
		return esg.FormatJSON, nil
	}
}

// readBody reads the request body, honoring Content-Encoding: gzip.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var body io.Reader = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, eris.Wrap(err, "invalid gzip body")
		}
		defer gz.Close()
		body = gz
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read body")
	}
	return data, nil
}

// handleScore normalizes and scores a document without storing anything.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
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
	raw, err := esg.Decode(bytes.NewReader(data), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, res := ingestion.Evaluate(raw, h.scorer)
	h.metrics.Observe("score", res, time.Since(start).Seconds())

	resp := scoreResponse{Report: surface.NewReport(r.URL.Query().Get("source"), doc, res)}
	if annotate, _ := strconv.ParseBool(r.URL.Query().Get("annotate")); annotate {
		resp.Document = doc
	}
	writeJSON(w, http.StatusOK, resp)
}
