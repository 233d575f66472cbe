package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/esgscope/esgscope/pkg/scoring"
)

// Metrics holds the Prometheus collectors exported at /metrics.
type Metrics struct {
	DocumentsScored   *prometheus.CounterVec
	DegradedPillars   *prometheus.CounterVec
	InvalidComponents *prometheus.CounterVec
	ScoringDuration   prometheus.Histogram
	TotalScore        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "esgscope_documents_scored_total",
				Help: "Total number of documents scored by endpoint",
			},
			[]string{"endpoint"},
		),
		DegradedPillars: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "esgscope_degraded_pillars_total",
				Help: "Total number of pillars that could not be scored",
			},
			[]string{"pillar"},
		),
		InvalidComponents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "esgscope_invalid_components_total",
				Help: "Total number of components zeroed by non-numeric input",
			},
			[]string{"component"},
		),
		ScoringDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "esgscope_scoring_duration_seconds",
				Help:    "Time spent normalizing and scoring one document",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),
		TotalScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "esgscope_total_score",
				Help:    "Distribution of total scores",
				Buckets: prometheus.LinearBuckets(0, 200, 10),
			},
		),
	}
	reg.MustRegister(m.DocumentsScored, m.DegradedPillars, m.InvalidComponents, m.ScoringDuration, m.TotalScore)
	return m
}

// Observe records one scored document.
func (m *Metrics) Observe(endpoint string, res *scoring.Result, seconds float64) {
	m.DocumentsScored.WithLabelValues(endpoint).Inc()
	m.ScoringDuration.Observe(seconds)
	m.TotalScore.Observe(float64(res.Total.Score))
	for _, p := range res.Pillars {
		if p.Error != "" {
			m.DegradedPillars.WithLabelValues(p.Pillar).Inc()
		}
	}
	for _, mr := range res.InvalidComponents() {
		m.InvalidComponents.WithLabelValues(mr.Key).Inc()
	}
}
