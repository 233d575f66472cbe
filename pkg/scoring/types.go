// Package scoring implements the composite ESG scoring engine.
// It evaluates a canonical document pillar by pillar and produces graded,
// evidence-backed scores.
package scoring

import "github.com/esgscope/esgscope/pkg/esg"

// Result is the complete output of scoring one document.
// Immutable once computed.
type Result struct {
	Pillars          []PillarResult    `json:"pillars"`
	Total            esg.PillarScore   `json:"total"`
	Hotspots         []Hotspot         `json:"hotspots,omitempty"`
	SuggestedActions []SuggestedAction `json:"suggested_actions"`
}

// PillarResult is the scored breakdown of one pillar.
type PillarResult struct {
	Pillar    string          `json:"pillar"`
	Score     esg.PillarScore `json:"score"`
	Raw       float64         `json:"raw"` // unrounded sum of contributions
	Cap       float64         `json:"cap"`
	Breakdown []MetricResult  `json:"breakdown"`
	Error     string          `json:"error,omitempty"` // set when the pillar degraded to N/A
}

// MetricResult is the output of a single scoring component.
type MetricResult struct {
	Key          string         `json:"key"`  // machine key: "board_composition"
	Name         string         `json:"name"` // human name: "Board composition"
	Cap          float64        `json:"cap"`
	Contribution float64        `json:"contribution"` // in [0, Cap]
	Severity     Severity       `json:"severity"`
	Evidence     []EvidenceItem `json:"evidence"`
}

// Severity indicates how far a component is from its cap.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"   // nothing earned
	SeverityMedium Severity = "MEDIUM" // less than half the cap
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO" // at cap
)

// EvidenceItem is a single piece of concrete evidence backing a contribution.
type EvidenceItem struct {
	Type    EvidenceType `json:"type"`
	Summary string       `json:"summary"`
	Path    string       `json:"path,omitempty"` // dotted path of the series read
	Value   float64      `json:"value,omitempty"`
}

// EvidenceType classifies what kind of evidence this is.
type EvidenceType string

const (
	EvidenceTrend    EvidenceType = "TREND"    // reduction or retention over a series
	EvidenceRatio    EvidenceType = "RATIO"    // last-year ratio of two series
	EvidencePresence EvidenceType = "PRESENCE" // a disclosure exists
	EvidenceMissing  EvidenceType = "MISSING"  // an input series has no data
	EvidenceInvalid  EvidenceType = "INVALID"  // an input series holds non-numeric values
)

// Hotspot is a series whose absence costs points in more than one component.
type Hotspot struct {
	Path              string   `json:"path"`
	Reason            string   `json:"reason"`
	ScoreContribution float64  `json:"score_contribution"` // combined cap of the affected components
	MetricKeys        []string `json:"metric_keys"`
}

// SuggestedAction is a human- and machine-readable recommendation.
type SuggestedAction struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Targets     []string `json:"targets"`    // dotted series paths
	Confidence  float64  `json:"confidence"` // 0.0-1.0
	Addresses   []string `json:"addresses"`  // metric keys this addresses
}

// Pillar returns the result for a pillar name.
func (r *Result) Pillar(name string) (PillarResult, bool) {
	for _, p := range r.Pillars {
		if p.Pillar == name {
			return p, true
		}
	}
	return PillarResult{}, false
}

// Scores returns the graded scores block. A pillar the engine was not
// configured with scores 0.
func (r *Result) Scores() esg.Scores {
	get := func(name string) esg.PillarScore {
		if p, ok := r.Pillar(name); ok {
			return p.Score
		}
		return graded(0)
	}
	return esg.Scores{
		Environmental: get(esg.PillarEnvironmental),
		Social:        get(esg.PillarSocial),
		Governance:    get(esg.PillarGovernance),
		Total:         r.Total,
	}
}

// InvalidComponents returns the components that scored 0 because an input
// series held non-numeric values.
func (r *Result) InvalidComponents() []MetricResult {
	var out []MetricResult
	for _, p := range r.Pillars {
		for _, mr := range p.Breakdown {
			for _, ev := range mr.Evidence {
				if ev.Type == EvidenceInvalid {
					out = append(out, mr)
					break
				}
			}
		}
	}
	return out
}
