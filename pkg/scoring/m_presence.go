package scoring

import (
	"fmt"

	"github.com/esgscope/esgscope/pkg/esg"
)

// PresenceItem is one disclosure checked by a PresenceMetric.
type PresenceItem struct {
	Path   []string // relative to the pillar
	Weight float64  // share of the score earned when present
}

// PresenceMetric scores whether disclosures exist at all, not their values.
// A disclosure is present when its node holds at least one data point.
type PresenceMetric struct {
	MetricKey       string
	MetricName      string
	Items           []PresenceItem
	Weight          float64 // points per unit of summed item weight
	MaxContribution float64
}

func (m *PresenceMetric) Key() string  { return m.MetricKey }
func (m *PresenceMetric) Name() string { return m.MetricName }
func (m *PresenceMetric) Cap() float64 { return m.MaxContribution }

func (m *PresenceMetric) Evaluate(in Input) (MetricResult, error) {
	result := MetricResult{Key: m.Key(), Name: m.Name(), Cap: m.Cap()}

	var share float64
	for _, item := range m.Items {
		n := in.Data.Lookup(item.Path...)
		if !esg.HasData(n) {
			result.Evidence = append(result.Evidence, missing(in.Path(item.Path)))
			continue
		}
		share += item.Weight
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidencePresence,
			Summary: fmt.Sprintf("%s disclosed", in.Path(item.Path)),
			Path:    in.Path(item.Path),
			Value:   item.Weight,
		})
	}

	c, err := capContribution(share*m.Weight, m.MaxContribution)
	if err != nil {
		return result, err
	}
	result.Contribution = c
	result.Severity = severityFor(c, m.MaxContribution)
	return result, nil
}
