package scoring

import "fmt"

// RetentionMetric rewards a headcount that holds from year to year.
type RetentionMetric struct {
	Path            []string // relative to the pillar
	Weight          float64  // points per unit of retention
	MaxContribution float64
}

func (m *RetentionMetric) Key() string  { return "employees" }
func (m *RetentionMetric) Name() string { return "Employee retention" }
func (m *RetentionMetric) Cap() float64 { return m.MaxContribution }

func (m *RetentionMetric) Evaluate(in Input) (MetricResult, error) {
	result := MetricResult{Key: m.Key(), Name: m.Name(), Cap: m.Cap()}

	s, err := in.Read(m.Path)
	if err != nil {
		return result, err
	}

	retention := Retention(s)
	if s.IsEmpty() {
		result.Evidence = append(result.Evidence, missing(in.Path(m.Path)))
	} else {
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceTrend,
			Summary: fmt.Sprintf("average retention %.1f%% over %d reported years", retention*100, s.Len()),
			Path:    in.Path(m.Path),
			Value:   retention,
		})
	}

	c, err := capContribution(retention*m.Weight, m.MaxContribution)
	if err != nil {
		return result, err
	}
	result.Contribution = c
	result.Severity = severityFor(c, m.MaxContribution)
	return result, nil
}
