package scoring

import "fmt"

// ReductionMetric rewards a falling series, such as emissions or water use.
type ReductionMetric struct {
	MetricKey       string
	MetricName      string
	Path            []string // relative to the pillar
	Weight          float64  // points per unit of relative reduction
	MaxContribution float64
}

func (m *ReductionMetric) Key() string  { return m.MetricKey }
func (m *ReductionMetric) Name() string { return m.MetricName }
func (m *ReductionMetric) Cap() float64 { return m.MaxContribution }

func (m *ReductionMetric) Evaluate(in Input) (MetricResult, error) {
	result := MetricResult{Key: m.Key(), Name: m.Name(), Cap: m.Cap()}

	s, err := in.Read(m.Path)
	if err != nil {
		return result, err
	}

	reduction := Reduction(s)
	if s.IsEmpty() {
		result.Evidence = append(result.Evidence, missing(in.Path(m.Path)))
	} else {
		first, _ := s.First()
		last, _ := s.Last()
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceTrend,
			Summary: fmt.Sprintf("%s %g -> %g (down %.1f%%)", in.Path(m.Path), first, last, reduction*100),
			Path:    in.Path(m.Path),
			Value:   reduction,
		})
	}

	c, err := capContribution(reduction*m.Weight, m.MaxContribution)
	if err != nil {
		return result, err
	}
	result.Contribution = c
	result.Severity = severityFor(c, m.MaxContribution)
	return result, nil
}
