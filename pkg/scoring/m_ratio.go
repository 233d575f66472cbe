package scoring

import "fmt"

// RatioMetric scores the last-year ratio of summed numerator series to a
// denominator series, or to a fixed denominator when one is set.
type RatioMetric struct {
	MetricKey        string
	MetricName       string
	Numerators       [][]string // relative to the pillar; last values are summed
	Denominator      []string
	FixedDenominator float64 // used instead of Denominator when non-zero
	DenominatorScale float64 // multiplies the denominator; 0 means 1
	Weight           float64 // points per unit of ratio
	MaxContribution  float64
}

func (m *RatioMetric) Key() string  { return m.MetricKey }
func (m *RatioMetric) Name() string { return m.MetricName }
func (m *RatioMetric) Cap() float64 { return m.MaxContribution }

func (m *RatioMetric) Evaluate(in Input) (MetricResult, error) {
	result := MetricResult{Key: m.Key(), Name: m.Name(), Cap: m.Cap()}

	var num float64
	for _, p := range m.Numerators {
		s, err := in.Read(p)
		if err != nil {
			return result, err
		}
		if s.IsEmpty() {
			result.Evidence = append(result.Evidence, missing(in.Path(p)))
		}
		num += LastValue(s)
	}

	den := m.FixedDenominator
	if den == 0 {
		s, err := in.Read(m.Denominator)
		if err != nil {
			return result, err
		}
		if s.IsEmpty() {
			result.Evidence = append(result.Evidence, missing(in.Path(m.Denominator)))
		}
		den = LastValue(s)
	}
	if m.DenominatorScale != 0 {
		den *= m.DenominatorScale
	}

	ratio := Ratio(num, den)
	if len(result.Evidence) == 0 {
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceRatio,
			Summary: fmt.Sprintf("%s ratio %g / %g = %.3f", m.MetricName, num, den, ratio),
			Path:    in.Path(m.Numerators[0]),
			Value:   ratio,
		})
	}

	c, err := capContribution(ratio*m.Weight, m.MaxContribution)
	if err != nil {
		return result, err
	}
	result.Contribution = c
	result.Severity = severityFor(c, m.MaxContribution)
	return result, nil
}
