package scoring

import (
	"fmt"

	"github.com/esgscope/esgscope/pkg/esg"
)

var (
	energyTotalPath     = []string{"energy", "total"}
	energyRenewablePath = []string{"energy", "breakdown", "renewable"}
)

// EnergyMetric rewards falling energy use and a high renewable share.
type EnergyMetric struct {
	MaxContribution float64
	ReductionWeight float64 // points per unit of relative reduction
	RenewableWeight float64 // points per unit of renewable share
}

func (m *EnergyMetric) Key() string  { return "energy" }
func (m *EnergyMetric) Name() string { return "Energy" }
func (m *EnergyMetric) Cap() float64 { return m.MaxContribution }

func (m *EnergyMetric) Evaluate(in Input) (MetricResult, error) {
	result := MetricResult{Key: m.Key(), Name: m.Name(), Cap: m.Cap()}

	total, err := in.Read(energyTotalPath)
	if err != nil {
		return result, err
	}

	// Every leaf under renewable counts, including ones the template does not name.
	var renewable float64
	var sources int
	if g := in.Data.Group(energyRenewablePath...); g.Len() > 0 {
		var walkErr error
		g.Walk(func(path string, s esg.MetricSeries) {
			if walkErr != nil {
				return
			}
			full := in.Path(append(append([]string(nil), energyRenewablePath...), path))
			if walkErr = checkFinite(full, s); walkErr != nil {
				return
			}
			if !s.IsEmpty() {
				sources++
			}
			renewable += LastValue(s)
		})
		if walkErr != nil {
			return result, walkErr
		}
	}

	reduction := Reduction(total)
	lastTotal := LastValue(total)
	share := Ratio(renewable, lastTotal)

	if total.IsEmpty() {
		result.Evidence = append(result.Evidence, missing(in.Path(energyTotalPath)))
	} else {
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceTrend,
			Summary: fmt.Sprintf("energy use down %.1f%% over %d reported years", reduction*100, total.Len()),
			Path:    in.Path(energyTotalPath),
			Value:   reduction,
		})
	}
	if sources == 0 {
		result.Evidence = append(result.Evidence, missing(in.Path(energyRenewablePath)))
	} else {
		result.Evidence = append(result.Evidence, EvidenceItem{
			Type:    EvidenceRatio,
			Summary: fmt.Sprintf("renewable share %.1f%% from %d sources", share*100, sources),
			Path:    in.Path(energyRenewablePath),
			Value:   share,
		})
	}

	c, err := capContribution(reduction*m.ReductionWeight+share*m.RenewableWeight, m.MaxContribution)
	if err != nil {
		return result, err
	}
	result.Contribution = c
	result.Severity = severityFor(c, m.MaxContribution)
	return result, nil
}
