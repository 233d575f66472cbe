package scoring

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Weights holds the caps and multipliers of every scoring component.
type Weights struct {
	// Environmental
	EnergyCap             float64
	EnergyReductionWeight float64
	EnergyRenewableWeight float64
	EmissionsCap          float64
	EmissionsWeight       float64
	WaterCap              float64
	WaterWeight           float64
	WasteCap              float64
	WasteWeight           float64

	// Social
	EmployeesCap     float64
	EmployeesWeight  float64
	DiversityCap     float64
	DiversityWeight  float64
	ManagementCap    float64
	ManagementWeight float64

	// Governance
	BoardCompositionCap        float64
	BoardCompositionWeight     float64
	BoardDiversityCap          float64
	BoardDiversityWeight       float64
	CompensationCap            float64
	CompensationWeight         float64
	CompensationDirectorsShare float64
	CompensationOfficersShare  float64
	CompensationAuditorsShare  float64
}

// Defaults returns the default scoring weights.
func Defaults() Weights {
	return Weights{
		EnergyCap:             150,
		EnergyReductionWeight: 100,
		EnergyRenewableWeight: 100,
		EmissionsCap:          150,
		EmissionsWeight:       200,
		WaterCap:              100,
		WaterWeight:           150,
		WasteCap:              100,
		WasteWeight:           150,

		EmployeesCap:     300,
		EmployeesWeight:  300,
		DiversityCap:     200,
		DiversityWeight:  200,
		ManagementCap:    200,
		ManagementWeight: 200,

		BoardCompositionCap:        300,
		BoardCompositionWeight:     300,
		BoardDiversityCap:          200,
		BoardDiversityWeight:       200,
		CompensationCap:            200,
		CompensationWeight:         200,
		CompensationDirectorsShare: 0.4,
		CompensationOfficersShare:  0.3,
		CompensationAuditorsShare:  0.3,
	}
}

func (w *Weights) fields() map[string]*float64 {
	return map[string]*float64{
		"energy.cap":                   &w.EnergyCap,
		"energy.reduction_weight":      &w.EnergyReductionWeight,
		"energy.renewable_weight":      &w.EnergyRenewableWeight,
		"emissions.cap":                &w.EmissionsCap,
		"emissions.weight":             &w.EmissionsWeight,
		"water.cap":                    &w.WaterCap,
		"water.weight":                 &w.WaterWeight,
		"waste.cap":                    &w.WasteCap,
		"waste.weight":                 &w.WasteWeight,
		"employees.cap":                &w.EmployeesCap,
		"employees.weight":             &w.EmployeesWeight,
		"diversity.cap":                &w.DiversityCap,
		"diversity.weight":             &w.DiversityWeight,
		"management.cap":               &w.ManagementCap,
		"management.weight":            &w.ManagementWeight,
		"board_composition.cap":        &w.BoardCompositionCap,
		"board_composition.weight":     &w.BoardCompositionWeight,
		"board_diversity.cap":          &w.BoardDiversityCap,
		"board_diversity.weight":       &w.BoardDiversityWeight,
		"compensation.cap":             &w.CompensationCap,
		"compensation.weight":          &w.CompensationWeight,
		"compensation.directors_share": &w.CompensationDirectorsShare,
		"compensation.officers_share":  &w.CompensationOfficersShare,
		"compensation.auditors_share":  &w.CompensationAuditorsShare,
	}
}

// OverrideKeys lists the keys Apply accepts, sorted.
func OverrideKeys() []string {
	var w Weights
	keys := make([]string, 0, 32)
	for k := range w.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply overwrites weights by key, for example "energy.cap". Caps must not be
// negative. Nothing is changed when any key is rejected.
func (w *Weights) Apply(overrides map[string]float64) error {
	fields := w.fields()
	for k, v := range overrides {
		if _, ok := fields[k]; !ok {
			return eris.Errorf("unknown scoring weight %q", k)
		}
		if v < 0 {
			return eris.Errorf("scoring weight %q must not be negative, got %g", k, v)
		}
	}
	for k, v := range overrides {
		*fields[k] = v
	}
	return nil
}
