package scoring

import "github.com/esgscope/esgscope/pkg/esg"

// DefaultPillars returns the standard three pillars built from w.
func DefaultPillars(w Weights) []Pillar {
	return []Pillar{
		{
			Name: esg.PillarEnvironmental,
			Metrics: []Metric{
				&EnergyMetric{
					MaxContribution: w.EnergyCap,
					ReductionWeight: w.EnergyReductionWeight,
					RenewableWeight: w.EnergyRenewableWeight,
				},
				&ReductionMetric{
					MetricKey:       "emissions",
					MetricName:      "Emissions",
					Path:            []string{"emissions", "total"},
					Weight:          w.EmissionsWeight,
					MaxContribution: w.EmissionsCap,
				},
				&ReductionMetric{
					MetricKey:       "water",
					MetricName:      "Water",
					Path:            []string{"water", "consumption", "total"},
					Weight:          w.WaterWeight,
					MaxContribution: w.WaterCap,
				},
				&RatioMetric{
					MetricKey:       "waste",
					MetricName:      "Waste recycling",
					Numerators:      [][]string{{"waste", "recycled"}},
					Denominator:     []string{"waste", "total"},
					Weight:          w.WasteWeight,
					MaxContribution: w.WasteCap,
				},
			},
		},
		{
			Name: esg.PillarSocial,
			Metrics: []Metric{
				&RetentionMetric{
					Path:            []string{"employees", "global", "total"},
					Weight:          w.EmployeesWeight,
					MaxContribution: w.EmployeesCap,
				},
				&RatioMetric{
					MetricKey:       "diversity",
					MetricName:      "Gender diversity",
					Numerators:      [][]string{{"employees", "olympusCorp", "fullTime", "byGender", "women", "total"}},
					Denominator:     []string{"employees", "olympusCorp", "fullTime", "total"},
					Weight:          w.DiversityWeight,
					MaxContribution: w.DiversityCap,
				},
				&RatioMetric{
					MetricKey:        "management",
					MetricName:       "Management positions",
					Numerators:       [][]string{{"employees", "managementRatios", "global", "managementPositions"}},
					FixedDenominator: 100, // the series is a percentage
					Weight:           w.ManagementWeight,
					MaxContribution:  w.ManagementCap,
				},
			},
		},
		{
			Name: esg.PillarGovernance,
			Metrics: []Metric{
				&RatioMetric{
					MetricKey:       "board_composition",
					MetricName:      "Board composition",
					Numerators:      [][]string{{"boardComposition", "outside"}},
					Denominator:     []string{"boardComposition", "total"},
					Weight:          w.BoardCompositionWeight,
					MaxContribution: w.BoardCompositionCap,
				},
				&RatioMetric{
					MetricKey:  "board_diversity",
					MetricName: "Board diversity",
					Numerators: [][]string{
						{"boardComposition", "diversity", "women"},
						{"boardComposition", "diversity", "foreignNationals"},
					},
					Denominator:      []string{"boardComposition", "total"},
					DenominatorScale: 2,
					Weight:           w.BoardDiversityWeight,
					MaxContribution:  w.BoardDiversityCap,
				},
				&PresenceMetric{
					MetricKey:  "compensation",
					MetricName: "Compensation disclosure",
					Items: []PresenceItem{
						{Path: []string{"compensation", "directors"}, Weight: w.CompensationDirectorsShare},
						{Path: []string{"compensation", "executiveOfficers"}, Weight: w.CompensationOfficersShare},
						{Path: []string{"compensation", "auditors"}, Weight: w.CompensationAuditorsShare},
					},
					Weight:          w.CompensationWeight,
					MaxContribution: w.CompensationCap,
				},
			},
		},
	}
}

// NewDefaultEngine builds an engine over the default pillars with w.
func NewDefaultEngine(w Weights) *Engine {
	return NewEngine(DefaultPillars(w)...)
}
