// Package esg defines the canonical sustainability-disclosure data model.
// These types are the shared vocabulary between the normalizer, the scoring
// engine and every consumer of scored documents.
package esg

import (
	"encoding/json"
	"math"
)

// Pillar names. They are also the three top-level keys of a canonical document.
const (
	PillarEnvironmental = "environmental"
	PillarSocial        = "social"
	PillarGovernance    = "governance"
)

// Pillars lists the pillar keys in reporting order.
var Pillars = []string{PillarEnvironmental, PillarSocial, PillarGovernance}

// MetricSeries is a named multi-year metric, the leaf of the canonical schema.
// Years and Values are expected to line up and ascend chronologically, but
// nothing enforces it: input is carried as given (see Consistent).
type MetricSeries struct {
	Years  []int
	Values []float64 // NaN marks a value that was not numeric in the input
	Unit   string
	Extra  map[string]any // side fields such as "notes", kept on the adopt path only
}

// EmptySeries returns a series with no data points.
func EmptySeries() MetricSeries {
	return MetricSeries{Years: []int{}, Values: []float64{}}
}

// Len returns the number of values.
func (s MetricSeries) Len() int { return len(s.Values) }

// IsEmpty reports whether the series holds no values.
func (s MetricSeries) IsEmpty() bool { return len(s.Values) == 0 }

// First returns the earliest value.
func (s MetricSeries) First() (float64, bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	return s.Values[0], true
}

// Last returns the most recent value.
func (s MetricSeries) Last() (float64, bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	return s.Values[len(s.Values)-1], true
}

// LastYear returns the most recent year, or 0 when there are none.
func (s MetricSeries) LastYear() int {
	if len(s.Years) == 0 {
		return 0
	}
	return s.Years[len(s.Years)-1]
}

// Consistent reports whether years and values line up and years strictly ascend.
func (s MetricSeries) Consistent() bool {
	if len(s.Years) != len(s.Values) {
		return false
	}
	for i := 1; i < len(s.Years); i++ {
		if s.Years[i] <= s.Years[i-1] {
			return false
		}
	}
	return true
}

// Finite reports whether every value is a finite number.
func (s MetricSeries) Finite() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s MetricSeries) clone() MetricSeries {
	out := MetricSeries{
		Years:  append(make([]int, 0, len(s.Years)), s.Years...),
		Values: append(make([]float64, 0, len(s.Values)), s.Values...),
		Unit:   s.Unit,
	}
	if len(s.Extra) > 0 {
		out.Extra = copyRaw(s.Extra).(map[string]any)
	}
	return out
}

// raw returns the plain map form used for serialization.
func (s MetricSeries) raw() map[string]any {
	m := make(map[string]any, 3+len(s.Extra))
	for k, v := range s.Extra {
		m[k] = copyRaw(v)
	}
	years := make([]any, len(s.Years))
	for i, y := range s.Years {
		years[i] = y
	}
	values := make([]any, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = nil
			continue
		}
		values[i] = v
	}
	m["years"] = years
	m["values"] = values
	m["unit"] = s.Unit
	return m
}

// MarshalJSON encodes the series; non-finite values become null.
func (s MetricSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.raw())
}

// UnmarshalJSON decodes a series leniently, the same way the normalizer does.
func (s *MetricSeries) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = seriesFromRaw(m, true)
	return nil
}

// Grade is one of nine ordinal letters, or N/A for a pillar that failed to score.
type Grade string

const (
	GradeAAA Grade = "AAA"
	GradeAA  Grade = "AA"
	GradeA   Grade = "A"
	GradeBBB Grade = "BBB"
	GradeBB  Grade = "BB"
	GradeB   Grade = "B"
	GradeCCC Grade = "CCC"
	GradeCC  Grade = "CC"
	GradeC   Grade = "C"
	GradeNA  Grade = "N/A"
)

// Level is the coarse bucket derived from a Grade.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
	LevelNA     Level = "N/A"
)

// PillarScore is one graded score.
type PillarScore struct {
	Score int   `json:"score"`
	Grade Grade `json:"grade"`
	Level Level `json:"level"`
}

// Degraded reports whether the score is the N/A sentinel of a failed pillar.
func (p PillarScore) Degraded() bool { return p.Grade == GradeNA }

// Scores is the block attached to a scored document. It is always recomputed
// as a whole; nothing updates it in place.
type Scores struct {
	Environmental PillarScore
	Social        PillarScore
	Governance    PillarScore
	Total         PillarScore
}

// scoresJSON is the flat wire form: short integer keys plus the long
// score/grade/level triples.
type scoresJSON struct {
	Environmental    int    `json:"environmental"`
	Social           int    `json:"social"`
	Governance       int    `json:"governance"`
	Total            int    `json:"total"`
	EnvironmentScore int    `json:"environment_score"`
	EnvironmentGrade string `json:"environment_grade"`
	EnvironmentLevel string `json:"environment_level"`
	SocialScore      int    `json:"social_score"`
	SocialGrade      string `json:"social_grade"`
	SocialLevel      string `json:"social_level"`
	GovernanceScore  int    `json:"governance_score"`
	GovernanceGrade  string `json:"governance_grade"`
	GovernanceLevel  string `json:"governance_level"`
	TotalScore       int    `json:"total_score"`
	TotalGrade       string `json:"total_grade"`
	TotalLevel       string `json:"total_level"`
}

// MarshalJSON encodes the flat scores block.
func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoresJSON{
		Environmental:    s.Environmental.Score,
		Social:           s.Social.Score,
		Governance:       s.Governance.Score,
		Total:            s.Total.Score,
		EnvironmentScore: s.Environmental.Score,
		EnvironmentGrade: string(s.Environmental.Grade),
		EnvironmentLevel: string(s.Environmental.Level),
		SocialScore:      s.Social.Score,
		SocialGrade:      string(s.Social.Grade),
		SocialLevel:      string(s.Social.Level),
		GovernanceScore:  s.Governance.Score,
		GovernanceGrade:  string(s.Governance.Grade),
		GovernanceLevel:  string(s.Governance.Level),
		TotalScore:       s.Total.Score,
		TotalGrade:       string(s.Total.Grade),
		TotalLevel:       string(s.Total.Level),
	})
}

// UnmarshalJSON decodes the flat scores block.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var w scoresJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Scores{
		Environmental: PillarScore{Score: w.EnvironmentScore, Grade: Grade(w.EnvironmentGrade), Level: Level(w.EnvironmentLevel)},
		Social:        PillarScore{Score: w.SocialScore, Grade: Grade(w.SocialGrade), Level: Level(w.SocialLevel)},
		Governance:    PillarScore{Score: w.GovernanceScore, Grade: Grade(w.GovernanceGrade), Level: Level(w.GovernanceLevel)},
		Total:         PillarScore{Score: w.TotalScore, Grade: Grade(w.TotalGrade), Level: Level(w.TotalLevel)},
	}
	return nil
}

// ByPillar returns the score for a pillar name, or "total".
func (s Scores) ByPillar(name string) PillarScore {
	switch name {
	case PillarEnvironmental:
		return s.Environmental
	case PillarSocial:
		return s.Social
	case PillarGovernance:
		return s.Governance
	default:
		return s.Total
	}
}
