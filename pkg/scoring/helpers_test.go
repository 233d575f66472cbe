package scoring_test

import (
	"math"
	"testing"

	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/scoring"
)

func ser(values ...float64) esg.MetricSeries {
	years := make([]int, len(values))
	for i := range values {
		years[i] = 2019 + i
	}
	return esg.MetricSeries{Years: years, Values: values}
}

func TestReduction(t *testing.T) {
	tests := []struct {
		name string
		s    esg.MetricSeries
		want float64
	}{
		{"drop", ser(1000, 800), 0.2},
		{"flat", ser(500, 500), 0},
		{"growth", ser(500, 700), 0},
		{"single point", ser(1000), 0},
		{"single zero point", ser(0), 0},
		{"empty", esg.EmptySeries(), 0},
		{"zero baseline", ser(0, 0), 0},
		{"negative baseline", ser(-10, -50), 0},
		{"middle ignored", ser(100, 5000, 50), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoring.Reduction(tt.s)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Reduction() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRetention(t *testing.T) {
	tests := []struct {
		name string
		s    esg.MetricSeries
		want float64
	}{
		{"growth", ser(100, 110, 120), 1},
		{"one drop", ser(100, 90, 90), 0.95},
		{"single point", ser(100), 0},
		{"zero previous skipped", ser(0, 100, 50), 0.5},
		{"no qualifying pairs", ser(0, 0, 0), 0},
		{"negative current clamps", ser(100, -300), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoring.Retention(tt.s)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Retention() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRatioZeroDenominator(t *testing.T) {
	if got := scoring.Ratio(5, 0); got != 0 {
		t.Errorf("Ratio(5, 0) = %f, want 0", got)
	}
	if got := scoring.Ratio(0, 0); got != 0 {
		t.Errorf("Ratio(0, 0) = %f, want 0", got)
	}
	if got := scoring.Ratio(7, 10); got != 0.7 {
		t.Errorf("Ratio(7, 10) = %f, want 0.7", got)
	}
}

func TestSumLast(t *testing.T) {
	got := scoring.SumLast(ser(1, 2), esg.EmptySeries(), ser(10))
	if got != 12 {
		t.Errorf("SumLast() = %f, want 12", got)
	}
	if got := scoring.LastValue(esg.EmptySeries()); got != 0 {
		t.Errorf("LastValue(empty) = %f, want 0", got)
	}
}

func TestGradeFromScore(t *testing.T) {
	tests := []struct {
		score float64
		grade esg.Grade
		level esg.Level
	}{
		{1900, esg.GradeAAA, esg.LevelHigh},
		{1500, esg.GradeAAA, esg.LevelHigh},
		{1499, esg.GradeAA, esg.LevelHigh},
		{1400, esg.GradeAA, esg.LevelHigh},
		{1300, esg.GradeA, esg.LevelHigh},
		{1299, esg.GradeBBB, esg.LevelMedium},
		{1100, esg.GradeBB, esg.LevelMedium},
		{1000, esg.GradeB, esg.LevelLow},
		{900, esg.GradeCCC, esg.LevelLow},
		{800, esg.GradeCC, esg.LevelLow},
		{799, esg.GradeC, esg.LevelLow},
		{0, esg.GradeC, esg.LevelLow},
	}
	for _, tt := range tests {
		g := scoring.GradeFromScore(tt.score)
		if g != tt.grade {
			t.Errorf("GradeFromScore(%v) = %s, want %s", tt.score, g, tt.grade)
		}
		if l := scoring.LevelFromGrade(g); l != tt.level {
			t.Errorf("LevelFromGrade(%s) = %s, want %s", g, l, tt.level)
		}
	}

	if l := scoring.LevelFromGrade(esg.GradeNA); l != esg.LevelNA {
		t.Errorf("LevelFromGrade(N/A) = %s, want N/A", l)
	}
	if l := scoring.LevelFromGrade("Z"); l != esg.LevelNA {
		t.Errorf("LevelFromGrade(Z) = %s, want N/A", l)
	}
}
