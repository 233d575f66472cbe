package surface_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/scoring"
	"github.com/esgscope/esgscope/pkg/surface"
)

const socialError = "employees: series social.employees.global.total: non-finite value"

func sampleReport() *surface.Report {
	result := &scoring.Result{
		Pillars: []scoring.PillarResult{
			{
				Pillar: esg.PillarEnvironmental,
				Score:  esg.PillarScore{Score: 20, Grade: esg.GradeC, Level: esg.LevelLow},
				Raw:    20,
				Cap:    500,
				Breakdown: []scoring.MetricResult{
					{
						Key:          "energy",
						Name:         "Energy",
						Cap:          150,
						Contribution: 20,
						Severity:     scoring.SeverityMedium,
						Evidence: []scoring.EvidenceItem{
							{Type: scoring.EvidenceTrend, Summary: "energy use down 20.0% over 2 reported years", Path: "environmental.energy.total", Value: 0.2},
							{Type: scoring.EvidenceMissing, Summary: "environmental.energy.breakdown.renewable has no data", Path: "environmental.energy.breakdown.renewable"},
						},
					},
					{
						Key:          "emissions",
						Name:         "Emissions",
						Cap:          150,
						Contribution: 150,
						Severity:     scoring.SeverityInfo,
						Evidence: []scoring.EvidenceItem{
							{Type: scoring.EvidenceTrend, Summary: "environmental.emissions.total 500 -> 100 (down 80.0%)", Path: "environmental.emissions.total", Value: 0.8},
						},
					},
				},
			},
			{
				Pillar: esg.PillarSocial,
				Score:  esg.PillarScore{Score: 0, Grade: esg.GradeNA, Level: esg.LevelNA},
				Cap:    700,
				Error:  socialError,
			},
			{
				Pillar: esg.PillarGovernance,
				Score:  esg.PillarScore{Score: 210, Grade: esg.GradeC, Level: esg.LevelLow},
				Raw:    210,
				Cap:    700,
				Breakdown: []scoring.MetricResult{
					{
						Key:          "board_composition",
						Name:         "Board composition",
						Cap:          300,
						Contribution: 210,
						Severity:     scoring.SeverityLow,
						Evidence: []scoring.EvidenceItem{
							{Type: scoring.EvidenceRatio, Summary: "Board composition ratio 7 / 10 = 0.700", Path: "governance.boardComposition.outside", Value: 0.7},
						},
					},
					{
						Key:          "board_diversity",
						Name:         "Board diversity",
						Cap:          200,
						Contribution: 0,
						Severity:     scoring.SeverityHigh,
						Evidence: []scoring.EvidenceItem{
							{Type: scoring.EvidenceMissing, Summary: "governance.boardComposition.diversity.women has no data", Path: "governance.boardComposition.diversity.women"},
							{Type: scoring.EvidenceMissing, Summary: "governance.boardComposition.diversity.foreignNationals has no data", Path: "governance.boardComposition.diversity.foreignNationals"},
						},
					},
				},
			},
		},
		Total: esg.PillarScore{Score: 230, Grade: esg.GradeC, Level: esg.LevelLow},
		Hotspots: []scoring.Hotspot{
			{
				Path:              "governance.boardComposition.total",
				Reason:            "Missing for 2 components: [board_composition board_diversity]",
				ScoreContribution: 500,
				MetricKeys:        []string{"board_composition", "board_diversity"},
			},
		},
		SuggestedActions: []scoring.SuggestedAction{
			{
				Title:       "Repair social data",
				Description: "The social pillar could not be scored: " + socialError + ". Check for non-numeric values.",
				Targets:     []string{"social"},
				Confidence:  0.9,
			},
		},
	}

	return &surface.Report{
		Source: "acme-2023.json",
		Scores: result.Scores(),
		Result: result,
		Issues: []esg.Issue{{Path: "social.employees.global.total", Problem: "non-numeric values"}},
	}
}

func TestTerminalRenderer_Golden(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	require.NoError(t, (&surface.TerminalRenderer{}).Render(&buf, sampleReport()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "terminal_report", buf.Bytes())
}

func TestTerminalRenderer_AllAtCap(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	result := &scoring.Result{
		Pillars: []scoring.PillarResult{{
			Pillar: esg.PillarEnvironmental,
			Score:  esg.PillarScore{Score: 150, Grade: esg.GradeC, Level: esg.LevelLow},
			Cap:    150,
			Breakdown: []scoring.MetricResult{
				{Key: "energy", Name: "Energy", Cap: 150, Contribution: 150},
			},
		}},
		Total: esg.PillarScore{Score: 150, Grade: esg.GradeC, Level: esg.LevelLow},
	}

	var buf bytes.Buffer
	require.NoError(t, (&surface.TerminalRenderer{}).Render(&buf, &surface.Report{Result: result}))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "esgscope\n"))
	assert.Contains(t, output, "Every component is at its cap.")
	assert.NotContains(t, output, "Hotspots:")
	assert.NotContains(t, output, "Suggested actions:")
	assert.NotContains(t, output, "Data issues:")
}

func TestTerminalRenderer_Colors(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")

	var buf bytes.Buffer
	require.NoError(t, (&surface.TerminalRenderer{}).Render(&buf, sampleReport()))
	assert.Contains(t, buf.String(), "\033[31mC   (Low)\033[0m")
}

func TestTerminalRenderer_NilResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, (&surface.TerminalRenderer{}).Render(&buf, &surface.Report{}))
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&surface.JSONRenderer{}).Render(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "acme-2023.json", decoded["source"])
	scores := decoded["scores"].(map[string]any)
	assert.Equal(t, 230.0, scores["total_score"])
	assert.Equal(t, "N/A", scores["social_grade"])

	result := decoded["result"].(map[string]any)
	pillars := result["pillars"].([]any)
	require.Len(t, pillars, 3)
	assert.Equal(t, socialError, pillars[1].(map[string]any)["error"])
}

func TestForFormat(t *testing.T) {
	r, ok := surface.ForFormat("json")
	assert.True(t, ok)
	assert.IsType(t, &surface.JSONRenderer{}, r)

	r, ok = surface.ForFormat("text")
	assert.True(t, ok)
	assert.IsType(t, &surface.TerminalRenderer{}, r)

	_, ok = surface.ForFormat("pdf")
	assert.False(t, ok)
}

func TestNewReportFromScoredDocument(t *testing.T) {
	doc := esg.Normalize(map[string]any{
		"environmental": map[string]any{
			"energy": map[string]any{"total": map[string]any{"years": []any{2019, 2023}, "values": []any{1000, "x"}}},
		},
	})
	result := scoring.Default().Score(doc)

	rep := surface.NewReport("inline", doc, result)
	assert.False(t, rep.Scores.Environmental.Degraded())
	assert.Equal(t, esg.GradeC, rep.Scores.Environmental.Grade)
	require.Len(t, result.InvalidComponents(), 1)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, "environmental.energy.total", rep.Issues[0].Path)
}
