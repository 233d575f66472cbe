package esg_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esgscope/esgscope/pkg/esg"
)

func TestNormalizeUnrelatedInputYieldsTemplate(t *testing.T) {
	doc := esg.Normalize(map[string]any{"foo": "bar"})

	assert.Nil(t, doc.Lookup("foo"))
	for _, p := range esg.Pillars {
		n := doc.Lookup(p)
		require.NotNil(t, n, p)
		assert.Equal(t, esg.KindGroup, n.Kind())
	}

	leaves := 0
	doc.Root.Walk(func(path string, s esg.MetricSeries) {
		leaves++
		assert.True(t, s.IsEmpty(), path)
		assert.Empty(t, s.Years, path)
		assert.Equal(t, "", s.Unit, path)
	})
	assert.Greater(t, leaves, 50)

	assert.Equal(t, "", doc.Lookup("governance", "metadata", "transitionNote").(*esg.Value).Raw)
	assert.Equal(t, []any{}, doc.Lookup("governance", "metadata", "references").(*esg.Value).Raw)
}

func TestNormalizeMergesKnownLeaves(t *testing.T) {
	raw := map[string]any{
		"environmental": map[string]any{
			"energy": map[string]any{
				"total": map[string]any{
					"years":  []any{2019.0, 2020.0},
					"values": []any{1000.0, "n/a"},
					"unit":   "MWh",
					"notes":  "dropped on the merge path",
				},
				"bogus": map[string]any{"years": []any{2020}},
			},
			"water": "not a group",
		},
		"social": nil,
	}

	doc := esg.Normalize(raw)

	s := doc.Series("environmental", "energy", "total")
	assert.Equal(t, []int{2019, 2020}, s.Years)
	require.Len(t, s.Values, 2)
	assert.Equal(t, 1000.0, s.Values[0])
	assert.True(t, math.IsNaN(s.Values[1]))
	assert.Equal(t, "MWh", s.Unit)
	assert.Nil(t, s.Extra)

	assert.Nil(t, doc.Lookup("environmental", "energy", "bogus"))

	// A non-map where a group is expected keeps the template.
	assert.Equal(t, esg.KindGroup, doc.Lookup("environmental", "water").Kind())
	assert.True(t, doc.Series("environmental", "water", "consumption", "total").IsEmpty())
	assert.Equal(t, esg.KindGroup, doc.Lookup("social").Kind())
}

func TestNormalizeCarriesMismatchedLengths(t *testing.T) {
	raw := map[string]any{
		"governance": map[string]any{
			"boardComposition": map[string]any{
				"total": map[string]any{"years": []any{2021, 2022, 2023}, "values": []any{10}},
			},
		},
	}

	doc := esg.Normalize(raw)
	s := doc.Series("governance", "boardComposition", "total")
	assert.Equal(t, []int{2021, 2022, 2023}, s.Years)
	assert.Equal(t, []float64{10}, s.Values)
	assert.False(t, s.Consistent())

	issues := doc.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, "governance.boardComposition.total", issues[0].Path)
}

func TestNormalizeCopiesValueNodesWhole(t *testing.T) {
	refs := []any{"https://example.com/report.pdf", map[string]any{"page": 12}}
	raw := map[string]any{
		"governance": map[string]any{
			"metadata": map[string]any{
				"transitionNote": "Board restructured in 2022",
				"references":     refs,
			},
		},
	}

	doc := esg.Normalize(raw)
	assert.Equal(t, "Board restructured in 2022", doc.Lookup("governance", "metadata", "transitionNote").(*esg.Value).Raw)
	assert.Equal(t, refs, doc.Lookup("governance", "metadata", "references").(*esg.Value).Raw)

	// The document owns its copy.
	refs[1].(map[string]any)["page"] = 99
	got := doc.Lookup("governance", "metadata", "references").(*esg.Value).Raw.([]any)
	assert.Equal(t, 12, got[1].(map[string]any)["page"])
}

func TestTryAdopt(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		ok   bool
	}{
		{"all pillars", map[string]any{"environmental": map[string]any{}, "social": map[string]any{}, "governance": map[string]any{}}, true},
		{"pillar is not a group", map[string]any{"environmental": 1, "social": map[string]any{}, "governance": map[string]any{}}, true},
		{"missing pillar", map[string]any{"environmental": map[string]any{}, "social": map[string]any{}}, false},
		{"null pillar", map[string]any{"environmental": map[string]any{}, "social": nil, "governance": map[string]any{}}, false},
		{"empty", map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := esg.TryAdopt(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.NotNil(t, doc)
			} else {
				assert.Nil(t, doc)
			}
		})
	}
}

func TestAdoptKeepsUnknownKeysAndDropsScores(t *testing.T) {
	raw := map[string]any{
		"environmental": map[string]any{
			"energy": map[string]any{
				"total": map[string]any{"years": []any{2022}, "values": []any{5}, "unit": "GJ", "notes": "estimated"},
			},
			"custom": map[string]any{"years": []any{2023}, "values": []any{1}},
		},
		"social":     map[string]any{},
		"governance": "pending",
		"company":    "Acme",
		"scores":     map[string]any{"total": 1900},
	}

	doc := esg.Normalize(raw)

	assert.Nil(t, doc.Scores)
	assert.Nil(t, doc.Lookup("scores"))
	assert.Equal(t, "Acme", doc.Lookup("company").(*esg.Value).Raw)
	assert.Equal(t, []float64{1}, doc.Series("environmental", "custom").Values)

	total := doc.Series("environmental", "energy", "total")
	assert.Equal(t, "GJ", total.Unit)
	assert.Equal(t, "estimated", total.Extra["notes"])

	// Adopted documents are not completed against the template.
	assert.Nil(t, doc.Lookup("environmental", "water"))

	issues := doc.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, esg.Issue{Path: "governance", Problem: "pillar is not a group"}, issues[0])
}

func TestNormalizeIsIdempotentOnItsOwnOutput(t *testing.T) {
	raw := map[string]any{
		"environmental": map[string]any{
			"energy": map[string]any{"total": map[string]any{"years": []any{2019, 2023}, "values": []any{1000, 800}, "unit": "MWh"}},
		},
		"governance": map[string]any{
			"metadata": map[string]any{"references": []any{"a", "b"}},
		},
	}

	first := esg.Normalize(raw)
	second := esg.Normalize(first.Map())
	assert.Equal(t, first.Map(), second.Map())

	// Through JSON as well.
	data, err := json.Marshal(first)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	third := esg.Normalize(decoded)
	assert.Equal(t, first.Series("environmental", "energy", "total"), third.Series("environmental", "energy", "total"))
}

func TestTemplateIsFreshEachCall(t *testing.T) {
	a := esg.Template()
	b := esg.Template()

	leaf := a.Lookup("environmental", "energy", "total").(*esg.Leaf)
	leaf.Series.Values = append(leaf.Series.Values, 1)

	assert.True(t, b.Series("environmental", "energy", "total").IsEmpty())
	assert.True(t, esg.Template().Series("environmental", "energy", "total").IsEmpty())
}

func TestDocumentCloneIsDeep(t *testing.T) {
	doc := esg.Normalize(map[string]any{
		"social": map[string]any{
			"employees": map[string]any{"global": map[string]any{"total": map[string]any{"years": []any{2022}, "values": []any{100}}}},
		},
	})
	doc.Scores = &esg.Scores{Total: esg.PillarScore{Score: 10, Grade: esg.GradeC, Level: esg.LevelLow}}

	c := doc.Clone()
	c.Root.Lookup("social", "employees", "global", "total").(*esg.Leaf).Series.Values[0] = 5
	c.Scores.Total.Score = 20

	assert.Equal(t, []float64{100}, doc.Series("social", "employees", "global", "total").Values)
	assert.Equal(t, 10, doc.Scores.Total.Score)
}

func TestDocumentJSONRoundTripKeepsScores(t *testing.T) {
	doc := esg.NewDocument()
	doc.Scores = &esg.Scores{
		Environmental: esg.PillarScore{Score: 20, Grade: esg.GradeC, Level: esg.LevelLow},
		Social:        esg.PillarScore{Score: 0, Grade: esg.GradeNA, Level: esg.LevelNA},
		Governance:    esg.PillarScore{Score: 210, Grade: esg.GradeC, Level: esg.LevelLow},
		Total:         esg.PillarScore{Score: 230, Grade: esg.GradeC, Level: esg.LevelLow},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	scores := flat["scores"].(map[string]any)
	assert.Equal(t, 230.0, scores["total"])
	assert.Equal(t, 230.0, scores["total_score"])
	assert.Equal(t, "N/A", scores["social_grade"])
	assert.Equal(t, "Low", scores["environment_level"])

	var back esg.Document
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Scores)
	assert.Equal(t, *doc.Scores, *back.Scores)
}

func TestSeriesJSONEncodesNaNAsNull(t *testing.T) {
	s := esg.MetricSeries{Years: []int{2022, 2023}, Values: []float64{1, math.NaN()}, Unit: "t"}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"years":[2022,2023],"values":[1,null],"unit":"t"}`, string(data))

	var back esg.MetricSeries
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []int{2022, 2023}, back.Years)
	assert.True(t, math.IsNaN(back.Values[1]))
}
