package esg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esgscope/esgscope/pkg/esg"
)

func series(years []any, values []any) map[string]any {
	return map[string]any{"years": years, "values": values}
}

func TestComputeDelta(t *testing.T) {
	base := esg.Normalize(map[string]any{
		"environmental": map[string]any{
			"energy":    map[string]any{"total": series([]any{2022}, []any{1000})},
			"emissions": map[string]any{"total": series([]any{2022}, []any{500})},
			"water":     map[string]any{"consumption": map[string]any{"total": series([]any{2022}, []any{40})}},
		},
	})
	head := esg.Normalize(map[string]any{
		"environmental": map[string]any{
			"energy":    map[string]any{"total": series([]any{2022, 2023}, []any{1000, 900})},
			"emissions": map[string]any{"total": series([]any{2022}, []any{500})},
		},
		"governance": map[string]any{
			"boardComposition": map[string]any{"total": series([]any{2023}, []any{10})},
		},
	})

	delta := esg.ComputeDelta(base, head)

	assert.NotEmpty(t, delta.ID)
	assert.Nil(t, delta.Scores)

	require.Len(t, delta.Added, 1)
	assert.Equal(t, "governance.boardComposition.total", delta.Added[0].Path)
	assert.Equal(t, 10.0, delta.Added[0].Head)
	assert.False(t, delta.Added[0].HasBase)

	require.Len(t, delta.Removed, 1)
	assert.Equal(t, "environmental.water.consumption.total", delta.Removed[0].Path)

	require.Len(t, delta.Changed, 1)
	c := delta.Changed[0]
	assert.Equal(t, "environmental.energy.total", c.Path)
	assert.Equal(t, 1000.0, c.Base)
	assert.Equal(t, 900.0, c.Head)
	assert.Equal(t, 2022, c.BaseYear)
	assert.Equal(t, 2023, c.HeadYear)

	assert.Equal(t, esg.DeltaStats{AddedCount: 1, RemovedCount: 1, ChangedCount: 1}, delta.Stats)
}

func TestComputeDeltaScores(t *testing.T) {
	base := esg.NewDocument()
	base.Scores = &esg.Scores{
		Environmental: esg.PillarScore{Score: 20},
		Social:        esg.PillarScore{Score: 300},
		Total:         esg.PillarScore{Score: 320},
	}
	head := esg.NewDocument()
	head.Scores = &esg.Scores{
		Environmental: esg.PillarScore{Score: 50},
		Social:        esg.PillarScore{Score: 250},
		Governance:    esg.PillarScore{Score: 210},
		Total:         esg.PillarScore{Score: 510},
	}

	delta := esg.ComputeDelta(base, head)
	require.NotNil(t, delta.Scores)
	assert.Equal(t, esg.ScoreDelta{Environmental: 30, Social: -50, Governance: 210, Total: 190}, *delta.Scores)
	assert.Empty(t, delta.Added)
	assert.Empty(t, delta.Removed)
	assert.Empty(t, delta.Changed)
}

func TestComputeDeltaNilDocuments(t *testing.T) {
	delta := esg.ComputeDelta(nil, esg.NewDocument())
	assert.Empty(t, delta.Added)
	assert.Nil(t, delta.Scores)
}
