package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esgscope/esgscope/pkg/config"
	"github.com/esgscope/esgscope/pkg/esg"
)

func newTestLedger(t *testing.T) Ledger {
	t.Helper()
	l, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() }) //nolint:errcheck
	return l
}

func scores(env, soc, gov int) esg.Scores {
	return esg.Scores{
		Environmental: esg.PillarScore{Score: env, Grade: esg.GradeC, Level: esg.LevelLow},
		Social:        esg.PillarScore{Score: soc, Grade: esg.GradeC, Level: esg.LevelLow},
		Governance:    esg.PillarScore{Score: gov, Grade: esg.GradeC, Level: esg.LevelLow},
		Total:         esg.PillarScore{Score: env + soc + gov, Grade: esg.GradeB, Level: esg.LevelLow},
	}
}

func at(day int) time.Time {
	return time.Date(2024, time.March, day, 12, 0, 0, 0, time.UTC)
}

func TestSQLite_RecordAndGet(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	e := &Entry{
		Organization: "acme",
		Period:       "2023",
		Source:       "acme-2023.json",
		StorageRef:   "acme/documents/x.json",
		Scores:       scores(20, 300, 210),
	}
	require.NoError(t, l.Record(ctx, e))
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.RecordedAt.IsZero())

	got, err := l.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Organization)
	assert.Equal(t, "2023", got.Period)
	assert.Equal(t, "acme/documents/x.json", got.StorageRef)
	assert.Equal(t, e.Scores, got.Scores)
	assert.True(t, e.RecordedAt.Equal(got.RecordedAt))
}

func TestSQLite_GetNotFound(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_RecordRequiresOrganization(t *testing.T) {
	l := newTestLedger(t)
	assert.Error(t, l.Record(context.Background(), &Entry{}))
}

func TestSQLite_ListByOrganization(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, &Entry{Organization: "acme", Period: "2022", Scores: scores(10, 0, 0), RecordedAt: at(1)}))
	require.NoError(t, l.Record(ctx, &Entry{Organization: "acme", Period: "2023", Scores: scores(20, 0, 0), RecordedAt: at(2)}))
	require.NoError(t, l.Record(ctx, &Entry{Organization: "globex", Period: "2023", Scores: scores(30, 0, 0), RecordedAt: at(3)}))

	list, err := l.ListByOrganization(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2023", list[0].Period, "newest first")
	assert.Equal(t, "2022", list[1].Period)

	none, err := l.ListByOrganization(ctx, "initech")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_Ranking(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	for _, e := range []*Entry{
		{Organization: "acme", Period: "2022", Scores: scores(500, 0, 0), RecordedAt: at(1)},
		{Organization: "acme", Period: "2023", Scores: scores(100, 100, 100), RecordedAt: at(5)},
		{Organization: "globex", Period: "2023", Scores: scores(0, 400, 0), RecordedAt: at(2)},
		{Organization: "initech", Period: "2023", Scores: scores(0, 0, 300), RecordedAt: at(3)},
		{Organization: "hooli", Period: "2022", Scores: scores(50, 0, 0), RecordedAt: at(4)},
	} {
		require.NoError(t, l.Record(ctx, e))
	}

	t.Run("total over latest reports", func(t *testing.T) {
		ranked, err := l.Ranking(ctx, RankingQuery{})
		require.NoError(t, err)
		require.Len(t, ranked, 4)

		assert.Equal(t, "globex", ranked[0].Entry.Organization)
		assert.Equal(t, 400, ranked[0].Score)
		assert.Equal(t, 1, ranked[0].Rank)
		// acme's latest (2023) total is 300, tied with initech.
		assert.Equal(t, "acme", ranked[1].Entry.Organization)
		assert.Equal(t, 2, ranked[1].Rank)
		assert.Equal(t, "initech", ranked[2].Entry.Organization)
		assert.Equal(t, 2, ranked[2].Rank)
		assert.Equal(t, "hooli", ranked[3].Entry.Organization)
		assert.Equal(t, 4, ranked[3].Rank)
	})

	t.Run("pillar and period", func(t *testing.T) {
		ranked, err := l.Ranking(ctx, RankingQuery{Pillar: esg.PillarEnvironmental, Period: "2022"})
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "acme", ranked[0].Entry.Organization)
		assert.Equal(t, 500, ranked[0].Score)
		assert.Equal(t, "hooli", ranked[1].Entry.Organization)
	})

	t.Run("limit", func(t *testing.T) {
		ranked, err := l.Ranking(ctx, RankingQuery{Limit: 1})
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, "globex", ranked[0].Entry.Organization)
	})
}

func TestRebind(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"WHERE id = ?", "WHERE id = $1"},
		{"VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
	}
	for _, tc := range tests {
		if got := rebind(tc.in); got != tc.want {
			t.Errorf("rebind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	l, err := Open(ctx, config.LedgerConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "sub", "l.db")})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = Open(ctx, config.LedgerConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}
