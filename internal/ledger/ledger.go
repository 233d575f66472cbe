// Package ledger keeps the score history of ingested reports and ranks
// organizations against their peers.
package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/pkg/config"
	"github.com/esgscope/esgscope/pkg/esg"
)

// ErrNotFound is returned when a report id is unknown.
var ErrNotFound = eris.New("ledger: not found")

// Entry is one recorded report.
type Entry struct {
	ID           string     `json:"id"`
	Organization string     `json:"organization"`
	Period       string     `json:"period,omitempty"`
	Source       string     `json:"source,omitempty"`
	StorageRef   string     `json:"storage_ref,omitempty"`
	Scores       esg.Scores `json:"scores"`
	RecordedAt   time.Time  `json:"recorded_at"`
}

// RankingQuery selects which entries compete in a ranking.
type RankingQuery struct {
	Pillar string // environmental, social, governance; anything else ranks by total
	Period string // empty ranks each organization's latest report of any period
	Limit  int    // 0 means no limit
}

// Ranked is one row of a peer ranking.
type Ranked struct {
	Rank  int   `json:"rank"`
	Score int   `json:"score"`
	Entry Entry `json:"entry"`
}

// Ledger records scored reports.
type Ledger interface {
	Record(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	ListByOrganization(ctx context.Context, org string) ([]Entry, error)
	Ranking(ctx context.Context, q RankingQuery) ([]Ranked, error)
	Close() error
}

// Open returns the ledger selected by cfg.Driver.
func Open(ctx context.Context, cfg config.LedgerConfig) (Ledger, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(ctx, cfg.DSN)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN)
	default:
		return nil, eris.Errorf("ledger: unknown driver %q", cfg.Driver)
	}
}

// Rank keeps the latest entry per organization and orders them by the
// queried score, best first. Equal scores share a rank and the next rank
// skips accordingly (1, 1, 3).
func Rank(entries []Entry, q RankingQuery) []Ranked {
	latest := make(map[string]Entry)
	for _, e := range entries {
		if q.Period != "" && e.Period != q.Period {
			continue
		}
		cur, ok := latest[e.Organization]
		if !ok || e.RecordedAt.After(cur.RecordedAt) {
			latest[e.Organization] = e
		}
	}

	out := make([]Ranked, 0, len(latest))
	for _, e := range latest {
		out = append(out, Ranked{Score: e.Scores.ByPillar(q.Pillar).Score, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Entry.Organization < out[j].Entry.Organization
	})

	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
