package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// sqlLedger implements Ledger over database/sql. Queries are written with ?
// placeholders and rebound for drivers that number them.
type sqlLedger struct {
	db       *sql.DB
	name     string
	numbered bool
}

const selectEntry = `SELECT id, organization, period, source, storage_ref, scores, recorded_at FROM reports`

func (l *sqlLedger) q(query string) string {
	if !l.numbered {
		return query
	}
	return rebind(query)
}

// rebind rewrites ? placeholders as $1, $2, ...
func rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l *sqlLedger) Record(ctx context.Context, e *Entry) error {
	if e.Organization == "" {
		return eris.Errorf("%s: organization is required", l.name)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}

	scores, err := json.Marshal(e.Scores)
	if err != nil {
		return eris.Wrapf(err, "%s: marshal scores", l.name)
	}

	_, err = l.db.ExecContext(ctx, l.q(
		`INSERT INTO reports (id, organization, period, source, storage_ref,
		   environmental_score, social_score, governance_score, total_score, scores, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.Organization, e.Period, e.Source, e.StorageRef,
		e.Scores.Environmental.Score, e.Scores.Social.Score, e.Scores.Governance.Score, e.Scores.Total.Score,
		string(scores), e.RecordedAt.UnixNano(),
	)
	if err != nil {
		return eris.Wrapf(err, "%s: insert report %s", l.name, e.ID)
	}
	return nil
}

func (l *sqlLedger) Get(ctx context.Context, id string) (*Entry, error) {
	row := l.db.QueryRowContext(ctx, l.q(selectEntry+` WHERE id = ?`), id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "report %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "%s: get report %s", l.name, id)
	}
	return e, nil
}

func (l *sqlLedger) ListByOrganization(ctx context.Context, org string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		l.q(selectEntry+` WHERE organization = ? ORDER BY recorded_at DESC, id`), org)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: list reports for %s", l.name, org)
	}
	return collect(rows, l.name)
}

func (l *sqlLedger) Ranking(ctx context.Context, q RankingQuery) ([]Ranked, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.Period != "" {
		rows, err = l.db.QueryContext(ctx, l.q(selectEntry+` WHERE period = ?`), q.Period)
	} else {
		rows, err = l.db.QueryContext(ctx, selectEntry)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "%s: ranking query", l.name)
	}
	entries, err := collect(rows, l.name)
	if err != nil {
		return nil, err
	}
	return Rank(entries, q), nil
}

func (l *sqlLedger) Close() error {
	return l.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e      Entry
		scores []byte
		nanos  int64
	)
	if err := s.Scan(&e.ID, &e.Organization, &e.Period, &e.Source, &e.StorageRef, &scores, &nanos); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scores, &e.Scores); err != nil {
		return nil, eris.Wrapf(err, "decode scores of report %s", e.ID)
	}
	e.RecordedAt = time.Unix(0, nanos).UTC()
	return &e, nil
}

func collect(rows *sql.Rows, name string) ([]Entry, error) {
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "%s: scan report", name)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "%s: iterate reports", name)
	}
	return out, nil
}
