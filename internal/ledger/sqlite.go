package ledger

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id                  TEXT PRIMARY KEY,
	organization        TEXT NOT NULL,
	period              TEXT NOT NULL DEFAULT '',
	source              TEXT NOT NULL DEFAULT '',
	storage_ref         TEXT NOT NULL DEFAULT '',
	environmental_score INTEGER NOT NULL,
	social_score        INTEGER NOT NULL,
	governance_score    INTEGER NOT NULL,
	total_score         INTEGER NOT NULL,
	scores              TEXT NOT NULL,
	recorded_at         INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_organization ON reports(organization, recorded_at);
CREATE INDEX IF NOT EXISTS idx_reports_period ON reports(period);
`

// NewSQLite opens (creating if needed) a SQLite ledger at dsn in WAL mode
// and applies the schema.
func NewSQLite(ctx context.Context, dsn string) (Ledger, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, eris.Wrap(err, "sqlite: create directory")
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}

	return &sqlLedger{db: db, name: "sqlite"}, nil
}
