package ledger

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/internal/platform"
)

// NewPostgres connects to a Postgres ledger and runs pending migrations.
func NewPostgres(ctx context.Context, dsn string) (Ledger, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: open")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	if err := platform.AutoMigrate(db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgres: migrate")
	}
	return &sqlLedger{db: db, name: "postgres", numbered: true}, nil
}
