// Package platform holds database plumbing shared by the daemon's stores.
package platform

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rotisserie/eris"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// AutoMigrate applies every pending ledger migration to a Postgres database.
func AutoMigrate(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return eris.Wrap(err, "platform: create migration source")
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "esgscope_migrations"})
	if err != nil {
		return eris.Wrap(err, "platform: create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return eris.Wrap(err, "platform: create migrator")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return eris.Wrap(err, "platform: run migrations")
	}

	return nil
}

// Migrations lists the embedded migration file names in order.
func Migrations() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, eris.Wrap(err, "platform: read migrations")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
