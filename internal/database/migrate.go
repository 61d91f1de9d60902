// migrate.go handles database migration using golang-migrate.
//
// Migrations are SQL files in the migrations/ directory, embedded into the
// binary. Each migration has an "up" (apply) and "down" (rollback) file. The
// migrate library tracks which migrations have been applied in a
// schema_migrations table.
package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending database migrations.
// It reports the resulting schema version and whether anything was applied.
func (db *DB) RunMigrations() (version uint, applied bool, err error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	// Create a postgres driver instance for golang-migrate
	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, false, fmt.Errorf("migration failed: %w", err)
	}
	applied = err == nil

	version, _, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return 0, applied, fmt.Errorf("read migration version: %w", verr)
	}
	return version, applied, nil
}
