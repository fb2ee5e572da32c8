package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	mdb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFS embed.FS

// RunMigrations applies all pending migrations to the database and returns version info
func RunMigrations(db *DB) (uint, bool, error) {
	var (
		driver mdb.Driver
		err    error
	)

	switch db.Driver {
	case DriverSQLite:
		driver, err = sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	case DriverPostgres:
		driver, err = pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	default:
		return 0, false, fmt.Errorf("unsupported database driver: %s", db.Driver)
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to create %s migration driver: %w", db.Driver, err)
	}

	source, err := iofs.New(migrationFS, "migrations/"+db.Driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.Driver, driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, false, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}
