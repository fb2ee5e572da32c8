package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps the connection pool together with the dialect it speaks,
// so migrations can pick the matching schema.
type DB struct {
	*sql.DB
	Driver string
}

func Open(driver, dsn string) (*DB, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite"
		dsn = withSQLitePragmas(dsn)
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// Writers share one connection so concurrent source tasks queue
		// instead of failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Driver: driver}, nil
}

// withSQLitePragmas applies per-connection pragmas through the DSN so every
// pooled connection enforces foreign keys and waits on locks.
func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
