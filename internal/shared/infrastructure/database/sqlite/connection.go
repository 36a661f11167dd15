package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

func init() {
	database.Register(database.DriverSQLite, NewConnection)
}

// NewConnection opens the SQLite database at cfg.SQLitePath, creating the
// parent directory when needed.
func NewConnection(ctx context.Context, cfg database.Config) (database.Connection, error) {
	return Open(ctx, cfg.SQLitePath)
}

// Open opens a SQLite database. An empty path selects the default location.
func Open(ctx context.Context, path string) (*database.SQLConnection, error) {
	if path == "" {
		path = database.DefaultSQLitePath()
	}

	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != MemoryPath {
		if err := database.EnsureDirectory(path); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// WAL has no effect on in-memory databases.
		pragmas = "_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&" + pragmas
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&" + pragmas
	} else {
		dsn += "?" + pragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Single writer. An in-memory database also lives and dies with its
	// only connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return database.NewSQLConnection(db, database.DriverSQLite), nil
}
