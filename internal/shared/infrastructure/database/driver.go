package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Driver names a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string { return string(d) }

// DetectDriver guesses the backend from a connection string. An empty string
// means local SQLite; anything unrecognised is assumed to be PostgreSQL.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case hasAnyPrefix(url, "postgres://", "postgresql://"):
		return DriverPostgres
	case hasAnyPrefix(url, "sqlite://", "file:"), hasAnySuffix(url, ".db", ".sqlite", ".sqlite3"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// IsNoRows reports a lookup that matched nothing on either backend.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
