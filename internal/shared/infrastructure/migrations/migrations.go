// Package migrations applies the embedded schema to SQLite and PostgreSQL
// databases. Applied files are recorded in schema_migrations so each runs
// once.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL database/sql driver

	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationFS embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version     TEXT PRIMARY KEY,
    applied_at  TEXT NOT NULL
)`

// Runner applies the migrations of one dialect.
type Runner struct {
	db     *sql.DB
	driver database.Driver
	logger *slog.Logger
}

// NewRunner creates a runner for db.
func NewRunner(db *sql.DB, driver database.Driver, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, driver: driver, logger: logger}
}

// RunSQLiteMigrations applies the SQLite schema.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	_, err := NewRunner(db, database.DriverSQLite, nil).Up(ctx)
	return err
}

// RunPostgresMigrations applies the PostgreSQL schema.
func RunPostgresMigrations(ctx context.Context, db *sql.DB) error {
	_, err := NewRunner(db, database.DriverPostgres, nil).Up(ctx)
	return err
}

// OpenPostgres opens a database/sql handle for running migrations against
// url. Application queries go through the pgx pool instead.
func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// Up applies every pending migration in file name order and returns the
// versions it applied.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	files, err := r.files()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, file := range files {
		version := strings.TrimSuffix(file, ".up.sql")
		if applied[version] {
			continue
		}
		if err := r.apply(ctx, file, version); err != nil {
			return ran, err
		}
		r.logger.Info("migration applied", "driver", r.driver, "version", version)
		ran = append(ran, version)
	}
	return ran, nil
}

func (r *Runner) files() ([]string, error) {
	dir := string(r.driver)
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %s: %w", r.driver, err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (r *Runner) apply(ctx context.Context, file, version string) error {
	body, err := fs.ReadFile(migrationFS, string(r.driver)+"/"+file)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", file, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", file, err)
	}
	record := database.Rebind(r.driver, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
	if _, err := tx.ExecContext(ctx, record, version, database.FormatTime(time.Now())); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", file, err)
	}
	return tx.Commit()
}
