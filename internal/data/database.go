package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studio-site/internal/config"
	"studio-site/migrations"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// ErrNotFound is returned when a lookup or a targeted write matches no row.
var ErrNotFound = errors.New("record not found")

// NewDB creates a new database connection pool for the configured driver.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	dsn, err := normalizeDSN(cfg)
	if err != nil {
		return nil, err
	}
	// sqlx.Connect opens a connection and pings it to verify it's alive.
	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// SQLite has a single writer.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// normalizeDSN makes sure MySQL connections scan DATETIME columns into
// time.Time and report matched rather than changed rows on UPDATE.
func normalizeDSN(cfg config.DBConfig) (string, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return cfg.DSN, nil
	case DriverMySQL:
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		mc.ParseTime = true
		mc.ClientFoundRows = true
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// ApplyMigrations runs all up migrations for the configured dialect from
// the embedded migration files.
func ApplyMigrations(cfg config.DBConfig) error {
	src, err := iofs.New(migrations.FS, migrations.Dir(cfg.Driver))
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	var databaseURL string
	switch cfg.Driver {
	case DriverMySQL:
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return fmt.Errorf("invalid mysql dsn: %w", err)
		}
		// Migration files hold several statements each.
		mc.MultiStatements = true
		databaseURL = "mysql://" + mc.FormatDSN()
	case DriverSQLite:
		databaseURL = "sqlite3://" + cfg.DSN
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// getOne runs a single-row query and maps sql.ErrNoRows to ErrNotFound.
func getOne(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	if err := db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// insert runs a named INSERT and returns the generated ID.
func insert(ctx context.Context, db *sqlx.DB, query string, arg interface{}) (int64, error) {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// namedExecOne runs a named statement that must touch at least one row.
func namedExecOne(ctx context.Context, db *sqlx.DB, query string, arg interface{}) error {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// execOne runs a positional statement that must touch at least one row.
func execOne(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func requireRows(res sql.Result) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
