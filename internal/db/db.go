package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/vbonduro/itemstore/internal/store"
)

//go:embed migrations
var migrationsFS embed.FS

// Options selects and addresses the backing database.
type Options struct {
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the connection string for mysql and postgres.
	DSN string
}

// Open connects to the configured database, verifies the connection and
// applies pending migrations. The returned dialect matches the driver.
func Open(opts Options) (*sql.DB, store.Dialect, error) {
	dialect, err := store.ParseDialect(opts.Driver)
	if err != nil {
		return nil, "", err
	}

	db, err := connect(dialect, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db, dialect); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, "", fmt.Errorf("failed to run migrations: %w (also failed to close db: %v)", err, cerr)
		}
		return nil, "", fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, dialect, nil
}

var testDBSeq atomic.Int64

// OpenForTesting returns a migrated in-memory SQLite database private to the
// caller.
func OpenForTesting() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:itemstore-test-%d?mode=memory&cache=shared&_pragma=case_sensitive_like(1)", testDBSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// The in-memory database lives as long as its single connection.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db, store.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func connect(dialect store.Dialect, opts Options) (*sql.DB, error) {
	switch dialect {
	case store.DialectMySQL:
		cfg, err := mysqlConfig(opts.DSN)
		if err != nil {
			return nil, err
		}
		connector, err := mysqldriver.NewConnector(cfg)
		if err != nil {
			return nil, err
		}
		return pooled(sql.OpenDB(connector)), nil

	case store.DialectPostgres:
		connector, err := pq.NewConnector(opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres dsn: %w", err)
		}
		return pooled(sql.OpenDB(connector)), nil

	default:
		dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=case_sensitive_like(1)", opts.Path)
		return sql.Open("sqlite", dsn)
	}
}

// mysqlConfig parses dsn for application connections. Multi-statement
// queries stay disabled; every migration file holds a single statement.
func mysqlConfig(dsn string) (*mysqldriver.Config, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.MultiStatements = false
	return cfg, nil
}

func pooled(db *sql.DB) *sql.DB {
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(10)
	return db
}

func runMigrations(db *sql.DB, dialect store.Dialect) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}
	defer func() { _ = src.Close() }()

	var driver database.Driver
	switch dialect {
	case store.DialectMySQL:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case store.DialectPostgres:
		driver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	default:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// The migrator is not closed: closing it would close db as well.
	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
