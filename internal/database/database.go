// Package database manages the SQLite store backing gitsage's persistence.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tildaslashalef/gitsage/internal/config"
	"github.com/tildaslashalef/gitsage/internal/loggy"
	"github.com/tildaslashalef/gitsage/internal/migrations"
)

// ErrNotInitialized is returned when the database has not been opened yet.
var ErrNotInitialized = errors.New("database not initialized")

var (
	db     *sql.DB
	dbLock sync.Mutex
)

// DB returns the open database connection.
func DB() (*sql.DB, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

// InitDB opens the SQLite database described by cfg. Calling it again after
// a successful open is a no-op.
func InitDB(cfg *config.Config) error {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db != nil {
		return nil
	}

	loggy.Info("Initializing database", "path", cfg.Database.Path)

	var err error
	db, err = sql.Open("sqlite3", buildSQLiteDSN(&cfg.Database))
	if err != nil {
		return fmt.Errorf("opening database connection: %w", err)
	}

	db.SetConnMaxLifetime(cfg.Database.ConnMaxLife)
	db.SetMaxOpenConns(1) // SQLite supports only one writer at a time
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		db = nil
		return fmt.Errorf("pinging database: %w", err)
	}

	return nil
}

// CloseDB closes the database connection.
func CloseDB() error {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db == nil {
		return nil
	}

	err := db.Close()
	db = nil
	return err
}

// buildSQLiteDSN builds a SQLite DSN with the mattn driver's pragma
// parameters applied.
func buildSQLiteDSN(cfg *config.DatabaseConfig) string {
	if cfg.Path == ":memory:" || strings.HasPrefix(cfg.Path, "file::memory:") {
		return cfg.Path
	}

	params := url.Values{}
	params.Add("_busy_timeout", strconv.Itoa(cfg.BusyTimeout))
	params.Add("_journal_mode", cfg.JournalMode)
	params.Add("_synchronous", cfg.SynchronousMode)
	if cfg.CacheSize != 0 {
		params.Add("_cache_size", strconv.Itoa(cfg.CacheSize))
	}
	params.Add("_foreign_keys", strconv.FormatBool(cfg.ForeignKeys))
	params.Add("cache", "shared")

	return fmt.Sprintf("%s?%s", cfg.Path, params.Encode())
}

// WithTransaction runs fn inside a transaction, committing on nil error and
// rolling back otherwise. A panic in fn rolls back and re-panics.
func WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if db == nil {
		return ErrNotInitialized
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			loggy.Error("Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// RunMigrations applies all pending embedded migrations and returns how many
// were applied.
func RunMigrations() (int, error) {
	m, err := newMigrator()
	if err != nil {
		return 0, err
	}
	defer m.Close()

	before := currentVersion(m)

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return 0, fmt.Errorf("applying migrations: %w", err)
	}

	after := currentVersion(m)
	applied := int(after) - int(before)
	if applied < 0 {
		applied = 0
	}

	loggy.Info("Database migration complete", "version", after, "applied", applied)
	return applied, nil
}

// RevertMigrations rolls the schema back by the given number of steps.
func RevertMigrations(steps int) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("reverting migrations: %w", err)
	}

	loggy.Info("Database migration reversion complete", "version", currentVersion(m))
	return nil
}

func newMigrator() (*migrate.Migrate, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	src, err := migrations.GetSource()
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migration instance: %w", err)
	}
	return m, nil
}

// currentVersion reads the schema version, treating "no migrations yet" as 0.
func currentVersion(m *migrate.Migrate) uint {
	version, _, err := m.Version()
	if err != nil {
		return 0
	}
	return version
}
