package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"clindb/internal/apperr"
	"clindb/internal/config"
)

// DB owns the embedded SQLite file and the transaction helpers.
// database/sql hands each operation its own pooled connection, so one DB
// is safe for concurrent callers; writers serialize inside SQLite and
// contention blocks up to the configured busy timeout before failing
// with STORAGE_BUSY.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
}

// Open opens or creates the SQLite database described by cfg.
// The schema is created idempotently on every open.
func Open(cfg *config.Config, logger *slog.Logger) (*DB, error) {
	if err := os.MkdirAll(cfg.DataRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data root: %w", err)
	}

	path := cfg.DatabasePath()
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",  // concurrent readers during a writer
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.Database.BusyTimeoutMs),
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{
		conn:   conn,
		logger: logger,
		path:   path,
	}

	if err := db.EnsureSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the location of the database file.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck probes connectivity with a trivial query.
func (db *DB) HealthCheck() bool {
	var one int
	if err := db.conn.QueryRow("SELECT 1").Scan(&one); err != nil {
		db.logger.Warn("health check failed", "error", err)
		return false
	}
	return one == 1
}

// WithTx executes fn within a transaction: commit on success, rollback on
// error or panic.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return classify("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction",
				"error", err,
				"rollback_error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}

	return nil
}

// Exec executes a statement without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// classify maps a driver error onto the stable code taxonomy, preserving
// the cause. Lock-timeout failures become STORAGE_BUSY, everything else
// STORAGE_ERROR.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return apperr.Wrap(apperr.StorageBusy, op+" timed out waiting for the database lock", err)
		}
	}
	return apperr.Wrap(apperr.StorageError, op+" failed", err)
}
