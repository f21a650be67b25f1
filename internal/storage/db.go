// Package storage owns the sqlite file backing the library: it opens the
// database, brings the schema up to date and scopes work to transactions.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// ErrUnavailable wraps every failure to open or prepare the database.
var ErrUnavailable = errors.New("storage unavailable")

// Runner is what queries are executed against: the pool or an open transaction.
type Runner = squirrel.StdSqlCtx

type DB struct {
	sql    *sql.DB
	path   string
	logger *slog.Logger
}

type Option func(*DB)

// WithLogger sets the logger used for migration and transaction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) { db.logger = logger }
}

// Open opens (creating if absent) the sqlite database at path and applies any
// pending migrations.
func Open(ctx context.Context, path string, opts ...Option) (*DB, error) {
	db := &DB{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(db)
	}

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, path, err)
	}
	// One writer at a time; a single connection also keeps in-memory
	// databases intact across calls.
	conn.SetMaxOpenConns(1)
	db.sql = conn

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrUnavailable, path, err)
	}

	if err := db.migrateUp(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	db.logger.Debug("database ready", "path", path)

	return db, nil
}

func dsn(path string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", "5000")

	return "file:" + path + "?" + params.Encode()
}

func (db *DB) Path() string {
	return db.path
}

// Runner returns the connection pool for reads that need no transaction.
func (db *DB) Runner() Runner {
	return db.sql
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(tx Runner) error) error {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.logger.Error("WithTx: failed to roll back", "error", err.Error())
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	return nil
}

func (db *DB) Close() error {
	return db.sql.Close()
}
