// Package database owns the optional Postgres pool of identityd.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cloudapi/identity/internal/config"
)

// ErrNotConfigured is returned by Check when no database URL was set.
var ErrNotConfigured = errors.New("database not configured")

// DB wraps the pool. A nil *DB is valid and means no database is configured.
type DB struct {
	pool        *sql.DB
	pingTimeout time.Duration
}

// Open connects to cfg.URL with the lib/pq driver and pings it once. An
// empty URL returns a nil *DB and no error.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	connector, err := pq.NewConnector(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres url: %w", err)
	}

	db := New(sql.OpenDB(connector), cfg.PingTimeout)
	db.pool.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := db.Check(ctx); err != nil {
		_ = db.pool.Close()
		return nil, fmt.Errorf("error creating postgres pool: %w", err)
	}

	return db, nil
}

// New wraps an existing pool.
func New(pool *sql.DB, pingTimeout time.Duration) *DB {
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}
	return &DB{pool: pool, pingTimeout: pingTimeout}
}

// Check pings the pool and runs a trivial query.
func (db *DB) Check(ctx context.Context) error {
	if db == nil || db.pool == nil {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, db.pingTimeout)
	defer cancel()

	if err := db.pool.PingContext(ctx); err != nil {
		return describe(err)
	}

	var one int
	if err := db.pool.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("query failed: %w", describe(err))
	}

	return nil
}

// Close releases the pool. It is a no-op on a nil *DB.
func (db *DB) Close() error {
	if db == nil || db.pool == nil {
		return nil
	}
	return db.pool.Close()
}

// describe adds the SQLSTATE to server-side errors.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s (%s): %w", pqErr.Code.Name(), pqErr.Code, err)
	}
	return err
}
