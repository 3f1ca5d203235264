// Package postgres implements the repositories on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"devevents/internal/storage"
)

// DBProvider hands out the pool repositories run their queries on.
type DBProvider interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// Store is a DBProvider backed by a process-wide cached pool.
type Store struct {
	cache *storage.ConnectionCache[*sql.DB]
}

// NewStore returns a Store that opens dsn on first use. Opening pings the server and applies
// pending migrations.
func NewStore(dsn string, pool storage.PoolConfig, logger *slog.Logger) *Store {
	dial := func(ctx context.Context) (*sql.DB, error) {
		return open(ctx, dsn, pool)
	}
	closeFn := func(_ context.Context, db *sql.DB) error {
		return db.Close()
	}
	return &Store{cache: storage.NewConnectionCache("postgres", dial, closeFn, logger)}
}

func (s *Store) DB(ctx context.Context) (*sql.DB, error) {
	return s.cache.Get(ctx)
}

// Close closes the cached pool.
func (s *Store) Close(ctx context.Context) error {
	return s.cache.Close(ctx)
}

func configurePool(db *sql.DB, pool storage.PoolConfig) {
	db.SetMaxOpenConns(int(pool.MaxSize))
	db.SetMaxIdleConns(int(pool.MinSize))
	db.SetConnMaxIdleTime(pool.SocketTimeout)
}

func open(ctx context.Context, dsn string, pool storage.PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	configurePool(db, pool)

	pingCtx, cancel := context.WithTimeout(ctx, pool.ServerSelectionTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
