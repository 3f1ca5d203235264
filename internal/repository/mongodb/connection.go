// Package mongodb implements the repositories on MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"devevents/internal/storage"
)

const (
	eventsCollection   = "events"
	bookingsCollection = "bookings"
)

// DatabaseProvider hands out the database handle repositories operate on.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// Store is a DatabaseProvider backed by a process-wide cached client.
type Store struct {
	cache    *storage.ConnectionCache[*mongo.Client]
	database string
}

// NewStore returns a Store that connects to uri on first use. Establishing the connection pings
// the primary and ensures the collection indexes exist.
func NewStore(uri, database string, pool storage.PoolConfig, logger *slog.Logger) *Store {
	dial := func(ctx context.Context) (*mongo.Client, error) {
		return connect(ctx, uri, database, pool)
	}
	disconnect := func(ctx context.Context, c *mongo.Client) error {
		return c.Disconnect(ctx)
	}
	return &Store{
		cache:    storage.NewConnectionCache("mongodb", dial, disconnect, logger),
		database: database,
	}
}

func (s *Store) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(s.database), nil
}

// Close disconnects the cached client.
func (s *Store) Close(ctx context.Context) error {
	return s.cache.Close(ctx)
}

// clientOptions builds the driver options for uri bounded by pool.
func clientOptions(uri string, pool storage.PoolConfig) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetMinPoolSize(pool.MinSize).
		SetMaxPoolSize(pool.MaxSize).
		SetSocketTimeout(pool.SocketTimeout).
		SetServerSelectionTimeout(pool.ServerSelectionTimeout)
}

func connect(ctx context.Context, uri, database string, pool storage.PoolConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, clientOptions(uri, pool))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	if err := EnsureIndexes(ctx, client.Database(database)); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}
