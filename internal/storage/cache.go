// Package storage holds backend-agnostic plumbing shared by the repository implementations.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DialFunc establishes a new connection. It must return a connection that is ready to use.
type DialFunc[C any] func(ctx context.Context) (C, error)

// CloseFunc releases a connection returned by a DialFunc.
type CloseFunc[C any] func(ctx context.Context, conn C) error

// ConnectionCache lazily establishes one connection per process and hands the same one to
// every caller. Concurrent first callers share a single in-flight dial and its outcome; a
// failed dial is not cached, so the next caller starts a fresh attempt.
type ConnectionCache[C any] struct {
	name   string
	dial   DialFunc[C]
	close  CloseFunc[C]
	logger *slog.Logger

	group singleflight.Group

	mu    sync.RWMutex
	conn  C
	ready bool
}

// NewConnectionCache returns a cache that dials with dial and releases with closeFn on Close.
// closeFn may be nil.
func NewConnectionCache[C any](name string, dial DialFunc[C], closeFn CloseFunc[C], logger *slog.Logger) *ConnectionCache[C] {
	return &ConnectionCache[C]{
		name:   name,
		dial:   dial,
		close:  closeFn,
		logger: logger,
	}
}

// Get returns the cached connection, joining or starting a dial when there is none yet.
// If ctx ends while waiting, Get returns ctx.Err(); the dial itself continues for other callers.
func (c *ConnectionCache[C]) Get(ctx context.Context) (C, error) {
	if conn, ok := c.cached(); ok {
		return conn, nil
	}

	// The dial outlives any single caller, so it must not inherit one caller's cancellation.
	dialCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(c.name, func() (any, error) {
		if conn, ok := c.cached(); ok {
			return conn, nil
		}
		start := time.Now()
		conn, err := c.dial(dialCtx)
		if err != nil {
			c.logger.ErrorContext(dialCtx, "connection failed", "store", c.name, "err", err)
			return nil, err
		}
		c.mu.Lock()
		c.conn = conn
		c.ready = true
		c.mu.Unlock()
		c.logger.InfoContext(dialCtx, "connection established", "store", c.name, "duration_ms", time.Since(start).Milliseconds())
		return conn, nil
	})

	var zero C
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, fmt.Errorf("connect to %s: %w", c.name, res.Err)
		}
		return res.Val.(C), nil
	}
}

func (c *ConnectionCache[C]) cached() (C, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn, c.ready
}

// Close releases the cached connection, if one was established. A later Get dials again.
func (c *ConnectionCache[C]) Close(ctx context.Context) error {
	c.mu.Lock()
	conn, ready := c.conn, c.ready
	var zero C
	c.conn, c.ready = zero, false
	c.mu.Unlock()

	if !ready || c.close == nil {
		return nil
	}
	return c.close(ctx, conn)
}
