package storage

import "time"

// PoolConfig bounds the resources a store connection may use. It is fixed at startup.
type PoolConfig struct {
	MinSize                uint64
	MaxSize                uint64
	SocketTimeout          time.Duration
	ServerSelectionTimeout time.Duration
}

// DefaultPoolConfig mirrors the limits the service has always run with.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinSize:                5,
		MaxSize:                10,
		SocketTimeout:          45 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}
}
