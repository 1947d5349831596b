package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned for absent or expired keys
	ErrMiss = errors.New("cache miss")
	// ErrTooLarge is returned when a single entry exceeds the byte ceiling
	ErrTooLarge = errors.New("cache entry exceeds capacity")
	// ErrUnavailable is returned when a backend cannot serve requests
	ErrUnavailable = errors.New("cache backend unavailable")
)

// Stats represents backend occupancy
type Stats struct {
	Items     int
	Bytes     int64
	MaxBytes  int64
	MaxItems  int
	Evictions uint64
}

// Store represents a byte oriented key value backend with expiry
type Store interface {
	Name() string
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
	Stats() Stats
	Ping(ctx context.Context) error
	Close() error
}
