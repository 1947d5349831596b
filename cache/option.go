package cache

import "log/slog"

const (
	DefaultMaxBytes = 100 << 20
	DefaultMaxItems = 1000
)

// Option represents cache option
type Option func(*Cache)

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore sets backend directly, skipping configured backend selection
func WithStore(store Store) Option {
	return func(c *Cache) {
		c.store = store
	}
}
