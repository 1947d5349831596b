package fetch

import (
	"log/slog"
	"time"
)

// Option represents git fetcher option
type Option func(*Git)

// WithTimeout sets clone timeout
func WithTimeout(timeout time.Duration) Option {
	return func(g *Git) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithDepth sets clone depth, zero clones full history
func WithDepth(depth int) Option {
	return func(g *Git) {
		if depth >= 0 {
			g.depth = depth
		}
	}
}

// WithBinary sets git executable
func WithBinary(binary string) Option {
	return func(g *Git) {
		g.binary = binary
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Git) {
		if logger != nil {
			g.logger = logger
		}
	}
}
