package cache

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/viant/astscope/config"
)

// Health represents cache status snapshot
type Health struct {
	Backend       string  `json:"backend"`
	Healthy       bool    `json:"healthy"`
	Items         int     `json:"items_count"`
	MemoryUsedMB  float64 `json:"memory_usage_mb"`
	MemoryLimitMB float64 `json:"memory_limit_mb"`
	Evictions     uint64  `json:"evictions"`
}

// Cache represents bounded TTL cache; backend failures never escape, they degrade to miss or false
type Cache struct {
	store  Store
	logger *slog.Logger
}

// Backend returns selected backend name
func (c *Cache) Backend() string {
	return c.store.Name()
}

// Set encodes and stores value, returns false when the value was not stored
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	data, blob, err := encode(value)
	if err != nil {
		c.logger.Warn("cache encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	target, stale := key, blobKey(key)
	if blob {
		target, stale = stale, key
	}
	if err = c.store.Set(ctx, target, data, ttl); err != nil {
		c.failed("set", key, err)
		return false
	}
	if _, err = c.store.Delete(ctx, stale); err != nil {
		c.failed("delete", stale, err)
	}
	return true
}

// Get decodes value into dest, trying the plain key then its blob variant
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	for _, blob := range []bool{false, true} {
		target := key
		if blob {
			target = blobKey(key)
		}
		data, err := c.store.Get(ctx, target)
		if errors.Is(err, ErrMiss) {
			continue
		}
		if err != nil {
			c.failed("get", key, err)
			break
		}
		if err = decode(data, blob, dest); err != nil {
			c.logger.Warn("cache decode failed", slog.String("key", target), slog.String("error", err.Error()))
			break
		}
		cacheHits.WithLabelValues(c.store.Name()).Inc()
		return true
	}
	cacheMisses.WithLabelValues(c.store.Name()).Inc()
	return false
}

// Delete removes key and its blob variant
func (c *Cache) Delete(ctx context.Context, key string) bool {
	deleted := false
	for _, target := range []string{key, blobKey(key)} {
		ok, err := c.store.Delete(ctx, target)
		if err != nil {
			c.failed("delete", target, err)
			continue
		}
		deleted = deleted || ok
	}
	return deleted
}

// ClearMatching removes keys matching glob pattern, blob variants are matched by their plain key
func (c *Cache) ClearMatching(ctx context.Context, pattern string) int {
	keys, err := c.store.Keys(ctx, "")
	if err != nil {
		c.failed("keys", pattern, err)
		return 0
	}
	removed := 0
	for _, key := range keys {
		matched, err := path.Match(pattern, strings.TrimPrefix(key, blobPrefix))
		if err != nil {
			c.logger.Warn("invalid cache pattern", slog.String("pattern", pattern), slog.String("error", err.Error()))
			return removed
		}
		if !matched {
			continue
		}
		if ok, _ := c.store.Delete(ctx, key); ok {
			removed++
		}
	}
	return removed
}

// ClearPrefix removes keys starting with any prefix, including blob variants
func (c *Cache) ClearPrefix(ctx context.Context, prefixes ...string) int {
	removed := 0
	for _, prefix := range prefixes {
		for _, candidate := range []string{prefix, blobKey(prefix)} {
			keys, err := c.store.Keys(ctx, candidate)
			if err != nil {
				c.failed("keys", candidate, err)
				continue
			}
			for _, key := range keys {
				if ok, _ := c.store.Delete(ctx, key); ok {
					removed++
				}
			}
		}
	}
	return removed
}

// Health returns backend status
func (c *Cache) Health(ctx context.Context) Health {
	stats := c.store.Stats()
	return Health{
		Backend:       c.store.Name(),
		Healthy:       c.store.Ping(ctx) == nil,
		Items:         stats.Items,
		MemoryUsedMB:  toMB(stats.Bytes),
		MemoryLimitMB: toMB(stats.MaxBytes),
		Evictions:     stats.Evictions,
	}
}

// Capacity returns backend item ceiling, zero when unbounded
func (c *Cache) Capacity() int {
	return c.store.Stats().MaxItems
}

// Close releases backend
func (c *Cache) Close() error {
	return c.store.Close()
}

func (c *Cache) failed(operation, key string, err error) {
	cacheErrors.WithLabelValues(c.store.Name(), operation).Inc()
	c.logger.Warn("cache operation failed",
		slog.String("backend", c.store.Name()),
		slog.String("operation", operation),
		slog.String("key", key),
		slog.String("error", err.Error()))
}

func toMB(size int64) float64 {
	return math.Round(float64(size)/(1<<20)*100) / 100
}

// New creates cache; the backend is chosen once, a failing badger or injected store falls back to memory
func New(ctx context.Context, cfg config.Cache, options ...Option) *Cache {
	ret := &Cache{logger: slog.Default()}
	for _, opt := range options {
		opt(ret)
	}
	if ret.store != nil {
		if err := ret.store.Ping(ctx); err != nil {
			ret.logger.Warn("cache backend unavailable, using memory", slog.String("backend", ret.store.Name()), slog.String("error", err.Error()))
			_ = ret.store.Close()
			ret.store = nil
		}
	} else if cfg.Backend == "badger" {
		ret.store = ret.openBadger(ctx, cfg)
	}
	if ret.store == nil {
		ret.store = NewMemory(cfg.MaxBytes, cfg.MaxItems, cfg.SweepInterval)
	}
	stats := ret.store.Stats()
	ret.logger.Info("cache initialized",
		slog.String("backend", ret.store.Name()),
		slog.String("limit", humanize.IBytes(uint64(max(stats.MaxBytes, 0)))),
		slog.Int("maxItems", stats.MaxItems))
	return ret
}

func (c *Cache) openBadger(ctx context.Context, cfg config.Cache) Store {
	db, err := OpenBadger(BadgerConfig{Path: cfg.Path, Logger: c.logger, GCInterval: cfg.GCInterval})
	if err == nil {
		if err = db.Ping(ctx); err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		c.logger.Warn("badger cache unavailable, using memory", slog.String("path", cfg.Path), slog.String("error", err.Error()))
		return nil
	}
	return db
}
