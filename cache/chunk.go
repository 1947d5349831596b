package cache

import (
	"context"
	"log/slog"
	"time"
)

// ChunkSize returns the smallest chunk size not below size that fits count items into MaxChunks
func ChunkSize(count, size int) int {
	if size <= 0 {
		size = 1
	}
	return max(size, (count+MaxChunks-1)/MaxChunks)
}

// PutChunks writes items in chunks of size under prefix:<i>, returns number of chunks stored
func PutChunks[T any](ctx context.Context, c *Cache, prefix string, items []T, size int, ttl time.Duration) int {
	if size <= 0 {
		size = len(items)
	}
	stored, written := 0, 0
	for i := 0; i*size < len(items) && i < MaxChunks; i++ {
		end := min((i+1)*size, len(items))
		if !c.Set(ctx, ChunkKey(prefix, i), items[i*size:end], ttl) {
			break
		}
		stored++
		written = end
	}
	if dropped := len(items) - written; dropped > 0 {
		c.logger.Warn("chunked write incomplete",
			slog.String("prefix", prefix),
			slog.Int("chunks", stored),
			slog.Int("limit", MaxChunks),
			slog.Int("dropped", dropped))
	}
	return stored
}

// GetChunks reads chunks sequentially until the first miss, at most MaxChunks
func GetChunks[T any](ctx context.Context, c *Cache, prefix string) []T {
	var result []T
	for i := 0; i < MaxChunks; i++ {
		var chunk []T
		if !c.Get(ctx, ChunkKey(prefix, i), &chunk) {
			return result
		}
		result = append(result, chunk...)
	}
	var next []T
	if c.Get(ctx, ChunkKey(prefix, MaxChunks), &next) {
		c.logger.Warn("chunked read truncated", slog.String("prefix", prefix), slog.Int("limit", MaxChunks), slog.Int("items", len(result)))
	}
	return result
}
