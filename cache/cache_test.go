package cache_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/astscope/cache"
	"github.com/viant/astscope/config"
)

type record struct {
	Name  string         `json:"name"`
	Count int            `json:"count"`
	Tags  []string       `json:"tags"`
	Meta  map[string]int `json:"meta"`
}

type signal struct {
	Name  string
	Phase complex128
}

type failingStore struct {
	cache.Store
}

func (f *failingStore) Name() string                   { return "failing" }
func (f *failingStore) Ping(ctx context.Context) error { return cache.ErrUnavailable }
func (f *failingStore) Close() error                   { return nil }

func newBackends(t *testing.T) map[string]*cache.Cache {
	t.Helper()
	cfg := config.Default().Cache
	db, err := cache.OpenBadger(cache.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	ret := map[string]*cache.Cache{
		"memory": cache.New(context.Background(), cfg),
		"badger": cache.New(context.Background(), cfg, cache.WithStore(db)),
	}
	t.Cleanup(func() {
		for _, c := range ret {
			_ = c.Close()
		}
	})
	return ret
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, c.Backend())

			expect := record{Name: "main.go", Count: 3, Tags: []string{"go"}, Meta: map[string]int{"lines": 10}}
			require.True(t, c.Set(ctx, "file:run:main.go", expect, time.Hour))
			var actual record
			require.True(t, c.Get(ctx, "file:run:main.go", &actual))
			assert.Equal(t, expect, actual)

			require.True(t, c.Set(ctx, "source:run:main.go", "package main", time.Hour))
			var source string
			require.True(t, c.Get(ctx, "source:run:main.go", &source))
			assert.Equal(t, "package main", source)

			blob := signal{Name: "phase", Phase: complex(1, 2)}
			require.True(t, c.Set(ctx, "signal", blob, time.Hour))
			var decoded signal
			require.True(t, c.Get(ctx, "signal", &decoded))
			assert.Equal(t, blob, decoded)

			assert.True(t, c.Delete(ctx, "signal"))
			assert.False(t, c.Get(ctx, "signal", &decoded))
			assert.False(t, c.Delete(ctx, "signal"))

			var missing record
			assert.False(t, c.Get(ctx, "absent", &missing))

			health := c.Health(ctx)
			assert.True(t, health.Healthy)
			assert.Equal(t, name, health.Backend)
			assert.GreaterOrEqual(t, health.Items, 2)
		})
	}
}

func TestCache_SetReplacesVariant(t *testing.T) {
	ctx := context.Background()
	for name, c := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.True(t, c.Set(ctx, "value", record{Name: "plain"}, time.Hour))
			require.True(t, c.Set(ctx, "value", signal{Name: "blob", Phase: 2i}, time.Hour))
			var decoded signal
			require.True(t, c.Get(ctx, "value", &decoded))
			assert.Equal(t, signal{Name: "blob", Phase: 2i}, decoded)

			require.True(t, c.Set(ctx, "value", record{Name: "plain again"}, time.Hour))
			var actual record
			require.True(t, c.Get(ctx, "value", &actual))
			assert.Equal(t, "plain again", actual.Name)
			assert.Equal(t, 1, c.ClearPrefix(ctx, "value"))
		})
	}
}

func TestCache_Chunks(t *testing.T) {
	ctx := context.Background()
	for name, c := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			items := make([]record, 120)
			for i := range items {
				items[i] = record{Name: filepath.Join("pkg", string(rune('a'+i%26))), Count: i}
			}
			prefix := cache.FilesKey("run1")
			assert.Equal(t, 3, cache.PutChunks(ctx, c, prefix, items, 50, time.Hour))

			var chunk []record
			require.True(t, c.Get(ctx, cache.ChunkKey(prefix, 2), &chunk))
			assert.Len(t, chunk, 20)

			actual := cache.GetChunks[record](ctx, c, prefix)
			require.Len(t, actual, 120)
			for i, item := range actual {
				assert.Equal(t, i, item.Count)
			}
			assert.Empty(t, cache.GetChunks[record](ctx, c, cache.FilesKey("unknown")))
		})
	}
}

func TestCache_ChunksBound(t *testing.T) {
	ctx := context.Background()
	logs := &bytes.Buffer{}
	c := cache.New(ctx, config.Default().Cache, cache.WithLogger(slog.New(slog.NewTextHandler(logs, nil))))
	t.Cleanup(func() { _ = c.Close() })
	items := make([]int, 6000)
	for i := range items {
		items[i] = i
	}

	assert.Equal(t, cache.MaxChunks, cache.PutChunks(ctx, c, "over", items, 50, time.Hour))
	assert.Contains(t, logs.String(), "chunked write incomplete")
	assert.Contains(t, logs.String(), "dropped=1000")
	assert.Len(t, cache.GetChunks[int](ctx, c, "over"), 5000)
	assert.NotContains(t, logs.String(), "chunked read truncated")

	require.True(t, c.Set(ctx, cache.ChunkKey("over", cache.MaxChunks), []int{1}, time.Hour))
	assert.Len(t, cache.GetChunks[int](ctx, c, "over"), 5000)
	assert.Contains(t, logs.String(), "chunked read truncated")

	size := cache.ChunkSize(len(items), 50)
	assert.Equal(t, 60, size)
	assert.Equal(t, cache.MaxChunks, cache.PutChunks(ctx, c, "fit", items, size, time.Hour))
	assert.Equal(t, items, cache.GetChunks[int](ctx, c, "fit"))
}

func TestChunkSize(t *testing.T) {
	tests := []struct {
		count  int
		size   int
		expect int
	}{
		{count: 120, size: 50, expect: 50},
		{count: 5000, size: 50, expect: 50},
		{count: 5001, size: 50, expect: 51},
		{count: 10000, size: 50, expect: 100},
		{count: 10, size: 0, expect: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, cache.ChunkSize(tt.count, tt.size), "%d/%d", tt.count, tt.size)
	}
}

func TestCache_ClearMatching(t *testing.T) {
	ctx := context.Background()
	for name, c := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"files:r1:0", "files:r1:1", "files:r2:0", "analysis:r1"} {
				require.True(t, c.Set(ctx, key, 1, time.Hour))
			}
			require.True(t, c.Set(ctx, "files:r1:blob", signal{Phase: 1i}, time.Hour))
			assert.Equal(t, 3, c.ClearMatching(ctx, "files:r1:*"))

			var value int
			assert.False(t, c.Get(ctx, "files:r1:0", &value))
			assert.True(t, c.Get(ctx, "files:r2:0", &value))
			assert.True(t, c.Get(ctx, "analysis:r1", &value))

			require.True(t, c.Set(ctx, "source:r1:a/b/c.go", "x", time.Hour))
			assert.Equal(t, 2, c.ClearPrefix(ctx, cache.RunPrefixes("r1")...))
			assert.False(t, c.Get(ctx, "analysis:r1", &value))
		})
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	for name, c := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.True(t, c.Set(ctx, "short", "value", time.Second))
			var value string
			require.True(t, c.Get(ctx, "short", &value))
			assert.Eventually(t, func() bool {
				return !c.Get(ctx, "short", &value)
			}, 5*time.Second, 100*time.Millisecond)
		})
	}
}

func TestNew_Fallback(t *testing.T) {
	ctx := context.Background()

	t.Run("badger path unusable", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		cfg := config.Default().Cache
		cfg.Backend = "badger"
		cfg.Path = filepath.Join(blocker, "db")
		c := cache.New(ctx, cfg)
		defer c.Close()
		assert.Equal(t, "memory", c.Backend())
		assert.True(t, c.Set(ctx, "k", 1, time.Minute))
	})

	t.Run("badger on disk", func(t *testing.T) {
		cfg := config.Default().Cache
		cfg.Backend = "badger"
		cfg.Path = filepath.Join(t.TempDir(), "db")
		c := cache.New(ctx, cfg)
		defer c.Close()
		assert.Equal(t, "badger", c.Backend())
	})

	t.Run("unavailable store", func(t *testing.T) {
		c := cache.New(ctx, config.Default().Cache, cache.WithStore(&failingStore{}))
		defer c.Close()
		assert.Equal(t, "memory", c.Backend())
		health := c.Health(ctx)
		assert.True(t, health.Healthy)
		assert.Equal(t, float64(100), health.MemoryLimitMB)
	})
}
