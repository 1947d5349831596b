package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Eviction(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		maxBytes  int64
		maxItems  int
		writes    int
		valueSize int
		expectLen int
	}{
		{name: "item ceiling", maxBytes: 1 << 20, maxItems: 3, writes: 10, valueSize: 10, expectLen: 3},
		{name: "byte ceiling", maxBytes: 4 * (entryOverhead + 4 + 100), maxItems: 100, writes: 10, valueSize: 100, expectLen: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(tt.maxBytes, tt.maxItems, 0)
			defer m.Close()
			for i := 0; i < tt.writes; i++ {
				require.NoError(t, m.Set(ctx, fmt.Sprintf("k%03d", i), make([]byte, tt.valueSize), 0))
				stats := m.Stats()
				assert.LessOrEqual(t, stats.Bytes, tt.maxBytes)
				assert.LessOrEqual(t, stats.Items, tt.maxItems)
			}
			stats := m.Stats()
			assert.Equal(t, tt.expectLen, stats.Items)
			assert.EqualValues(t, tt.writes-tt.expectLen, stats.Evictions)
			_, err := m.Get(ctx, "k000")
			assert.ErrorIs(t, err, ErrMiss)
			_, err = m.Get(ctx, fmt.Sprintf("k%03d", tt.writes-1))
			assert.NoError(t, err)
		})
	}
}

func TestMemory_LRUOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1<<20, 2, 0)
	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "c", []byte("3"), 0))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
	value, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)
}

func TestMemory_Overwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1<<20, 10, 0)
	require.NoError(t, m.Set(ctx, "a", []byte("first"), 0))
	require.NoError(t, m.Set(ctx, "a", []byte("second"), 0))
	stats := m.Stats()
	assert.Equal(t, 1, stats.Items)
	assert.EqualValues(t, len("a")+len("second")+entryOverhead, stats.Bytes)
}

func TestMemory_TooLarge(t *testing.T) {
	m := NewMemory(100, 10, 0)
	err := m.Set(context.Background(), "big", make([]byte, 200), 0)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, 0, m.Stats().Items)

	require.NoError(t, m.Set(context.Background(), "big", []byte("small"), 0))
	err = m.Set(context.Background(), "big", make([]byte, 200), 0)
	assert.ErrorIs(t, err, ErrTooLarge)
	_, err = m.Get(context.Background(), "big")
	assert.ErrorIs(t, err, ErrMiss)
	assert.EqualValues(t, 0, m.Stats().Bytes)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(1<<20, 10, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "short", []byte("x"), time.Second))
	require.NoError(t, m.Set(ctx, "long", []byte("y"), time.Hour))
	require.NoError(t, m.Set(ctx, "forever", []byte("z"), 0))

	keys, err := m.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"forever", "long", "short"}, keys)

	now = now.Add(2 * time.Second)
	_, err = m.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, m.Sweep())
	keys, err = m.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, keys)
}

func TestMemory_Janitor(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1<<20, 10, 5*time.Millisecond)
	defer m.Close()
	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Millisecond))
	assert.Eventually(t, func() bool { return m.Stats().Items == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, m.Close())
}
