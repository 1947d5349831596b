package cache

import (
	"container/list"
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// entryOverhead approximates per entry bookkeeping bytes
const entryOverhead = 64

type memoryEntry struct {
	key      string
	value    []byte
	expireAt time.Time
	size     int64
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// Memory represents an in-process LRU store bounded by bytes and item count
type Memory struct {
	mux       sync.Mutex
	items     map[string]*list.Element
	order     *list.List
	used      int64
	maxBytes  int64
	maxItems  int
	evictions uint64
	now       func() time.Time
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Name returns backend name
func (m *Memory) Name() string {
	return "memory"
}

// Set stores value, evicting least recently used entries until it fits
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	size := int64(len(key)+len(value)) + entryOverhead
	m.mux.Lock()
	defer m.mux.Unlock()
	if size > m.maxBytes {
		if elem, ok := m.items[key]; ok {
			m.remove(elem)
		}
		return ErrTooLarge
	}
	entry := &memoryEntry{key: key, value: append([]byte(nil), value...), size: size}
	if ttl > 0 {
		entry.expireAt = m.now().Add(ttl)
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	evicted := 0
	for m.order.Len() > 0 && (m.used+size > m.maxBytes || len(m.items) >= m.maxItems) {
		m.remove(m.order.Back())
		evicted++
	}
	m.items[key] = m.order.PushFront(entry)
	m.used += size
	if evicted > 0 {
		m.evictions += uint64(evicted)
		cacheEvictions.WithLabelValues(m.Name()).Add(float64(evicted))
	}
	cacheBytes.WithLabelValues(m.Name()).Set(float64(m.used))
	return nil
}

// Get returns value and marks entry most recently used
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	elem, ok := m.items[key]
	if !ok {
		return nil, ErrMiss
	}
	entry := elem.Value.(*memoryEntry)
	if entry.expired(m.now()) {
		m.remove(elem)
		return nil, ErrMiss
	}
	m.order.MoveToFront(elem)
	return entry.value, nil
}

// Delete removes key
func (m *Memory) Delete(ctx context.Context, key string) (bool, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	elem, ok := m.items[key]
	if !ok {
		return false, nil
	}
	m.remove(elem)
	return true, nil
}

// Keys returns sorted live keys with prefix
func (m *Memory) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	now := m.now()
	var result []string
	for key, elem := range m.items {
		if !strings.HasPrefix(key, prefix) || elem.Value.(*memoryEntry).expired(now) {
			continue
		}
		result = append(result, key)
	}
	sort.Strings(result)
	return result, nil
}

// Stats returns occupancy
func (m *Memory) Stats() Stats {
	m.mux.Lock()
	defer m.mux.Unlock()
	return Stats{Items: len(m.items), Bytes: m.used, MaxBytes: m.maxBytes, MaxItems: m.maxItems, Evictions: m.evictions}
}

// Ping always succeeds
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Close stops the janitor
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		if m.stop != nil {
			close(m.stop)
			<-m.done
		}
	})
	return nil
}

// Sweep removes expired entries, returns removed count
func (m *Memory) Sweep() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	now := m.now()
	removed := 0
	for elem := m.order.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memoryEntry).expired(now) {
			m.remove(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

func (m *Memory) remove(elem *list.Element) {
	entry := m.order.Remove(elem).(*memoryEntry)
	delete(m.items, entry.key)
	m.used -= entry.size
}

func (m *Memory) janitor(interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// NewMemory creates memory store; a positive sweep interval starts a janitor removing expired entries
func NewMemory(maxBytes int64, maxItems int, sweep time.Duration) *Memory {
	ret := &Memory{
		items:    map[string]*list.Element{},
		order:    list.New(),
		maxBytes: maxBytes,
		maxItems: maxItems,
		now:      time.Now,
	}
	if ret.maxBytes <= 0 {
		ret.maxBytes = DefaultMaxBytes
	}
	if ret.maxItems <= 0 {
		ret.maxItems = DefaultMaxItems
	}
	if sweep > 0 {
		ret.stop = make(chan struct{})
		ret.done = make(chan struct{})
		go ret.janitor(sweep)
	}
	return ret
}
