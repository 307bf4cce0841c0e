package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryConfig struct {
	ttl      time.Duration
	sweep    time.Duration
	capacity int
}

type item[V any] struct {
	deadline time.Time
	value    V
	key      string
}

func (it *item[V]) expired(now time.Time) bool {
	return !it.deadline.IsZero() && now.After(it.deadline)
}

// Memory is a process-local cache with per-entry expiry. With a capacity
// set, the least recently used entry is dropped to make room.
type Memory[V any] struct {
	index  map[string]*list.Element
	order  *list.List // front is most recently used
	stop   chan struct{}
	cfg    memoryConfig
	mu     sync.Mutex
	closed bool
}

// NewMemory creates a Memory cache. Expired entries are swept once a minute
// unless WithSweepInterval says otherwise.
func NewMemory[V any](opts ...MemoryConfigOption) *Memory[V] {
	cfg := memoryConfig{ttl: time.Hour, sweep: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		index: make(map[string]*list.Element),
		order: list.New(),
		stop:  make(chan struct{}),
		cfg:   cfg,
	}
	if cfg.sweep > 0 {
		go m.sweeper()
	}
	return m
}

// MemoryConfigOption configures NewMemory.
type MemoryConfigOption func(*memoryConfig)

// WithDefaultTTL sets the expiry used when Set gets a zero ttl. Default 1h.
func WithDefaultTTL(d time.Duration) MemoryConfigOption {
	return func(c *memoryConfig) { c.ttl = d }
}

// WithSweepInterval sets how often expired entries are removed. Zero
// disables the background sweep; expired entries are then dropped on read.
func WithSweepInterval(d time.Duration) MemoryConfigOption {
	return func(c *memoryConfig) { c.sweep = d }
}

// WithMaxEntries bounds the number of entries. Zero means unbounded.
func WithMaxEntries(n int) MemoryConfigOption {
	return func(c *memoryConfig) { c.capacity = n }
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.index[key]
	if !ok {
		return zero, ErrNotFound
	}
	it := el.Value.(*item[V])
	if it.expired(time.Now()) {
		m.remove(el)
		return zero, ErrNotFound
	}
	m.order.MoveToFront(el)
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.cfg.ttl
	}
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	if el, ok := m.index[key]; ok {
		it := el.Value.(*item[V])
		it.value, it.deadline = value, deadline
		m.order.MoveToFront(el)
		return nil
	}

	if m.cfg.capacity > 0 && len(m.index) >= m.cfg.capacity {
		if last := m.order.Back(); last != nil {
			m.remove(last)
		}
	}
	m.index[key] = m.order.PushFront(&item[V]{key: key, value: value, deadline: deadline})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if el, ok := m.index[key]; ok {
		m.remove(el)
	}
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	clear(m.index)
	m.order.Init()
	return nil
}

// Len returns the number of entries, expired ones included until swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.index)
}

// Close stops the sweeper. Further writes return ErrClosed.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

func (m *Memory[V]) sweeper() {
	t := time.NewTicker(m.cfg.sweep)
	defer t.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.sweep(now)
		}
	}
}

func (m *Memory[V]) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for el := m.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*item[V]).expired(now) {
			m.remove(el)
		}
		el = next
	}
}

// remove must be called with mu held.
func (m *Memory[V]) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.index, el.Value.(*item[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
