package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// SimpleCache is a lightweight map-backed cache with optional concurrency safety.
// It supports per-item TTL (no background janitor; cleanup is lazy or via PurgeExpired).
type SimpleCache[K comparable, V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	// If muPtr is non-nil, it guards all operations.
	muPtr *sync.RWMutex

	items map[K]entry[V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	// Leave it false when the owner already serialises access.
	ConcurrencySafe bool
}

// NewSimpleCache constructs a new SimpleCache with the given options.
func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	return &SimpleCache[K, V]{
		muPtr: mu,
		items: make(map[K]entry[V]),
	}
}

func (c *SimpleCache[K, V]) lockR() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.RLock()
	return c.muPtr.RUnlock
}

func (c *SimpleCache[K, V]) lockW() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Get implements Cache.Get.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	defer unlock()

	var zero V
	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		// expired entries stay until PurgeExpired so their owner can release them
		return zero, false
	}
	return e.value, true
}

// Set implements Cache.Set.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	unlock := c.lockW()
	defer unlock()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: exp,
	}
}

// Pop implements Cache.Pop.
func (c *SimpleCache[K, V]) Pop(key K) (V, bool) {
	unlock := c.lockW()
	defer unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	delete(c.items, key)
	return e.value, true
}

// Has implements Cache.Has.
func (c *SimpleCache[K, V]) Has(key K) bool {
	unlock := c.lockR()
	defer unlock()
	e, ok := c.items[key]
	return ok && !e.expired(now())
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	nowTs := now()
	count := 0
	for _, e := range c.items {
		if !e.expired(nowTs) {
			count++
		}
	}
	return count
}

// Drain implements Cache.Drain.
func (c *SimpleCache[K, V]) Drain() map[K]V {
	unlock := c.lockW()
	defer unlock()
	out := make(map[K]V, len(c.items))
	for k, e := range c.items {
		out[k] = e.value
	}
	c.items = make(map[K]entry[V])
	return out
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *SimpleCache[K, V]) PurgeExpired() map[K]V {
	unlock := c.lockW()
	defer unlock()
	out := make(map[K]V)
	if len(c.items) == 0 {
		return out
	}
	nowTs := now()
	for k, e := range c.items {
		if e.expired(nowTs) {
			out[k] = e.value
			delete(c.items, k)
		}
	}
	return out
}

// Ensure SimpleCache implements Cache at compile time.
var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
