package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Key identifies one canonical server read: a resource tag plus its ordered
// parameters. Equality is structural; two keys built from the same parts
// address the same entry.
type Key struct {
	Resource string
	Params   []string
}

func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: params}
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Resource
	}
	return k.Resource + "/" + strings.Join(k.Params, "/")
}

// FetchFunc loads the value behind a key from the backend.
type FetchFunc func(ctx context.Context) (any, error)

// Entry is a point-in-time snapshot of one cached read.
type Entry struct {
	Value     any
	Err       error
	Loading   bool
	UpdatedAt time.Time
}

type entry struct {
	key        Key
	fetch      FetchFunc
	value      any
	err        error
	loading    bool
	stale      bool
	updatedAt  time.Time
	lastUsed   time.Time
	generation int
	subs       int
}

// Cache is the process-wide store of server reads, keyed by Key. Each entry
// holds at most one value; invalidating a key refetches it for current
// subscribers or marks it stale for the next one. Fetches run in goroutines
// and signal the watch channel when an entry changes, so the UI redraws from
// fresh snapshots. A fetch result whose generation no longer matches the
// entry is discarded: invalidation or unsubscription in flight wins.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	watch   chan struct{}

	// Failed reads are retried this many times. Writes never retry.
	readRetries int
	gcCutoff    time.Duration
	now         func() time.Time
}

func New() *Cache {
	return &Cache{
		entries:     make(map[string]*entry),
		watch:       make(chan struct{}, 1),
		readRetries: 1,
		gcCutoff:    5 * time.Minute,
		now:         time.Now,
	}
}

// Watch returns the re-render signal channel. It fires at least once after
// any entry changes; consecutive changes may coalesce into one signal.
func (c *Cache) Watch() <-chan struct{} { return c.watch }

// Subscribe registers interest in a key and starts a fetch if the entry is
// missing or stale. The fetch func is remembered so later invalidations can
// refetch without the caller.
func (c *Cache) Subscribe(key Key, fetch FetchFunc) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{key: key, stale: true}
		c.entries[key.String()] = e
	}
	e.fetch = fetch
	e.subs++
	e.lastUsed = c.now()

	needFetch := e.stale && !e.loading
	if needFetch {
		e.loading = true
		e.generation++
	}
	gen := e.generation
	c.sweepLocked()
	c.mu.Unlock()

	if needFetch {
		go c.runFetch(e, fetch, gen)
	}
}

// Unsubscribe drops one subscription. The entry stays cached until the GC
// cutoff passes with no subscribers.
func (c *Cache) Unsubscribe(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return
	}
	e.subs--
	e.lastUsed = c.now()
	if e.subs <= 0 {
		e.subs = 0
		// A result landing after the last subscriber left must not apply.
		e.generation++
		e.loading = false
		e.stale = true
	}
}

// Get returns a snapshot of the entry, or a zero loading=false entry when
// the key was never subscribed.
func (c *Cache) Get(key Key) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Entry{}
	}
	e.lastUsed = c.now()
	return Entry{Value: e.value, Err: e.err, Loading: e.loading, UpdatedAt: e.updatedAt}
}

// Invalidate marks a key stale. With live subscribers the refetch starts
// immediately; otherwise the next Subscribe refetches. Unknown keys are a
// no-op.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.stale = true
	e.generation++

	fetch := e.fetch
	refetch := e.subs > 0 && fetch != nil
	if refetch {
		e.loading = true
	} else {
		e.loading = false
	}
	gen := e.generation
	c.mu.Unlock()

	if refetch {
		go c.runFetch(e, fetch, gen)
	}
	c.signal()
}

// Reset drops every entry. Used at logout: nothing cached belongs to the
// next session.
func (c *Cache) Reset() {
	c.mu.Lock()
	for k, e := range c.entries {
		e.generation++
		delete(c.entries, k)
	}
	c.mu.Unlock()
	c.signal()
}

// runFetch receives the fetch func captured under the lock; e.fetch itself
// is only touched while c.mu is held.
func (c *Cache) runFetch(e *entry, fetch FetchFunc, gen int) {
	var value any
	var err error
	for attempt := 0; attempt <= c.readRetries; attempt++ {
		value, err = fetch(context.Background())
		if err == nil {
			break
		}
	}

	c.mu.Lock()
	if e.generation != gen {
		c.mu.Unlock()
		return
	}
	e.loading = false
	e.updatedAt = c.now()
	if err != nil {
		e.err = err
	} else {
		e.value = value
		e.err = nil
		e.stale = false
	}
	c.mu.Unlock()
	c.signal()
}

func (c *Cache) signal() {
	select {
	case c.watch <- struct{}{}:
	default:
	}
}

// sweepLocked garbage-collects entries nobody has requested within the
// cutoff. Caller holds the mutex.
func (c *Cache) sweepLocked() {
	cutoff := c.now().Add(-c.gcCutoff)
	for k, e := range c.entries {
		if e.subs == 0 && e.lastUsed.Before(cutoff) {
			e.generation++
			delete(c.entries, k)
		}
	}
}
