// Package querycache coalesces and memoizes read-only fetches by key and
// exposes a loading/error/data state per key for views to project from.
package querycache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Key is an ordered tuple such as {"module", "youtube", 7}.
// Keys with different elements are independent cache slots.
type Key []any

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "|")
}

// ModuleKey is the key for one module listing at a day range.
func ModuleKey(module string, days int) Key { return Key{"module", module, days} }

// ModulesKey is the key for the module overview.
func ModulesKey() Key { return Key{"modules"} }

// WeeklySummaryKey is the key for the weekly summary.
func WeeklySummaryKey() Key { return Key{"weekly-summary"} }

// Fetcher loads the value for a key. The context it receives is detached
// from the cancellation of any single waiter.
type Fetcher func(ctx context.Context) (any, error)

type Options struct {
	TTL        time.Duration // zero keeps entries until evicted
	MaxEntries int           // zero means unbounded
}

type Hooks struct {
	OnHit    func(key string)
	OnMiss   func(key string)
	OnShared func(key string)
	OnError  func(key string, err error)
}

type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Shared  int64 `json:"shared"`
	Entries int   `json:"entries"`
}

type entry struct {
	data     any
	storedAt time.Time
}

type failure struct {
	err error
	at  time.Time
}

type Cache struct {
	entries *expirable.LRU[string, entry]
	group   singleflight.Group
	hooks   Hooks

	mu       sync.Mutex
	loading  map[string]struct{}
	failures map[string]failure

	hits   atomic.Int64
	misses atomic.Int64
	shared atomic.Int64
}

func New(opts Options, hooks Hooks) *Cache {
	return &Cache{
		entries:  expirable.NewLRU[string, entry](opts.MaxEntries, nil, opts.TTL),
		hooks:    hooks,
		loading:  make(map[string]struct{}),
		failures: make(map[string]failure),
	}
}

// Fetch returns the memoized value for key or runs fn. Concurrent callers
// for the same key share one call of fn. Errors are returned to every
// waiter of that call but never memoized.
func (c *Cache) Fetch(ctx context.Context, key Key, fn Fetcher) (any, error) {
	k := key.String()
	if e, ok := c.entries.Get(k); ok {
		c.hits.Add(1)
		if c.hooks.OnHit != nil {
			c.hooks.OnHit(k)
		}
		return e.data, nil
	}

	c.misses.Add(1)
	if c.hooks.OnMiss != nil {
		c.hooks.OnMiss(k)
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		// a flight that finished between Get and DoChan already stored it
		if e, ok := c.entries.Peek(k); ok {
			return e.data, nil
		}
		c.begin(k)
		data, err := fn(flightCtx)
		c.finish(k, data, err)
		return data, err
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
			if c.hooks.OnShared != nil {
				c.hooks.OnShared(k)
			}
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Prefetch starts a coalesced fetch in the background unless the key is
// already cached or loading.
func (c *Cache) Prefetch(key Key, fn Fetcher) {
	k := key.String()
	if c.entries.Contains(k) {
		return
	}
	c.mu.Lock()
	_, busy := c.loading[k]
	c.mu.Unlock()
	if busy {
		return
	}
	go func() {
		_, _ = c.Fetch(context.Background(), key, fn)
	}()
}

// State is the tri-state a subscriber observes for one key.
func (c *Cache) State(key Key) State {
	k := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.loading[k]; ok {
		return State{Status: StatusLoading}
	}
	if e, ok := c.entries.Peek(k); ok {
		return State{Status: StatusSuccess, Data: e.data, UpdatedAt: e.storedAt}
	}
	if f, ok := c.failures[k]; ok {
		return State{Status: StatusError, Err: f.err, UpdatedAt: f.at}
	}
	return State{Status: StatusIdle}
}

func (c *Cache) Invalidate(key Key) {
	k := key.String()
	c.entries.Remove(k)
	c.mu.Lock()
	delete(c.failures, k)
	c.mu.Unlock()
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Shared:  c.shared.Load(),
		Entries: c.entries.Len(),
	}
}

func (c *Cache) begin(k string) {
	c.mu.Lock()
	c.loading[k] = struct{}{}
	c.mu.Unlock()
}

func (c *Cache) finish(k string, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.loading, k)
	if err != nil {
		c.failures[k] = failure{err: err, at: time.Now()}
		if c.hooks.OnError != nil {
			c.hooks.OnError(k, err)
		}
		return
	}
	delete(c.failures, k)
	c.entries.Add(k, entry{data: data, storedAt: time.Now()})
}

// Get is the typed form of Fetch.
func Get[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("querycache: key %s holds %T", key, v)
	}
	return t, nil
}
