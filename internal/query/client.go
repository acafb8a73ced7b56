// Package query caches mock API reads per key and invalidates them after
// mutations.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"financehub/internal/metrics"
)

// DefaultStaleTime is how long a fetched result is served without refetching.
const DefaultStaleTime = 5 * time.Minute

// minSweep is the entry count below which expired entries are left alone.
const minSweep = 256

// Change describes a successful mutation.
type Change struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	Op     string `json:"op"`
}

// Publisher forwards changes to other processes sharing the same storage.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	hasData   bool
	fetching  bool
	// gen changes on every invalidation; a fetch only stores its result
	// when gen is unchanged since the fetch started.
	gen uint64
}

type subscription struct {
	prefix Key
	fn     func(Key)
}

// Client is the per-application query cache.
type Client struct {
	mu        sync.Mutex
	entries   map[string]*entry
	subs      map[int]subscription
	nextSub   int
	nextSweep int
	group     singleflight.Group
	now       func() time.Time
	staleTime time.Duration
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
	publisher Publisher
}

// Option configures a Client.
type Option func(*Client)

// WithClock replaces time.Now for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithStaleTime sets how long a fetched result stays fresh.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

// WithLogger sets the logger used for fetch and publish failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics records cache lookups, fetches and invalidations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient returns an empty cache with a five minute stale time.
func NewClient(opts ...Option) *Client {
	c := &Client{
		entries:   make(map[string]*entry),
		subs:      make(map[int]subscription),
		nextSweep: minSweep,
		now:       time.Now,
		staleTime: DefaultStaleTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logrus.New()
	}
	return c
}

// SetPublisher installs the change publisher. It may be called once the
// publisher, which usually needs the client itself, has been built.
func (c *Client) SetPublisher(p Publisher) {
	c.mu.Lock()
	c.publisher = p
	c.mu.Unlock()
}

func (c *Client) entryLocked(key Key) *entry {
	ks := key.String()
	e, ok := c.entries[ks]
	if !ok {
		if len(c.entries) >= c.nextSweep {
			c.sweepLocked()
			c.nextSweep = max(minSweep, 2*len(c.entries))
		}
		e = &entry{key: append(Key(nil), key...)}
		c.entries[ks] = e
	}
	return e
}

// sweepLocked drops entries that are neither fresh nor being fetched.
func (c *Client) sweepLocked() {
	for ks, e := range c.entries {
		if e.fetching || c.freshLocked(e) {
			continue
		}
		delete(c.entries, ks)
	}
}

func (c *Client) freshLocked(e *entry) bool {
	return e.hasData && c.now().Sub(e.fetchedAt) < c.staleTime
}

// Query returns the cached value for key while it is fresh and otherwise
// runs fetch. Concurrent callers for one key share a single fetch. The fetch
// is detached from ctx cancellation and always runs to completion.
func Query[T any](ctx context.Context, c *Client, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	ks := key.String()

	c.mu.Lock()
	if e, ok := c.entries[ks]; ok && c.freshLocked(e) {
		v := e.value
		c.mu.Unlock()
		c.metrics.CacheLookup(key.Entity(), true)
		return cast[T](key, v)
	}
	c.mu.Unlock()
	c.metrics.CacheLookup(key.Entity(), false)

	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(ks, func() (any, error) {
		c.mu.Lock()
		e := c.entryLocked(key)
		if c.freshLocked(e) {
			v := e.value
			c.mu.Unlock()
			return v, nil
		}
		gen := e.gen
		e.fetching = true
		c.mu.Unlock()

		val, err := fetch(fetchCtx)
		c.metrics.CacheFetch(key.Entity(), err)

		c.mu.Lock()
		e.fetching = false
		if err != nil {
			c.mu.Unlock()
			c.logger.WithField("key", key).Warnf("fetch failed: %v", err)
			return nil, err
		}
		// an invalidation bumps gen and removes the entry from the map
		stored := e.gen == gen && c.entries[ks] == e
		if stored {
			e.value = val
			e.fetchedAt = c.now()
			e.hasData = true
		}
		subs := c.matchingSubsLocked(key)
		c.mu.Unlock()
		if stored {
			notify(subs, key)
		}
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	return cast[T](key, v)
}

func cast[T any](key Key, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query %v: cached value has type %T, want %T", []string(key), v, zero)
	}
	return t, nil
}

// Cached returns the stored value for key without fetching, fresh or not.
func Cached[T any](c *Client, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	e, ok := c.entries[key.String()]
	if !ok || !e.hasData {
		return zero, false
	}
	t, ok := e.value.(T)
	return t, ok
}

// Mutate runs fn and, when it succeeds, invalidates every entry under the
// invalidate prefix. A failed mutation leaves the cache untouched.
func Mutate[T any](ctx context.Context, c *Client, invalidate Key, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(context.WithoutCancel(ctx))
	if err != nil {
		return v, err
	}
	c.Invalidate(invalidate)
	return v, nil
}

// Invalidate removes every entry whose key starts with prefix and drops
// matching in-flight fetches from the dedup group. It returns the number of
// entries that held data.
func (c *Client) Invalidate(prefix Key) int {
	c.mu.Lock()
	n := 0
	var keys []Key
	for ks, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.gen++
		if e.hasData {
			n++
		}
		e.hasData = false
		e.value = nil
		delete(c.entries, ks)
		c.group.Forget(ks)
		keys = append(keys, e.key)
	}
	type pending struct {
		key  Key
		subs []subscription
	}
	var notifications []pending
	for _, k := range keys {
		notifications = append(notifications, pending{key: k, subs: c.matchingSubsLocked(k)})
	}
	c.mu.Unlock()

	c.metrics.CacheInvalidated(prefix.Entity(), n)
	for _, p := range notifications {
		notify(p.subs, p.key)
	}
	return n
}

// Subscribe calls fn whenever an entry under prefix is refreshed or
// invalidated. The returned function removes the subscription.
func (c *Client) Subscribe(prefix Key, fn func(Key)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = subscription{prefix: append(Key(nil), prefix...), fn: fn}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

func (c *Client) matchingSubsLocked(key Key) []subscription {
	var out []subscription
	for _, s := range c.subs {
		if key.HasPrefix(s.prefix) {
			out = append(out, s)
		}
	}
	return out
}

func notify(subs []subscription, key Key) {
	for _, s := range subs {
		s.fn(key)
	}
}

// publish forwards a change; failures are logged and never reach the caller.
func (c *Client) publish(ctx context.Context, change Change) {
	c.mu.Lock()
	p := c.publisher
	c.mu.Unlock()
	if p == nil {
		return
	}
	if err := p.Publish(ctx, change); err != nil {
		c.logger.WithFields(logrus.Fields{"entity": change.Entity, "op": change.Op}).Warnf("publish change: %v", err)
	}
}
