package query

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestClient(t *testing.T) (*Client, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	logger, _ := logtest.NewNullLogger()
	return NewClient(WithClock(clock.Now), WithLogger(logger)), clock
}

func countingFetch(calls *atomic.Int32, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestQueryServesFreshEntryWithoutRefetch(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestClient(t)
	var calls atomic.Int32

	for i := 0; i < 2; i++ {
		v, err := Query(ctx, c, Key{"users"}, countingFetch(&calls, "v1"))
		if err != nil || v != "v1" {
			t.Fatalf("query %d: %q %v", i, v, err)
		}
		clock.Advance(time.Minute)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one fetch within stale time, got %d", calls.Load())
	}

	clock.Advance(DefaultStaleTime)
	if _, err := Query(ctx, c, Key{"users"}, countingFetch(&calls, "v2")); err != nil {
		t.Fatalf("query: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected refetch after stale time, got %d fetches", calls.Load())
	}
}

func TestQueryDeduplicatesConcurrentFetches(t *testing.T) {
	c, _ := newTestClient(t)
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Query(context.Background(), c, Key{"transactions"}, fetch)
			if err != nil {
				t.Errorf("query: %v", err)
			}
			results[i] = v
		}(i)
	}
	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected a single shared fetch, got %d", calls.Load())
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("caller %d got %d", i, v)
		}
	}
}

func TestQueryFetchErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	boom := errors.New("boom")

	_, err := Query(ctx, c, Key{"users"}, func(context.Context) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if _, ok := Cached[string](c, Key{"users"}); ok {
		t.Fatalf("failed fetch must not populate the cache")
	}
	v, err := Query(ctx, c, Key{"users"}, func(context.Context) (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("retry: %q %v", v, err)
	}
}

func TestQueryFetchIgnoresCallerCancellation(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := Query(ctx, c, Key{"users"}, func(ctx context.Context) (string, error) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "done", nil
	})
	if err != nil || v != "done" {
		t.Fatalf("expected detached fetch to finish, got %q %v", v, err)
	}
}

func TestInvalidateByPrefix(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	var calls atomic.Int32

	for _, k := range []Key{{"users"}, {"users", "1"}, {"transactions"}} {
		if _, err := Query(ctx, c, k, countingFetch(&calls, "v")); err != nil {
			t.Fatalf("query %v: %v", k, err)
		}
	}
	if n := c.Invalidate(Key{"users"}); n != 2 {
		t.Fatalf("expected 2 invalidated entries, got %d", n)
	}
	if _, ok := Cached[string](c, Key{"users", "1"}); ok {
		t.Fatalf("detail entry should be invalidated")
	}
	if _, ok := Cached[string](c, Key{"transactions"}); !ok {
		t.Fatalf("unrelated entry should survive")
	}
}

func TestInvalidateDuringFetchDiscardsResult(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan string)

	go func() {
		v, _ := Query(ctx, c, Key{"users"}, func(context.Context) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
		done <- v
	}()
	<-started
	c.Invalidate(Key{"users"})
	close(release)
	if v := <-done; v != "old" {
		t.Fatalf("in-flight caller should still receive its result, got %q", v)
	}
	if _, ok := Cached[string](c, Key{"users"}); ok {
		t.Fatalf("result fetched before invalidation must not be stored")
	}

	v, err := Query(ctx, c, Key{"users"}, func(context.Context) (string, error) { return "new", nil })
	if err != nil || v != "new" {
		t.Fatalf("expected refetch after invalidation, got %q %v", v, err)
	}
}

func TestMutateInvalidatesOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	var calls atomic.Int32
	if _, err := Query(ctx, c, Key{"users"}, countingFetch(&calls, "v")); err != nil {
		t.Fatalf("query: %v", err)
	}

	boom := errors.New("boom")
	if _, err := Mutate(ctx, c, Key{"users"}, func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}
	if _, ok := Cached[string](c, Key{"users"}); !ok {
		t.Fatalf("failed mutation must keep the cache")
	}

	if _, err := Mutate(ctx, c, Key{"users"}, func(context.Context) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if _, ok := Cached[string](c, Key{"users"}); ok {
		t.Fatalf("successful mutation must invalidate")
	}
}

func TestSubscribeNotifiesUntilUnsubscribed(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	var mu sync.Mutex
	var seen []string
	unsubscribe := c.Subscribe(Key{"users"}, func(k Key) {
		mu.Lock()
		seen = append(seen, k.String())
		mu.Unlock()
	})

	if _, err := Query(ctx, c, Key{"users"}, func(context.Context) (string, error) { return "v", nil }); err != nil {
		t.Fatalf("query: %v", err)
	}
	if _, err := Query(ctx, c, Key{"transactions"}, func(context.Context) (string, error) { return "v", nil }); err != nil {
		t.Fatalf("query: %v", err)
	}
	c.Invalidate(Key{"users"})
	unsubscribe()
	unsubscribe()
	c.Invalidate(Key{"users"})

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected refresh and invalidation notifications, got %v", seen)
	}
}

func TestCachedTypeMismatch(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	if _, err := Query(ctx, c, Key{"users"}, func(context.Context) (string, error) { return "v", nil }); err != nil {
		t.Fatalf("query: %v", err)
	}
	if _, err := Query(ctx, c, Key{"users"}, func(context.Context) (int, error) { return 1, nil }); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func entryCount(c *Client) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func TestInvalidateReleasesEntries(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	for i := 0; i < 10000; i++ {
		key := Key{"users", strconv.Itoa(i)}
		if _, err := Query(ctx, c, key, func(context.Context) (int, error) { return i, nil }); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}
	if _, err := Query(ctx, c, Key{"transactions"}, func(context.Context) (int, error) { return 0, nil }); err != nil {
		t.Fatalf("query: %v", err)
	}

	c.Invalidate(Key{"users"})
	if n := entryCount(c); n != 1 {
		t.Fatalf("expected only the transactions entry left, got %d", n)
	}
}

func TestExpiredEntriesAreSwept(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestClient(t)
	for i := 0; i < minSweep; i++ {
		key := Key{"transactions", strconv.Itoa(i)}
		if _, err := Query(ctx, c, key, func(context.Context) (int, error) { return i, nil }); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}
	clock.Advance(DefaultStaleTime + time.Second)

	if _, err := Query(ctx, c, Key{"transactions", "fresh"}, func(context.Context) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n := entryCount(c); n != 1 {
		t.Fatalf("expected stale entries to be swept, got %d", n)
	}
}

func TestSweepKeepsFreshEntries(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	for i := 0; i <= minSweep; i++ {
		key := Key{"transactions", strconv.Itoa(i)}
		if _, err := Query(ctx, c, key, func(context.Context) (int, error) { return i, nil }); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}
	if n := entryCount(c); n != minSweep+1 {
		t.Fatalf("fresh entries must survive a sweep, got %d", n)
	}
	if v, ok := Cached[int](c, Key{"transactions", "0"}); !ok || v != 0 {
		t.Fatalf("first entry lost: %v %v", v, ok)
	}
}
