package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyString(t *testing.T) {
	key := NewKey("tasks", "42")
	if key.String() != "tasks/42" {
		t.Fatalf("expected tasks/42, got %q", key.String())
	}
	if NewKey("lists").String() != "lists" {
		t.Fatalf("expected bare resource for key without params")
	}
	if NewKey("tasks", "42").String() != key.String() {
		t.Fatalf("expected structurally equal keys to share an entry")
	}
}

func TestSubscribeFetchesOnceWhileFresh(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	var fetches int64

	c.Subscribe(key, func(ctx context.Context) (any, error) {
		atomic.AddInt64(&fetches, 1)
		return "payload", nil
	})
	waitFor(t, func() bool { return c.Get(key).Value == "payload" })

	c.Subscribe(key, func(ctx context.Context) (any, error) {
		atomic.AddInt64(&fetches, 1)
		return "payload", nil
	})

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Fatalf("expected 1 fetch for a fresh entry, got %d", got)
	}
}

func TestInvalidateRefetchesForSubscribers(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	var fetches int64

	c.Subscribe(key, func(ctx context.Context) (any, error) {
		return int(atomic.AddInt64(&fetches, 1)), nil
	})
	waitFor(t, func() bool { return c.Get(key).Value == 1 })

	c.Invalidate(key)
	waitFor(t, func() bool { return c.Get(key).Value == 2 })
}

func TestInvalidateWithoutSubscribersDefersRefetch(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	var fetches int64
	fetch := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt64(&fetches, 1)), nil
	}

	c.Subscribe(key, fetch)
	waitFor(t, func() bool { return c.Get(key).Value == 1 })
	c.Unsubscribe(key)

	c.Invalidate(key)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Fatalf("expected no refetch without subscribers, got %d fetches", got)
	}

	c.Subscribe(key, fetch)
	waitFor(t, func() bool { return atomic.LoadInt64(&fetches) == 2 })
}

func TestFailedReadRetriesOnce(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	var attempts int64

	c.Subscribe(key, func(ctx context.Context) (any, error) {
		if atomic.AddInt64(&attempts, 1) == 1 {
			return nil, errors.New("boom")
		}
		return "recovered", nil
	})

	waitFor(t, func() bool { return c.Get(key).Value == "recovered" })
	if got := atomic.LoadInt64(&attempts); got != 2 {
		t.Fatalf("expected exactly one retry, got %d attempts", got)
	}
}

func TestPersistentFailureSurfacesError(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	var attempts int64
	failure := errors.New("backend down")

	c.Subscribe(key, func(ctx context.Context) (any, error) {
		atomic.AddInt64(&attempts, 1)
		return nil, failure
	})

	waitFor(t, func() bool { return c.Get(key).Err != nil })
	if got := atomic.LoadInt64(&attempts); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
	if !errors.Is(c.Get(key).Err, failure) {
		t.Fatalf("expected surfaced failure, got %v", c.Get(key).Err)
	}
}

func TestLateResultDiscardedAfterUnsubscribe(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	release := make(chan struct{})

	c.Subscribe(key, func(ctx context.Context) (any, error) {
		<-release
		return "stale", nil
	})
	c.Unsubscribe(key)
	close(release)

	time.Sleep(50 * time.Millisecond)
	if value := c.Get(key).Value; value != nil {
		t.Fatalf("expected late result to be discarded, got %v", value)
	}
}

func TestResetDropsEverything(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	c.Subscribe(key, func(ctx context.Context) (any, error) { return "payload", nil })
	waitFor(t, func() bool { return c.Get(key).Value == "payload" })

	c.Reset()
	if entry := c.Get(key); entry.Value != nil {
		t.Fatalf("expected empty cache after reset, got %v", entry.Value)
	}
}

func TestConcurrentSubscribeInvalidateUnsubscribe(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	fetch := func(ctx context.Context) (any, error) { return "payload", nil }

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Subscribe(key, fetch)
				c.Invalidate(key)
				c.Unsubscribe(key)
			}
		}()
	}
	wg.Wait()
}

func TestSweepDropsIdleEntries(t *testing.T) {
	c := New()
	key := NewKey("tasks", "7")
	c.Subscribe(key, func(ctx context.Context) (any, error) { return "payload", nil })
	waitFor(t, func() bool { return c.Get(key).Value == "payload" })
	c.Unsubscribe(key)

	c.mu.Lock()
	c.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	c.mu.Unlock()

	// Subscribing to another key triggers the sweep.
	other := NewKey("lists", "7")
	c.Subscribe(other, func(ctx context.Context) (any, error) { return nil, nil })

	c.mu.Lock()
	_, kept := c.entries[key.String()]
	c.mu.Unlock()
	if kept {
		t.Fatalf("expected idle entry to be garbage-collected")
	}
}

func waitFor(t *testing.T, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if done() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}
