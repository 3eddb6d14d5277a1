package cache

import (
	"sync"
	"testing"
	"time"
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
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLGetBeforeAndAfterExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock[string, int](clock.Now)

	c.Set("a", 1, time.Minute)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired too early")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry should be expired at its deadline")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestTTLMissingKey(t *testing.T) {
	c := New[string, string]()
	if v, ok := c.Get("missing"); ok || v != "" {
		t.Fatalf("Get(missing) = %q, %v", v, ok)
	}
}

func TestTTLOverwriteRefreshesDeadline(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewWithClock[string, bool](clock.Now)

	c.Set("k", false, 5*time.Minute)
	clock.Advance(4 * time.Minute)
	c.Set("k", true, 24*time.Hour)
	clock.Advance(2 * time.Minute)

	v, ok := c.Get("k")
	if !ok || !v {
		t.Fatalf("Get(k) = %v, %v; want true, true", v, ok)
	}
}

func TestTTLNonPositiveTTLDeletes(t *testing.T) {
	c := New[int, int]()
	c.Set(1, 10, time.Hour)
	c.Set(1, 20, 0)
	if _, ok := c.Get(1); ok {
		t.Fatal("zero ttl should remove the key")
	}
}

func TestTTLConcurrentAccess(t *testing.T) {
	c := New[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(i%5, i, time.Minute)
			c.Get(i % 5)
		}()
	}
	wg.Wait()
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
}
