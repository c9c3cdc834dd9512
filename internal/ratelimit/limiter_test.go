package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
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

func TestBurstRejectsEleventh(t *testing.T) {
	clock := newFakeClock()
	lim := NewSlidingWindow(10, time.Minute, WithClock(clock.Now))

	for i := 0; i < 10; i++ {
		require.True(t, lim.Allow("1.2.3.4"), "request %d should be admitted", i+1)
		clock.Advance(time.Second)
	}
	assert.False(t, lim.Allow("1.2.3.4"), "11th request within the window should be rejected")
}

func TestReadmitsAfterWindowElapses(t *testing.T) {
	clock := newFakeClock()
	lim := NewSlidingWindow(10, time.Minute, WithClock(clock.Now))

	for i := 0; i < 10; i++ {
		require.True(t, lim.Allow("1.2.3.4"))
	}
	require.False(t, lim.Allow("1.2.3.4"))

	// Once the window has elapsed since the 1st admission, one slot frees up.
	clock.Advance(time.Minute + time.Millisecond)
	assert.True(t, lim.Allow("1.2.3.4"))
}

func TestIdentitiesAreIndependent(t *testing.T) {
	clock := newFakeClock()
	lim := NewSlidingWindow(10, time.Minute, WithClock(clock.Now))

	for i := 0; i < 10; i++ {
		require.True(t, lim.Allow("1.2.3.4"))
	}
	require.False(t, lim.Allow("1.2.3.4"))

	assert.True(t, lim.Allow("5.6.7.8"), "exhausting one identity must not affect another")
}

func TestRetryAfter(t *testing.T) {
	clock := newFakeClock()
	lim := NewSlidingWindow(2, time.Minute, WithClock(clock.Now))

	assert.Zero(t, lim.RetryAfter("1.2.3.4"))

	require.True(t, lim.Allow("1.2.3.4"))
	clock.Advance(10 * time.Second)
	require.True(t, lim.Allow("1.2.3.4"))
	require.False(t, lim.Allow("1.2.3.4"))

	// The oldest admission is 10s old, so it leaves the window in 50s.
	assert.Equal(t, 50*time.Second, lim.RetryAfter("1.2.3.4"))
}

// A concurrent burst from one identity must never admit more than the limit.
func TestConcurrentSameIdentityNeverOverAdmits(t *testing.T) {
	lim := NewSlidingWindow(10, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if lim.Allow("1.2.3.4") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, admitted)
}

func TestCleanupDropsIdleIdentities(t *testing.T) {
	clock := newFakeClock()
	lim := NewSlidingWindow(10, time.Minute, WithClock(clock.Now), WithIdleTTL(5*time.Minute))

	require.True(t, lim.Allow("stale"))
	clock.Advance(10 * time.Minute)
	require.True(t, lim.Allow("fresh"))

	lim.Cleanup()

	lim.mu.Lock()
	defer lim.mu.Unlock()
	assert.NotContains(t, lim.entries, "stale")
	assert.Contains(t, lim.entries, "fresh")
}
