// Package ratelimit implements per-identity sliding-window admission
// control. Each identity (client IP) keeps a log of recent admission
// timestamps; a request is admitted only when fewer than the limit
// fall inside the trailing window. State is in-memory and best-effort:
// nothing survives a restart.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	defaultIdleTTL      = 15 * time.Minute
	defaultCleanupEvery = 2 * time.Minute
)

// SlidingWindow admits at most `limit` requests per identity per
// trailing `window`. Lookups take the store mutex; each identity's
// log is updated under its own mutex, so checks for the same identity
// are atomic and distinct identities do not contend.
type SlidingWindow struct {
	mu      sync.Mutex
	entries map[string]*entry

	limit        int
	window       time.Duration
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type entry struct {
	mu         sync.Mutex
	admissions []time.Time
	lastSeen   time.Time
}

type Option func(*SlidingWindow)

// WithIdleTTL sets how long an identity may stay idle before the
// janitor drops its window. Values shorter than the window are raised
// to the window so live admissions are never swept.
func WithIdleTTL(d time.Duration) Option {
	return func(s *SlidingWindow) { s.idleTTL = d }
}

// WithCleanupEvery sets the janitor sweep interval.
func WithCleanupEvery(d time.Duration) Option {
	return func(s *SlidingWindow) { s.cleanupEvery = d }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *SlidingWindow) { s.now = now }
}

// NewSlidingWindow creates a limiter admitting `limit` requests per
// identity per `window`.
func NewSlidingWindow(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	s := &SlidingWindow{
		entries:      make(map[string]*entry),
		limit:        limit,
		window:       window,
		idleTTL:      defaultIdleTTL,
		cleanupEvery: defaultCleanupEvery,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.idleTTL < s.window {
		s.idleTTL = s.window
	}
	return s
}

// Allow decides admit/reject for one request from the given identity.
// Admission appends the current timestamp to the identity's log.
func (s *SlidingWindow) Allow(key string) bool {
	now := s.now()
	e := s.get(key, now)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.admissions = prune(e.admissions, now.Add(-s.window))
	if len(e.admissions) >= s.limit {
		return false
	}
	e.admissions = append(e.admissions, now)
	return true
}

// RetryAfter reports how long the identity must wait before its
// oldest admission leaves the window. Zero when a request would be
// admitted right now.
func (s *SlidingWindow) RetryAfter(key string) time.Duration {
	now := s.now()
	e := s.get(key, now)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.admissions = prune(e.admissions, now.Add(-s.window))
	if len(e.admissions) < s.limit {
		return 0
	}
	return e.admissions[0].Add(s.window).Sub(now)
}

func (s *SlidingWindow) get(key string, now time.Time) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.lastSeen = now
		return e
	}
	e := &entry{lastSeen: now}
	s.entries[key] = e
	return e
}

// Cleanup drops identities idle for longer than the idle TTL. The
// window map is otherwise unbounded.
func (s *SlidingWindow) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor sweeps idle identities periodically until the context
// is canceled.
func (s *SlidingWindow) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// prune discards timestamps at or before the cutoff, keeping order.
func prune(admissions []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(admissions) && !admissions[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return admissions
	}
	return append(admissions[:0], admissions[i:]...)
}
