// Package ratelimit provides fixed-window request counters keyed by
// (endpoint class, client key). Windows are fixed, not sliding: a client can
// burst up to roughly twice the nominal limit across a window boundary.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"recruit-backend/internal/repository"
)

// Limiter counts a request against a key's current window and returns the
// running count plus the window's reset time.
type Limiter interface {
	Consume(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// StoreLimiter is the production binding: counters live in the shared store
// so limits hold across horizontally scaled processes.
type StoreLimiter struct {
	repo repository.RateLimitRepository
}

func NewStoreLimiter(repo repository.RateLimitRepository) *StoreLimiter {
	return &StoreLimiter{repo: repo}
}

func (l *StoreLimiter) Consume(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	return l.repo.Consume(ctx, key, window)
}

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters in process memory. It under-enforces limits
// once horizontally scaled and exists for tests and single-process runs.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryLimiterAt builds a MemoryLimiter with an injected clock.
func NewMemoryLimiterAt(now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*memoryEntry),
		now:     now,
	}
}

func (l *MemoryLimiter) Consume(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || !e.resetAt.After(now) {
		e = &memoryEntry{count: 1, resetAt: now.Add(window)}
		l.entries[key] = e
		return e.count, e.resetAt, nil
	}
	e.count++
	return e.count, e.resetAt, nil
}
