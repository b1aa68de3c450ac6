package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultWindow = time.Minute

// Limiter enforces a request budget over a sliding time window. Acquire
// suspends the caller until admitting one more call keeps the window within
// budget. Single-process scope only.
type Limiter struct {
	mu     sync.Mutex
	budget int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

// New creates a limiter admitting budget calls per window.
func New(budget int, window time.Duration) *Limiter {
	return NewWithClock(budget, window, nil)
}

// NewWithClock creates a limiter with an injectable clock for tests.
func NewWithClock(budget int, window time.Duration, now func() time.Time) *Limiter {
	if budget <= 0 {
		budget = 1
	}
	if window <= 0 {
		window = defaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		budget: budget,
		window: window,
		now:    now,
	}
}

// Acquire blocks until a slot is available or the context is done. The wait
// is bounded by the window: the oldest admitted call expires within it.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for {
		wait, ok := l.tryAcquire()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Budget returns the configured budget.
func (l *Limiter) Budget() int {
	return l.budget
}

// Window returns the configured window.
func (l *Limiter) Window() time.Duration {
	return l.window
}

func (l *Limiter) tryAcquire() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, s := range l.stamps {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}
	l.stamps = kept

	if len(l.stamps) < l.budget {
		l.stamps = append(l.stamps, now)
		return 0, true
	}

	wait := l.stamps[0].Add(l.window).Sub(now)
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait, false
}
