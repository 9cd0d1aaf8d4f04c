// Package rate provides token bucket limiters, alone or grouped by key.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket. Tokens refill at rate per second up to burst.
type Limiter struct {
	mu     sync.Mutex
	rate   float64
	burst  int
	tokens float64
	last   time.Time
}

// New creates a limiter that starts with a full bucket.
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		wait := l.reserve()
		if wait == 0 {
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

// Allow takes a token if one is available right now.
func (l *Limiter) Allow() bool {
	return l.reserve() == 0
}

// reserve takes a token and returns 0, or returns how long until one is available.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	if l.tokens >= 1 {
		l.tokens--
		return 0
	}
	return time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
}

// advance refills tokens for the elapsed time. l.mu must be held.
func (l *Limiter) advance(now time.Time) {
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.last = now
}

// Group hands out one Limiter per key, created on first use.
type Group struct {
	mu       sync.Mutex
	rate     float64
	burst    int
	limiters map[string]*Limiter
}

// NewGroup creates a keyed limiter. A rate <= 0 disables limiting.
func NewGroup(rate float64, burst int) *Group {
	return &Group{rate: rate, burst: burst, limiters: make(map[string]*Limiter)}
}

// Wait blocks until key may proceed.
func (g *Group) Wait(ctx context.Context, key string) error {
	if g == nil || g.rate <= 0 {
		return ctx.Err()
	}
	return g.get(key).Wait(ctx)
}

// Len returns the number of keys seen.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.limiters)
}

func (g *Group) get(key string) *Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.limiters[key]
	if !ok {
		l = New(g.rate, g.burst)
		g.limiters[key] = l
	}
	return l
}
