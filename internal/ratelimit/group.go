// Package ratelimit throttles operator-triggered pushes per group.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is how often a group may receive a throttled push.
const DefaultInterval = 60 * time.Second

// GroupLimiter allows one send per interval per group.
type GroupLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
	now      func() time.Time
}

// NewGroupLimiter creates a limiter. now may be nil to use the wall clock.
func NewGroupLimiter(interval time.Duration, now func() time.Time) *GroupLimiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}
	return &GroupLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
		now:      now,
	}
}

// CanSend reports whether groupID may be sent to now, consuming its token if so.
func (l *GroupLimiter) CanSend(groupID string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[groupID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[groupID] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(l.now(), 1)
}
