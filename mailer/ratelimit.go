package mailer

import (
	"sync"
	"time"
)

// Limiter caps sends per fixed window. State is process-local: a
// multi-instance deployment enforces the cap independently per instance.
type Limiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         func() time.Time
}

func NewLimiter(limit int) *Limiter {
	return &Limiter{
		limit:  limit,
		window: time.Hour,
		now:    time.Now,
	}
}

// Allow reports whether one more send is permitted in the current window and
// counts it. The counter resets once the window has elapsed.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= l.window {
		l.count = 0
		l.windowStart = now
	}
	if l.count >= l.limit {
		return false
	}
	l.count++
	return true
}
