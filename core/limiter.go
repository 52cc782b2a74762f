package core

import (
	"fmt"
	"sync"
)

// Limiter counts operations against an upper bound. A max of zero means
// unlimited. The sandbox uses it to cap tool calls per script execution.
type Limiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewLimiter creates a limiter allowing at most max operations.
func NewLimiter(max int) *Limiter {
	return &Limiter{max: max}
}

// Increment records one operation and returns an error once the limit is exceeded.
func (l *Limiter) Increment() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count++
	if l.max > 0 && l.count > l.max {
		return fmt.Errorf("exceeded max calls: %d", l.max)
	}

	return nil
}

// Reset sets the counter back to zero.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count = 0
}

// Count returns the number of operations recorded so far.
func (l *Limiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// Remaining returns how many operations are left, or -1 when unlimited.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max == 0 {
		return -1
	}

	return l.max - l.count
}
