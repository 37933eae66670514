// Package testutil provides deterministic clocks and id generators for
// tests. Production code never imports it.
package testutil

import (
	"sync"
	"time"
)

// Clock hands out strictly increasing timestamps from a fixed start, one
// step apart. Tests inject it into the checkpoint store so listing order is
// reproducible regardless of wall time.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewClock creates a clock whose first Now() returns start; each subsequent
// call advances by step.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{next: start, step: step}
}

// Now returns the next timestamp and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}
