package testutil

import "sync"

// FixedIDs returns predetermined checkpoint ids in order.
//
// This enables deterministic test execution and golden output comparison.
// Tests provide a known sequence of ids and verify exact results.
//
// Thread-safety: FixedIDs is safe for concurrent use via internal mutex.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := testutil.NewFixedIDs("cp-1", "cp-2")
//	gen.NewID() // "cp-1"
//	gen.NewID() // "cp-2"
//	gen.NewID() // panic: all ids exhausted
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// NewID returns the next predetermined id.
//
// Panics if all ids have been consumed. This is a fail-fast approach to
// catch test misconfiguration (test created more checkpoints than expected).
func (g *FixedIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedIDs: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
