package service

import "sync/atomic"

// VersionClock hands out LastDirtyTimestamp values. It is a Lamport clock: Next is
// strictly increasing on this node and Observe moves it past every version received
// from peers, so a local write always supersedes what the node has already seen.
type VersionClock struct {
	last atomic.Uint64
}

// NewVersionClock creates a clock whose first Next returns seed+1. Seeding with the
// start time keeps a restarted node from reissuing versions it handed out before.
func NewVersionClock(seed uint64) *VersionClock {
	c := &VersionClock{}
	c.last.Store(seed)
	return c
}

// Next returns a fresh version.
func (c *VersionClock) Next() uint64 {
	return c.last.Add(1)
}

// Observe records a version seen elsewhere.
func (c *VersionClock) Observe(v uint64) {
	for {
		cur := c.last.Load()
		if v <= cur || c.last.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Current returns the last version issued or observed.
func (c *VersionClock) Current() uint64 {
	return c.last.Load()
}
