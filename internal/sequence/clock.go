package sequence

import "sync/atomic"

// Clock is a monotonic logical clock for event ordering.
//
// Every trace event is stamped with a strictly increasing seq number
// from this clock, never a wall-clock timestamp. This keeps recorded
// runs deterministic and makes golden trace comparison possible.
//
// Thread-safety: safe for concurrent use, though the engine's strictly
// sequential design means only one goroutine calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
// The first call to Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
