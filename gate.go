package cfbzip

import "time"

// MarkTiming selects when RunIfElapsed resets the gate.
type MarkTiming int

const (
	MarkBefore MarkTiming = iota
	MarkAfter
)

// GateOptions configures one RunIfElapsed call.
type GateOptions struct {
	MinDelta time.Duration
	AutoMark bool
	Timing   MarkTiming
}

// ShouldEmit reports whether at least minDelta has passed between last and now.
func ShouldEmit(now, last time.Time, minDelta time.Duration) bool {
	return now.Sub(last) >= minDelta
}

// Gate throttles an action to run at most once per interval. It holds a
// single timestamp and is not safe for concurrent use.
type Gate struct {
	clock func() time.Time
	last  time.Time
}

// NewGate returns a gate marked at creation. A nil clock uses time.Now.
func NewGate(clock func() time.Time) *Gate {
	if clock == nil {
		clock = time.Now
	}
	return &Gate{clock: clock, last: clock()}
}

// Mark resets the gate to the current time.
func (g *Gate) Mark() {
	g.last = g.clock()
}

// LastMark returns the time of the last mark.
func (g *Gate) LastMark() time.Time {
	return g.last
}

// RunIfElapsed calls action when opts.MinDelta has passed since the last
// mark and reports whether it did.
func (g *Gate) RunIfElapsed(action func(), opts GateOptions) bool {
	if !ShouldEmit(g.clock(), g.last, opts.MinDelta) {
		return false
	}
	if opts.AutoMark && opts.Timing != MarkAfter {
		g.Mark()
	}
	action()
	if opts.AutoMark && opts.Timing == MarkAfter {
		g.Mark()
	}
	return true
}
