// Package paddle turns raw contact edges from an iambic paddle into a
// debounced two-bit state the keyer can poll without locking.
package paddle

import (
	"sync/atomic"
	"time"
)

// Paddle identifies one of the two contacts.
type Paddle int

// Paddles
const (
	Dit Paddle = iota
	Dah
)

func (p Paddle) String() string {
	if p == Dah {
		return "dah"
	}
	return "dit"
}

func (p Paddle) bit() uint32 {
	return 1 << uint(p)
}

// State is a debounced snapshot of both contacts.
type State struct {
	Dit bool
	Dah bool
}

// Any reports whether at least one paddle is engaged.
func (s State) Any() bool {
	return s.Dit || s.Dah
}

// Both reports a squeeze.
func (s State) Both() bool {
	return s.Dit && s.Dah
}

// Cell carries State from the edge path to the keyer tick.
// A single atomic word holds both bits; readers never block.
type Cell struct {
	bits atomic.Uint32
}

// Load returns the latest state.
func (c *Cell) Load() State {
	b := c.bits.Load()
	return State{Dit: b&Dit.bit() != 0, Dah: b&Dah.bit() != 0}
}

// Set updates a single paddle bit.
func (c *Cell) Set(p Paddle, engaged bool) {
	for {
		old := c.bits.Load()
		val := old &^ p.bit()
		if engaged {
			val |= p.bit()
		}
		if old == val || c.bits.CompareAndSwap(old, val) {
			return
		}
	}
}

// DefaultDebounce is the reversal window below which an edge is discarded.
const DefaultDebounce = 5 * time.Millisecond

type debouncer struct {
	state    bool
	lastEdge int64
}

// accept applies one raw reading; it reports whether the debounced
// value changed. A reversal within threshold of the previous edge is
// discarded, but still restarts the window.
func (d *debouncer) accept(reading bool, at int64, threshold int64) bool {
	if reading == d.state {
		return false
	}
	bounce := at-d.lastEdge <= threshold
	d.lastEdge = at
	if bounce {
		return false
	}
	d.state = reading
	return true
}

// Input debounces both paddles and publishes the result into a Cell.
// Edge may be called concurrently for different paddles, but each
// paddle must have a single producer.
type Input struct {
	Threshold time.Duration

	cell Cell
	deb  [2]debouncer
}

// NewInput creates an Input with the given debounce threshold.
func NewInput(threshold time.Duration) *Input {
	return &Input{Threshold: threshold}
}

// Edge delivers a raw logical level (true = contact closed) for one paddle.
func (in *Input) Edge(p Paddle, engaged bool, at time.Time) {
	if in.deb[p].accept(engaged, at.UnixNano(), int64(in.Threshold)) {
		in.cell.Set(p, engaged)
	}
}

// State implements Source.
func (in *Input) State() State {
	return in.cell.Load()
}

// Source provides the current debounced paddle state.
type Source interface {
	State() State
}

// EdgeHandler receives raw edges from a paddle device.
type EdgeHandler interface {
	Edge(p Paddle, engaged bool, at time.Time)
}
