// Package keyer implements an iambic paddle keyer.
package keyer

import (
	"time"

	"github.com/robotalks/qrp.go/pkg/paddle"
)

// State is the keyer state.
type State int

// States
const (
	Idle State = iota
	SendingDit
	SendingDah
	InCharacterGap
	InWordGap
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SendingDit:
		return "sending-dit"
	case SendingDah:
		return "sending-dah"
	case InCharacterGap:
		return "character-gap"
	case InWordGap:
		return "word-gap"
	}
	return "unknown"
}

// Transition is what a tick asks the key line to do.
type Transition int

// Transitions
const (
	NoTransition Transition = iota
	KeyDown
	KeyUp
)

func (t Transition) String() string {
	switch t {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	}
	return "none"
}

// ElementListener observes the elements and boundaries the keyer sends.
type ElementListener interface {
	ElementSent(Element)
	CharacterEnd()
	WordEnd()
}

// Keyer is the iambic state machine. It is driven entirely by Tick
// and never blocks; it is not safe for concurrent use.
//
// While an element is keyed the opposite paddle is latched as the
// next element. After key-up the keyer waits one unit, during which a
// paddle still selects the next element. Without a next element the
// keyer passes through the character and word gaps, both measured
// from the end of the last element, back to Idle.
type Keyer struct {
	timing   Timing
	listener ElementListener

	state   State
	element Element
	pending Element
	keyed   bool
	since   time.Time
}

// New creates a Keyer.
func New(timing Timing) (*Keyer, error) {
	k := &Keyer{}
	if err := k.SetTiming(timing); err != nil {
		return nil, err
	}
	return k, nil
}

// SetTiming replaces the timing. An element in flight finishes with
// the new durations.
func (k *Keyer) SetTiming(timing Timing) error {
	if !timing.IsValid() {
		return ErrInvalidConfig
	}
	k.timing = timing
	return nil
}

// Timing returns the current timing.
func (k *Keyer) Timing() Timing {
	return k.timing
}

// SetListener installs an optional ElementListener.
func (k *Keyer) SetListener(l ElementListener) {
	k.listener = l
}

// State returns the current state.
func (k *Keyer) State() State {
	return k.state
}

// Pending returns the latched next element.
func (k *Keyer) Pending() Element {
	return k.pending
}

// Keyed reports whether the key line is down.
func (k *Keyer) Keyed() bool {
	return k.keyed
}

// Idle reports whether the keyer is at rest.
func (k *Keyer) Idle() bool {
	return k.state == Idle
}

// Reset returns to Idle, releasing the key if it is down.
func (k *Keyer) Reset() Transition {
	wasKeyed := k.keyed
	k.state, k.element, k.pending, k.keyed = Idle, None, None, false
	if wasKeyed {
		return KeyUp
	}
	return NoTransition
}

// Tick advances the machine to now with the current paddles.
func (k *Keyer) Tick(now time.Time, paddles paddle.State) Transition {
	switch k.state {
	case Idle:
		if e := choose(paddles, None); e != None {
			return k.start(e, now)
		}
	case SendingDit, SendingDah:
		return k.sending(now, paddles)
	case InCharacterGap:
		if e := choose(paddles, k.element); e != None {
			return k.start(e, now)
		}
		if now.Sub(k.since) >= k.timing.CharacterGap() {
			k.state = InWordGap
			if k.listener != nil {
				k.listener.CharacterEnd()
			}
		}
	case InWordGap:
		if e := choose(paddles, k.element); e != None {
			return k.start(e, now)
		}
		if now.Sub(k.since) >= k.timing.WordGap() {
			k.state, k.element = Idle, None
			if k.listener != nil {
				k.listener.WordEnd()
			}
		}
	}
	return NoTransition
}

func (k *Keyer) sending(now time.Time, paddles paddle.State) Transition {
	elapsed := now.Sub(k.since)
	if k.keyed {
		if opposite := k.element.Opposite(); k.pending == None && opposite.pressed(paddles) {
			k.pending = opposite
		}
		if elapsed < k.timing.Duration(k.element) {
			return NoTransition
		}
		k.keyed, k.since = false, now
		if k.listener != nil {
			k.listener.ElementSent(k.element)
		}
		return KeyUp
	}

	if k.pending == None {
		k.pending = choose(paddles, k.element)
	}
	if elapsed < k.timing.ElementGap() {
		return NoTransition
	}
	if next := k.pending; next != None {
		return k.start(next, now)
	}
	// since stays at the element end, gaps are cumulative.
	k.state = InCharacterGap
	return NoTransition
}

func (k *Keyer) start(e Element, now time.Time) Transition {
	k.state = SendingDit
	if e == Dah {
		k.state = SendingDah
	}
	k.element, k.pending, k.keyed, k.since = e, None, true, now
	return KeyDown
}
