package keyer

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig rejects keying speeds that would produce
// non-positive durations.
var ErrInvalidConfig = errors.New("invalid keyer config")

// DefaultWPM is the keying speed used when nothing is configured.
const DefaultWPM = 15

// Timing holds the element durations derived from a keying speed.
type Timing struct {
	// Unit is the dit length, 1200ms / wpm.
	Unit time.Duration
	// Spacing is the unit used for character and word gaps. It equals
	// Unit unless Farnsworth spacing is on.
	Spacing time.Duration

	wpm, fwpm int
}

// NewTiming derives timing from words-per-minute.
func NewTiming(wpm int) (Timing, error) {
	return NewFarnsworthTiming(wpm, 0)
}

// NewFarnsworthTiming derives timing with character and word gaps
// stretched to the slower fwpm speed. fwpm = 0 disables stretching.
func NewFarnsworthTiming(wpm, fwpm int) (Timing, error) {
	if wpm <= 0 {
		return Timing{}, fmt.Errorf("%w: wpm must be positive, got %d", ErrInvalidConfig, wpm)
	}
	if fwpm < 0 || fwpm > wpm {
		return Timing{}, fmt.Errorf("%w: farnsworth wpm must be in [0, %d], got %d", ErrInvalidConfig, wpm, fwpm)
	}
	t := Timing{Unit: unitOf(wpm), wpm: wpm, fwpm: fwpm}
	t.Spacing = t.Unit
	if fwpm > 0 {
		t.Spacing = unitOf(fwpm)
	}
	return t, nil
}

// MustTiming is NewTiming for constants known to be valid.
func MustTiming(wpm int) Timing {
	t, err := NewTiming(wpm)
	if err != nil {
		panic(err)
	}
	return t
}

func unitOf(wpm int) time.Duration {
	return 1200 * time.Millisecond / time.Duration(wpm)
}

// WPM returns the character speed.
func (t Timing) WPM() int {
	return t.wpm
}

// FarnsworthWPM returns the spacing speed, 0 if disabled.
func (t Timing) FarnsworthWPM() int {
	return t.fwpm
}

// IsValid reports whether t came from a successful constructor.
func (t Timing) IsValid() bool {
	return t.Unit > 0 && t.Spacing > 0
}

// Dit is one unit.
func (t Timing) Dit() time.Duration {
	return t.Unit
}

// Dah is three units.
func (t Timing) Dah() time.Duration {
	return 3 * t.Unit
}

// ElementGap is the silence between elements of one character.
func (t Timing) ElementGap() time.Duration {
	return t.Unit
}

// CharacterGap is the silence ending a character, counted from the
// end of the last element.
func (t Timing) CharacterGap() time.Duration {
	return 3 * t.Spacing
}

// WordGap is the silence ending a word, counted from the end of the
// last element.
func (t Timing) WordGap() time.Duration {
	return 7 * t.Spacing
}

// Duration returns the key-down length of e.
func (t Timing) Duration(e Element) time.Duration {
	if e == Dah {
		return t.Dah()
	}
	return t.Dit()
}

func (t Timing) String() string {
	if t.fwpm > 0 {
		return fmt.Sprintf("%dwpm/%dwpm (dit %v)", t.wpm, t.fwpm, t.Unit)
	}
	return fmt.Sprintf("%dwpm (dit %v)", t.wpm, t.Unit)
}
