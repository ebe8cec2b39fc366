package keyer

import "github.com/robotalks/qrp.go/pkg/paddle"

// Element is a Morse element, or None.
type Element int

// Elements
const (
	None Element = iota
	Dit
	Dah
)

func (e Element) String() string {
	switch e {
	case Dit:
		return "dit"
	case Dah:
		return "dah"
	}
	return "none"
}

// Opposite returns the other element; None stays None.
func (e Element) Opposite() Element {
	switch e {
	case Dit:
		return Dah
	case Dah:
		return Dit
	}
	return None
}

// pressed reports whether the paddle producing e is engaged.
func (e Element) pressed(s paddle.State) bool {
	switch e {
	case Dit:
		return s.Dit
	case Dah:
		return s.Dah
	}
	return false
}

// choose picks the next element from live paddles. A squeeze
// alternates away from last; without history dit wins.
func choose(s paddle.State, last Element) Element {
	switch {
	case s.Both():
		if last == None {
			return Dit
		}
		return last.Opposite()
	case s.Dit:
		return Dit
	case s.Dah:
		return Dah
	}
	return None
}
