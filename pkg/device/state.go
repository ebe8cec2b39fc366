// Package device owns the process-wide radio state. Components that
// only present the state receive a Reader; the mode controller is the
// only holder of a Writer.
package device

import (
	"fmt"
	"sync"

	"github.com/robotalks/qrp.go/pkg/mode"
)

// Frequency is an RF frequency in centihertz.
type Frequency uint64

// FrequencyFromHz converts hertz to Frequency.
func FrequencyFromHz(hz uint64) Frequency {
	return Frequency(hz * 100)
}

// Hz returns f truncated to whole hertz.
func (f Frequency) Hz() uint64 {
	return uint64(f) / 100
}

func (f Frequency) String() string {
	return fmt.Sprintf("%d.%02d Hz", uint64(f)/100, uint64(f)%100)
}

// DefaultPower is the WSPR power report in dBm.
const DefaultPower = 23

// State is the device state. Mode, Frequency and TxMessage always
// change together.
type State struct {
	Mode      mode.Mode
	Frequency Frequency
	TxEnabled bool
	TxMessage string

	Callsign string
	Grid     string
	DxCall   string
	Power    int

	WPM           int
	FarnsworthWPM int
}

// Reader provides consistent snapshots of the state.
type Reader interface {
	Snapshot() State
}

// Writer mutates the state. Each call to Update is applied as one
// indivisible group.
type Writer interface {
	Reader
	Update(func(*State))
}

// Store is the mutex guarded State.
type Store struct {
	lock    sync.RWMutex
	state   State
	version uint64
}

// NewStore creates a Store.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Snapshot implements Reader.
func (s *Store) Snapshot() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

// Version increments on every Update.
func (s *Store) Version() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.version
}

// Update implements Writer. fn must not block.
func (s *Store) Update(fn func(*State)) {
	s.lock.Lock()
	fn(&s.state)
	s.version++
	s.lock.Unlock()
}
