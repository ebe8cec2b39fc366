// Package mode enumerates the operating modes of the radio and the
// per-mode constants the transmit path needs.
package mode

import (
	"fmt"
	"time"
)

// Mode is an operating mode.
type Mode int

// Modes
const (
	Disabled Mode = iota
	CW
	PixieCW
	WSPR
	FT8
	FT4
	FSQ2
	FSQ3
	FSQ4_5
	FSQ6
	JT9
	JT65
	JT4
)

// Params are the symbol constants of a mode. ToneSpacing is in
// centihertz, the synthesizer's frequency unit.
type Params struct {
	SymbolCount int
	ToneSpacing uint32
	SymbolDelay time.Duration
	// Period is the transmit/receive slot length, zero if unslotted.
	Period time.Duration
	// DefaultFrequencyHz is the conventional 20m calling frequency.
	DefaultFrequencyHz uint64
}

type modeInfo struct {
	name   string
	params Params
}

var modes = [...]modeInfo{
	Disabled: {name: "DISABLED"},
	CW:       {name: "CW", params: Params{DefaultFrequencyHz: 14060000}},
	PixieCW:  {name: "PIXIE_CW", params: Params{DefaultFrequencyHz: 7023000}},
	WSPR: {name: "WSPR", params: Params{
		SymbolCount: 162, ToneSpacing: 146, SymbolDelay: 683 * time.Millisecond,
		Period: 2 * time.Minute, DefaultFrequencyHz: 14097200,
	}},
	FT8: {name: "FT8", params: Params{
		SymbolCount: 79, ToneSpacing: 625, SymbolDelay: 159 * time.Millisecond,
		Period: 15 * time.Second, DefaultFrequencyHz: 14074000,
	}},
	FT4: {name: "FT4", params: Params{
		SymbolCount: 105, ToneSpacing: 2083, SymbolDelay: 48 * time.Millisecond,
		Period: 7500 * time.Millisecond, DefaultFrequencyHz: 14080000,
	}},
	// FSQ symbol count depends on the message length.
	FSQ2:   {name: "FSQ_2", params: Params{ToneSpacing: 879, SymbolDelay: 500 * time.Millisecond, DefaultFrequencyHz: 7105350}},
	FSQ3:   {name: "FSQ_3", params: Params{ToneSpacing: 879, SymbolDelay: 333 * time.Millisecond, DefaultFrequencyHz: 7105350}},
	FSQ4_5: {name: "FSQ_4_5", params: Params{ToneSpacing: 879, SymbolDelay: 222 * time.Millisecond, DefaultFrequencyHz: 7105350}},
	FSQ6:   {name: "FSQ_6", params: Params{ToneSpacing: 879, SymbolDelay: 167 * time.Millisecond, DefaultFrequencyHz: 7105350}},
	JT9: {name: "JT9", params: Params{
		SymbolCount: 85, ToneSpacing: 174, SymbolDelay: 576 * time.Millisecond,
		Period: time.Minute, DefaultFrequencyHz: 14078000,
	}},
	JT65: {name: "JT65", params: Params{
		SymbolCount: 126, ToneSpacing: 269, SymbolDelay: 371 * time.Millisecond,
		Period: time.Minute, DefaultFrequencyHz: 14078300,
	}},
	JT4: {name: "JT4", params: Params{
		SymbolCount: 207, ToneSpacing: 437, SymbolDelay: 229 * time.Millisecond,
		Period: time.Minute, DefaultFrequencyHz: 14078500,
	}},
}

// All lists every mode except Disabled.
func All() []Mode {
	all := make([]Mode, 0, len(modes)-1)
	for m := CW; int(m) < len(modes); m++ {
		all = append(all, m)
	}
	return all
}

// IsValid checks m is a known mode.
func (m Mode) IsValid() bool {
	return m >= Disabled && int(m) < len(modes)
}

// String implements Stringer.
func (m Mode) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modes[m].name
}

// Params returns the symbol constants of m.
func (m Mode) Params() Params {
	if !m.IsValid() {
		return Params{}
	}
	return modes[m].params
}

// IsCW reports whether m is keyed by the Morse path.
func (m Mode) IsCW() bool {
	return m == CW || m == PixieCW
}

// IsDigital reports whether m needs a symbol encoder.
func (m Mode) IsDigital() bool {
	return m.IsValid() && m != Disabled && !m.IsCW()
}

// Parse converts a mode name as printed by String.
func Parse(name string) (Mode, error) {
	for m, info := range modes {
		if info.name == name {
			return Mode(m), nil
		}
	}
	return Disabled, fmt.Errorf("unknown mode %q", name)
}

// wsjtxModes maps the mode strings WSJT-X broadcasts. The match is exact.
var wsjtxModes = map[string]Mode{
	"FT8":  FT8,
	"FT4":  FT4,
	"WSPR": WSPR,
	"JT9":  JT9,
	"JT65": JT65,
	"JT4":  JT4,
}

// FromWSJTX maps a WSJT-X mode string. Anything unrecognized is Disabled.
func FromWSJTX(s string) Mode {
	if m, ok := wsjtxModes[s]; ok {
		return m
	}
	return Disabled
}
