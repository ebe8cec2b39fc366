// Package rig drives the transmitter key from keyer output.
package rig

import (
	"flag"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/qrp.go/pkg/keyer"
	"github.com/robotalks/qrp.go/pkg/remote"
)

// Config defines how the key line is driven.
type Config struct {
	// KeyPin is the GPIO keying the transmitter, empty for none.
	KeyPin       string
	KeyActiveLow bool
	// KeyEvents publishes every key transition.
	KeyEvents bool
}

var defaultConfig = Config{
	KeyPin: "GPIO17",
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.KeyPin, "key-pin", defaultConfig.KeyPin, "GPIO name of the key line, empty to disable.")
	flag.BoolVar(&defaultConfig.KeyActiveLow, "key-active-low", defaultConfig.KeyActiveLow, "Key line is pulled low when keyed.")
	flag.BoolVar(&defaultConfig.KeyEvents, "key-events", defaultConfig.KeyEvents, "Publish key transitions.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Rig is the set of sinks built from Config.
type Rig struct {
	Line   *Line
	Events *EventSink
	Sink   keyer.Sink
}

// NewRig opens the key line and the optional event sink. reg may be
// nil, in which case no events are published.
func (c *Config) NewRig(reg remote.Registrar) (*Rig, error) {
	r := &Rig{}
	sinks := Fanout{LogSink{}}
	if c.KeyPin != "" {
		line, err := OpenLine(c.KeyPin, c.KeyActiveLow)
		if err != nil {
			return nil, fmt.Errorf("key line: %w", err)
		}
		r.Line = line
		sinks = append(sinks, line)
	}
	if c.KeyEvents && reg != nil {
		r.Events = NewEventSink(reg)
		sinks = append(sinks, r.Events)
	}
	r.Sink = sinks
	return r, nil
}

// Close releases the key line.
func (r *Rig) Close() error {
	if r.Line != nil {
		return r.Line.Close()
	}
	return nil
}

// Fanout forwards transitions to every sink in order.
type Fanout []keyer.Sink

// KeyDown implements keyer.Sink.
func (f Fanout) KeyDown() {
	for _, s := range f {
		s.KeyDown()
	}
}

// KeyUp implements keyer.Sink.
func (f Fanout) KeyUp() {
	for _, s := range f {
		s.KeyUp()
	}
}

// LogSink logs transitions.
type LogSink struct{}

// KeyDown implements keyer.Sink.
func (LogSink) KeyDown() { glog.V(2).Info("key down") }

// KeyUp implements keyer.Sink.
func (LogSink) KeyUp() { glog.V(2).Info("key up") }
