package rig

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/google/periph/conn/gpio"
	"github.com/google/periph/conn/gpio/gpioreg"
	"github.com/google/periph/host"
)

type outputPin interface {
	Name() string
	Out(l gpio.Level) error
}

// Line keys the transmitter through a GPIO output.
type Line struct {
	ActiveLow bool

	pin   outputPin
	lock  sync.Mutex
	keyed bool
}

// OpenLine looks up the named GPIO and drives it to key up.
func OpenLine(name string, activeLow bool) (*Line, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return newLine(p, activeLow)
}

func newLine(pin outputPin, activeLow bool) (*Line, error) {
	l := &Line{ActiveLow: activeLow, pin: pin}
	if err := pin.Out(l.level(false)); err != nil {
		return nil, fmt.Errorf("configure %s: %w", pin.Name(), err)
	}
	glog.Infof("key line on %s", pin.Name())
	return l, nil
}

func (l *Line) level(keyed bool) gpio.Level {
	return gpio.Level(keyed != l.ActiveLow)
}

// Keyed reports the last level driven.
func (l *Line) Keyed() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.keyed
}

func (l *Line) set(keyed bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.keyed == keyed {
		return
	}
	if err := l.pin.Out(l.level(keyed)); err != nil {
		glog.Errorf("key %s: %v", l.pin.Name(), err)
		return
	}
	l.keyed = keyed
}

// KeyDown implements keyer.Sink.
func (l *Line) KeyDown() { l.set(true) }

// KeyUp implements keyer.Sink.
func (l *Line) KeyUp() { l.set(false) }

// Close leaves the transmitter unkeyed.
func (l *Line) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.keyed = false
	return l.pin.Out(l.level(false))
}
