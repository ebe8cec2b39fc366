package device

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/periph/conn/gpio"
	"github.com/google/periph/conn/gpio/gpioreg"
	"github.com/google/periph/host"

	"github.com/robotalks/qrp.go/pkg/paddle"
)

// inputPin is the subset of gpio.PinIn used for paddle contacts.
type inputPin interface {
	Name() string
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

// GPIOSource reads paddle contacts wired to two GPIO lines with
// edge-triggered interrupts.
type GPIOSource struct {
	DitPin    string
	DahPin    string
	ActiveLow bool
	// PollTimeout bounds each interrupt wait so cancellation is noticed.
	PollTimeout time.Duration

	lookup func(name string) (inputPin, error)
	now    func() time.Time
}

// NewGPIOSource creates a GPIOSource using periph host drivers.
func NewGPIOSource(ditPin, dahPin string, activeLow bool) *GPIOSource {
	return &GPIOSource{
		DitPin:      ditPin,
		DahPin:      dahPin,
		ActiveLow:   activeLow,
		PollTimeout: 100 * time.Millisecond,
		lookup:      lookupHostPin,
		now:         time.Now,
	}
}

func lookupHostPin(name string) (inputPin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return p, nil
}

// Run implements Source.
func (s *GPIOSource) Run(ctx context.Context, h paddle.EdgeHandler) error {
	pull := gpio.PullDown
	if s.ActiveLow {
		pull = gpio.PullUp
	}
	pins := make([]inputPin, 2)
	for n, name := range []string{s.DitPin, s.DahPin} {
		pin, err := s.lookup(name)
		if err != nil {
			return err
		}
		if err := pin.In(pull, gpio.BothEdges); err != nil {
			return fmt.Errorf("configure %s: %w", pin.Name(), err)
		}
		pins[n] = pin
	}
	errCh := make(chan error, len(pins))
	for n, pin := range pins {
		go func(p paddle.Paddle, pin inputPin) {
			errCh <- s.watch(ctx, p, pin, h)
		}(paddle.Paddle(n), pin)
	}
	var err error
	for range pins {
		if e := <-errCh; err == nil {
			err = e
		}
	}
	for _, pin := range pins {
		if e := pin.In(gpio.PullNoChange, gpio.NoEdge); e != nil {
			glog.Warningf("release %s: %v", pin.Name(), e)
		}
	}
	return err
}

func (s *GPIOSource) engaged(l gpio.Level) bool {
	if s.ActiveLow {
		return l == gpio.Low
	}
	return l == gpio.High
}

func (s *GPIOSource) watch(ctx context.Context, p paddle.Paddle, pin inputPin, h paddle.EdgeHandler) error {
	glog.Infof("paddle %s on %s", p, pin.Name())
	h.Edge(p, s.engaged(pin.Read()), s.now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if pin.WaitForEdge(s.PollTimeout) {
			h.Edge(p, s.engaged(pin.Read()), s.now())
		}
	}
}
