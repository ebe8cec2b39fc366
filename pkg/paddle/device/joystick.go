package device

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/paddle"
)

// ButtonEvent is a button change read from a joystick.
type ButtonEvent struct {
	Index   int
	Pressed bool
	// Init marks the synthetic events the kernel emits on open to
	// report the initial state.
	Init bool
}

// Joystick is an opened joystick device.
type Joystick interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// ReadButton blocks until the next button event.
	ReadButton() (ButtonEvent, error)
}

// JoystickSource uses two joystick buttons as paddle contacts. USB
// paddle adapters commonly enumerate as a joystick.
type JoystickSource struct {
	DeviceIndex int
	DitButton   int
	DahButton   int

	open func(index int) (Joystick, error)
	now  func() time.Time
}

// NewJoystickSource creates a source reading /dev/input/js<index>;
// a negative index detects the first available device.
func NewJoystickSource(index int) *JoystickSource {
	return &JoystickSource{
		DeviceIndex: index,
		DitButton:   0,
		DahButton:   1,
		open:        openJoystick,
		now:         time.Now,
	}
}

// Run implements Source.
func (s *JoystickSource) Run(ctx context.Context, h paddle.EdgeHandler) error {
	js, err := s.open(s.DeviceIndex)
	if err != nil {
		return fmt.Errorf("open joystick: %w", err)
	}
	glog.Infof("paddle joystick %d %q opened", js.Index(), js.Name())
	return fx.RunWithContextCloser(ctx, js, func() error {
		for {
			ev, err := js.ReadButton()
			if err != nil {
				return err
			}
			s.dispatch(ev, h)
		}
	})
}

func (s *JoystickSource) dispatch(ev ButtonEvent, h paddle.EdgeHandler) {
	var p paddle.Paddle
	switch ev.Index {
	case s.DitButton:
		p = paddle.Dit
	case s.DahButton:
		p = paddle.Dah
	default:
		return
	}
	glog.V(3).Infof("joystick button %d (%s) pressed=%v init=%v", ev.Index, p, ev.Pressed, ev.Init)
	h.Edge(p, ev.Pressed, s.now())
}
