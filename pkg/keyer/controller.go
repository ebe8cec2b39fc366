package keyer

import (
	"github.com/golang/glog"

	"github.com/robotalks/qrp.go/pkg/device"
	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/morse"
	"github.com/robotalks/qrp.go/pkg/paddle"
)

// Sink drives the key line. Both calls must be idempotent.
type Sink interface {
	KeyDown()
	KeyUp()
}

// SinkFuncs adapts a pair of funcs to Sink.
type SinkFuncs struct {
	Down, Up func()
}

// KeyDown implements Sink.
func (s SinkFuncs) KeyDown() {
	if s.Down != nil {
		s.Down()
	}
}

// KeyUp implements Sink.
func (s SinkFuncs) KeyUp() {
	if s.Up != nil {
		s.Up()
	}
}

// Controller runs a Keyer inside the loop: paddles are sampled at
// PrLvSense, the keyer ticks at PrLvControl and the sink is driven at
// PrLvAcuate.
type Controller struct {
	Keyer   *Keyer
	Paddles paddle.Source
	Sink    Sink
	// Speed is optional; when set, the timing follows its WPM.
	Speed device.Reader

	sample paddle.State
	out    Transition
}

// NewController creates a Controller.
func NewController(k *Keyer, paddles paddle.Source, sink Sink) *Controller {
	return &Controller{Keyer: k, Paddles: paddles, Sink: sink}
}

// WithSpeed makes timing follow the device WPM.
func (c *Controller) WithSpeed(r device.Reader) *Controller {
	c.Speed = r
	return c
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(c.sense))
	l.AddController(fx.PrLvControl, c)
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(c.actuate))
}

func (c *Controller) sense(cc fx.ControlContext) error {
	c.sample = c.Paddles.State()
	if c.Speed == nil {
		return nil
	}
	st := c.Speed.Snapshot()
	cur := c.Keyer.Timing()
	if st.WPM == cur.WPM() && st.FarnsworthWPM == cur.FarnsworthWPM() {
		return nil
	}
	t, err := NewFarnsworthTiming(st.WPM, st.FarnsworthWPM)
	if err != nil {
		return err
	}
	glog.Infof("Keyer timing %s", t)
	return c.Keyer.SetTiming(t)
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	c.out = c.Keyer.Tick(cc.Time(), c.sample)
	return nil
}

func (c *Controller) actuate(cc fx.ControlContext) error {
	switch c.out {
	case KeyDown:
		c.Sink.KeyDown()
	case KeyUp:
		c.Sink.KeyUp()
	}
	c.out = NoTransition
	return nil
}

// Transcriber is an ElementListener decoding sent elements back into
// text.
type Transcriber struct {
	// OnWord receives each completed word.
	OnWord func(string)

	decoder morse.Decoder
}

// ElementSent implements ElementListener.
func (t *Transcriber) ElementSent(e Element) {
	t.decoder.Element(e == Dah)
}

// CharacterEnd implements ElementListener.
func (t *Transcriber) CharacterEnd() {
	t.decoder.EndCharacter()
}

// WordEnd implements ElementListener.
func (t *Transcriber) WordEnd() {
	t.decoder.EndWord()
	word := t.decoder.Text()
	if word == "" {
		return
	}
	glog.V(2).Infof("Keyed %q", word)
	if t.OnWord != nil {
		t.OnWord(word)
	}
}
