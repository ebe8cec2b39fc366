package keyer

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/qrp.go/pkg/device"
	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/morse"
	"github.com/robotalks/qrp.go/pkg/paddle"
)

// MessageSender plays the device TxMessage as Morse when the device
// is in a CW mode with TxEnabled set. TxEnabled is cleared once the
// message is complete, or as soon as a paddle is touched.
type MessageSender struct {
	Keyer   *Keyer
	Paddles paddle.Source
	Sink    Sink
	State   device.Writer
	// OnDone is optional.
	OnDone func(text string, aborted bool)

	text     string
	schedule []morse.Symbol
	idx      int
	since    time.Time
	keyed    bool
}

// NewMessageSender creates a MessageSender sharing the keyer's timing
// and sink.
func NewMessageSender(k *Keyer, paddles paddle.Source, sink Sink, state device.Writer) *MessageSender {
	return &MessageSender{Keyer: k, Paddles: paddles, Sink: sink, State: state}
}

// AddToLoop implements LoopAdder. The sender runs just ahead of the
// keyer so a break-in releases the key before the keyer presses it.
func (s *MessageSender) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl-1, s)
}

// Sending reports whether a message is in progress.
func (s *MessageSender) Sending() bool {
	return s.schedule != nil
}

// Control implements Controller.
func (s *MessageSender) Control(cc fx.ControlContext) error {
	st := s.State.Snapshot()
	touched := s.Paddles.State().Any()
	if s.schedule != nil {
		if touched || !st.TxEnabled || !st.Mode.IsCW() {
			s.finish(true)
			return nil
		}
		s.advance(cc.Time())
		return nil
	}
	if !st.TxEnabled || !st.Mode.IsCW() || touched || !s.Keyer.Idle() {
		return nil
	}
	schedule, skipped := morse.Encode(st.TxMessage)
	if len(skipped) > 0 {
		glog.Warningf("No Morse code for %q, skipped", string(skipped))
	}
	glog.Infof("Sending %q at %s", st.TxMessage, s.Keyer.Timing())
	s.text = st.TxMessage
	if len(schedule) == 0 {
		s.finish(false)
		return nil
	}
	s.schedule, s.idx, s.since = schedule, 0, cc.Time()
	s.apply(schedule[0])
	return nil
}

func (s *MessageSender) duration(sym morse.Symbol) time.Duration {
	t := s.Keyer.Timing()
	switch sym {
	case morse.Dah:
		return t.Dah()
	case morse.ElementGap:
		return t.ElementGap()
	case morse.CharacterGap:
		return t.CharacterGap()
	case morse.WordGap:
		return t.WordGap()
	}
	return t.Dit()
}

func (s *MessageSender) advance(now time.Time) {
	if now.Sub(s.since) < s.duration(s.schedule[s.idx]) {
		return
	}
	s.idx++
	s.since = now
	if s.idx >= len(s.schedule) {
		s.finish(false)
		return
	}
	s.apply(s.schedule[s.idx])
}

func (s *MessageSender) apply(sym morse.Symbol) {
	if sym.IsTone() {
		s.keyed = true
		s.Sink.KeyDown()
	} else if s.keyed {
		s.keyed = false
		s.Sink.KeyUp()
	}
}

func (s *MessageSender) finish(aborted bool) {
	if s.keyed {
		s.keyed = false
		s.Sink.KeyUp()
	}
	s.schedule = nil
	s.State.Update(func(st *device.State) {
		st.TxEnabled = false
	})
	if aborted {
		glog.Infof("Message %q aborted", s.text)
	} else {
		glog.V(2).Infof("Message %q sent", s.text)
	}
	if s.OnDone != nil {
		s.OnDone(s.text, aborted)
	}
}
