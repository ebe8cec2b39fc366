package rig

import (
	"sync"
	"time"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

// EventSink collects key transitions and publishes them as KeyEvent
// after each iteration.
type EventSink struct {
	Registrar remote.Registrar

	now     func() time.Time
	lock    sync.Mutex
	pending []*msgs.KeyEvent
}

// NewEventSink creates an EventSink.
func NewEventSink(reg remote.Registrar) *EventSink {
	return &EventSink{Registrar: reg, now: time.Now}
}

// AddToLoop implements LoopAdder.
func (s *EventSink) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, s)
}

func (s *EventSink) add(down bool) {
	s.lock.Lock()
	s.pending = append(s.pending, &msgs.KeyEvent{Down: down, UnixNano: s.now().UnixNano()})
	s.lock.Unlock()
}

// KeyDown implements keyer.Sink.
func (s *EventSink) KeyDown() { s.add(true) }

// KeyUp implements keyer.Sink.
func (s *EventSink) KeyUp() { s.add(false) }

// Control implements Controller.
func (s *EventSink) Control(cc fx.ControlContext) error {
	s.lock.Lock()
	events := s.pending
	s.pending = nil
	s.lock.Unlock()
	var errs fx.AggregatedError
	for _, ev := range events {
		errs.Add(s.Registrar.SendEvent(cc.Context(), ev))
	}
	return errs.Aggregate()
}
