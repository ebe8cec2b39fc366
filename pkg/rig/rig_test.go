package rig

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/periph/conn/gpio"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/keyer"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

type fakePin struct {
	levels []gpio.Level
	err    error
}

func (p *fakePin) Name() string { return "GPIO17" }

func (p *fakePin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.levels = append(p.levels, l)
	return nil
}

func TestLine(t *testing.T) {
	testCases := []struct {
		name      string
		activeLow bool
		expect    []gpio.Level
	}{
		{"active high", false, []gpio.Level{gpio.Low, gpio.High, gpio.Low, gpio.Low}},
		{"active low", true, []gpio.Level{gpio.High, gpio.Low, gpio.High, gpio.High}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pin := &fakePin{}
			line, err := newLine(pin, tc.activeLow)
			require.NoError(t, err)
			require.False(t, line.Keyed())
			line.KeyDown()
			line.KeyDown()
			require.True(t, line.Keyed())
			line.KeyUp()
			line.KeyUp()
			require.False(t, line.Keyed())
			require.NoError(t, line.Close())
			require.Equal(t, tc.expect, pin.levels)
		})
	}
}

func TestLineError(t *testing.T) {
	pin := &fakePin{}
	line, err := newLine(pin, false)
	require.NoError(t, err)
	pin.err = errors.New("busy")
	line.KeyDown()
	require.False(t, line.Keyed())

	_, err = newLine(&fakePin{err: errors.New("busy")}, false)
	require.Error(t, err)
}

type keyLog []string

func (l *keyLog) KeyDown() { *l = append(*l, "down") }
func (l *keyLog) KeyUp()   { *l = append(*l, "up") }

func TestFanout(t *testing.T) {
	var a, b keyLog
	var sink keyer.Sink = Fanout{&a, LogSink{}, &b}
	sink.KeyDown()
	sink.KeyUp()
	require.Equal(t, keyLog{"down", "up"}, a)
	require.Equal(t, a, b)
}

type fakeRegistrar struct {
	events []fx.Message
}

func (r *fakeRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func TestEventSink(t *testing.T) {
	reg := &fakeRegistrar{}
	sink := NewEventSink(reg)
	base := time.Unix(100, 0)
	sink.now = func() time.Time { return base }

	loop := fx.NewLoop()
	loop.Add(sink)
	loop.AddController(fx.PrLvAcuate, fx.ControlFunc(func(fx.ControlContext) error {
		sink.KeyDown()
		sink.KeyUp()
		return nil
	}))
	loop.RunIteration(context.Background(), base)
	require.Equal(t, []fx.Message{
		&msgs.KeyEvent{Down: true, UnixNano: base.UnixNano()},
		&msgs.KeyEvent{Down: false, UnixNano: base.UnixNano()},
	}, reg.events)
}

func TestNewRigWithoutLine(t *testing.T) {
	conf := NewConfig()
	conf.KeyPin = ""
	r, err := conf.NewRig(nil)
	require.NoError(t, err)
	require.Nil(t, r.Line)
	require.Nil(t, r.Events)
	require.NotNil(t, r.Sink)
	require.NoError(t, r.Close())

	conf.KeyEvents = true
	reg := &fakeRegistrar{}
	r, err = conf.NewRig(reg)
	require.NoError(t, err)
	require.NotNil(t, r.Events)
	r.Sink.KeyDown()
	require.Len(t, r.Events.pending, 1)
}
