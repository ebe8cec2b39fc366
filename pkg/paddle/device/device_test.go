package device

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/periph/conn/gpio"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/qrp.go/pkg/paddle"
)

type recordedEdge struct {
	p       paddle.Paddle
	engaged bool
}

type edgeRecorder struct {
	lock  sync.Mutex
	edges []recordedEdge
	cond  chan struct{}
}

func newEdgeRecorder() *edgeRecorder {
	return &edgeRecorder{cond: make(chan struct{}, 16)}
}

func (r *edgeRecorder) Edge(p paddle.Paddle, engaged bool, at time.Time) {
	r.lock.Lock()
	r.edges = append(r.edges, recordedEdge{p: p, engaged: engaged})
	r.lock.Unlock()
	select {
	case r.cond <- struct{}{}:
	default:
	}
}

func (r *edgeRecorder) snapshot() []recordedEdge {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]recordedEdge(nil), r.edges...)
}

type fakePin struct {
	name   string
	level  gpio.Level
	edges  chan gpio.Level
	lock   sync.Mutex
	pull   gpio.Pull
	edge   gpio.Edge
	inErr  error
	closed bool

	releaseErr error
	released   bool
}

func (p *fakePin) Name() string { return p.name }

func (p *fakePin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.pull, p.edge = pull, edge
	if edge == gpio.NoEdge {
		p.released = true
		return p.releaseErr
	}
	return p.inErr
}

func (p *fakePin) Read() gpio.Level {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.level
}

func (p *fakePin) WaitForEdge(timeout time.Duration) bool {
	select {
	case l := <-p.edges:
		p.lock.Lock()
		p.level = l
		p.lock.Unlock()
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestGPIOSourceActiveLow(t *testing.T) {
	pins := map[string]*fakePin{
		"DIT": {name: "DIT", level: gpio.High, edges: make(chan gpio.Level)},
		"DAH": {name: "DAH", level: gpio.High, edges: make(chan gpio.Level)},
	}
	src := NewGPIOSource("DIT", "DAH", true)
	src.PollTimeout = time.Millisecond
	src.lookup = func(name string) (inputPin, error) { return pins[name], nil }

	rec := newEdgeRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx, rec) }()

	// initial levels of both pins.
	<-rec.cond
	<-rec.cond
	pins["DIT"].edges <- gpio.Low
	<-rec.cond
	cancel()
	require.Equal(t, context.Canceled, <-errCh)

	edges := rec.snapshot()
	require.Len(t, edges, 3)
	require.ElementsMatch(t, []recordedEdge{{paddle.Dit, false}, {paddle.Dah, false}}, edges[:2])
	require.Equal(t, recordedEdge{paddle.Dit, true}, edges[2])
	require.Equal(t, gpio.PullUp, pins["DIT"].pull)
}

func TestGPIOSourceReleaseError(t *testing.T) {
	pins := map[string]*fakePin{
		"DIT": {name: "DIT", level: gpio.High, edges: make(chan gpio.Level), releaseErr: errors.New("busy")},
		"DAH": {name: "DAH", level: gpio.High, edges: make(chan gpio.Level)},
	}
	src := NewGPIOSource("DIT", "DAH", true)
	src.PollTimeout = time.Millisecond
	src.lookup = func(name string) (inputPin, error) { return pins[name], nil }

	rec := newEdgeRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx, rec) }()
	<-rec.cond
	<-rec.cond
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	for _, pin := range pins {
		require.True(t, pin.released, pin.name)
		require.Equal(t, gpio.NoEdge, pin.edge)
	}
}

func TestGPIOSourceLookupError(t *testing.T) {
	src := NewGPIOSource("X", "Y", false)
	src.lookup = func(name string) (inputPin, error) { return nil, errors.New("no pin") }
	require.EqualError(t, src.Run(context.Background(), newEdgeRecorder()), "no pin")
}

type fakeJoystick struct {
	events chan ButtonEvent
	closed chan struct{}
	once   sync.Once
}

func (j *fakeJoystick) Close() error {
	j.once.Do(func() { close(j.closed) })
	return nil
}
func (j *fakeJoystick) Index() int   { return 0 }
func (j *fakeJoystick) Name() string { return "fake paddle" }
func (j *fakeJoystick) ReadButton() (ButtonEvent, error) {
	select {
	case ev := <-j.events:
		return ev, nil
	case <-j.closed:
		return ButtonEvent{}, io.EOF
	}
}

func TestJoystickSource(t *testing.T) {
	js := &fakeJoystick{events: make(chan ButtonEvent), closed: make(chan struct{})}
	src := NewJoystickSource(0)
	src.DitButton, src.DahButton = 2, 3
	src.open = func(int) (Joystick, error) { return js, nil }

	rec := newEdgeRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx, rec) }()

	js.events <- ButtonEvent{Index: 2, Pressed: true, Init: true}
	js.events <- ButtonEvent{Index: 7, Pressed: true}
	js.events <- ButtonEvent{Index: 3, Pressed: true}
	js.events <- ButtonEvent{Index: 2, Pressed: false}
	<-rec.cond
	<-rec.cond
	<-rec.cond
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	require.Equal(t, []recordedEdge{
		{paddle.Dit, true},
		{paddle.Dah, true},
		{paddle.Dit, false},
	}, rec.snapshot())
}

func TestConfigNewSource(t *testing.T) {
	conf := NewConfig()
	conf.Kind = KindNone
	src, err := conf.NewSource()
	require.NoError(t, err)
	require.Nil(t, src)

	conf.Kind = KindJoystick
	conf.DitButton, conf.DahButton = 4, 5
	src, err = conf.NewSource()
	require.NoError(t, err)
	js, ok := src.(*JoystickSource)
	require.True(t, ok)
	require.Equal(t, 4, js.DitButton)
	require.Equal(t, 5, js.DahButton)

	conf.Kind = "usb"
	_, err = conf.NewSource()
	require.Error(t, err)
}
