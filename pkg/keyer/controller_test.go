package keyer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/qrp.go/pkg/device"
	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/mode"
	"github.com/robotalks/qrp.go/pkg/paddle"
)

type fakePaddles struct {
	state paddle.State
}

func (p *fakePaddles) State() paddle.State { return p.state }

type keyLog struct {
	now    *int
	events []string
}

func (l *keyLog) Sink() Sink {
	return SinkFuncs{
		Down: func() { l.events = append(l.events, fmt.Sprintf("D%d", *l.now)) },
		Up:   func() { l.events = append(l.events, fmt.Sprintf("U%d", *l.now)) },
	}
}

type rig struct {
	now     int
	paddles fakePaddles
	keys    keyLog
	store   *device.Store
	keyer   *Keyer
	sender  *MessageSender
	loop    *fx.Loop
}

func newRig(t *testing.T, st device.State) *rig {
	r := &rig{store: device.NewStore(st)}
	r.keys.now = &r.now
	r.keyer = newKeyer(t, DefaultWPM)
	r.sender = NewMessageSender(r.keyer, &r.paddles, r.keys.Sink(), r.store)
	r.loop = fx.NewLoop().Add(
		NewController(r.keyer, &r.paddles, r.keys.Sink()).WithSpeed(r.store),
		r.sender,
	)
	return r
}

func (r *rig) runTo(ms int, paddles func(int) paddle.State) {
	for ; r.now <= ms; r.now++ {
		if paddles != nil {
			r.paddles.state = paddles(r.now)
		}
		r.loop.RunIteration(context.Background(), at(r.now))
	}
}

func TestControllerKeysSink(t *testing.T) {
	r := newRig(t, device.State{Mode: mode.CW, WPM: 20})
	r.runTo(1000, script(hold{paddle.Dah, 0, 10}))
	require.Equal(t, []string{"D0", "U180"}, r.keys.events)
}

func TestControllerFollowsSpeed(t *testing.T) {
	r := newRig(t, device.State{Mode: mode.CW, WPM: 20})
	r.runTo(0, nil)
	require.Equal(t, 20, r.keyer.Timing().WPM())

	r.store.Update(func(st *device.State) { st.WPM, st.FarnsworthWPM = 10, 5 })
	r.runTo(1, nil)
	require.Equal(t, 10, r.keyer.Timing().WPM())
	require.Equal(t, 5, r.keyer.Timing().FarnsworthWPM())

	// an invalid speed keeps the previous timing.
	r.store.Update(func(st *device.State) { st.WPM = 0 })
	r.runTo(2, nil)
	require.Equal(t, 10, r.keyer.Timing().WPM())
}

func TestMessageSender(t *testing.T) {
	// E: dit, T: dah, separated by a character gap.
	r := newRig(t, device.State{Mode: mode.CW, WPM: 20, TxEnabled: true, TxMessage: "ET"})
	var done []bool
	r.sender.OnDone = func(text string, aborted bool) {
		require.Equal(t, "ET", text)
		done = append(done, aborted)
	}
	r.runTo(419, nil)
	require.True(t, r.sender.Sending())
	require.True(t, r.store.Snapshot().TxEnabled)
	r.runTo(2000, nil)
	require.Equal(t, []string{"D0", "U60", "D240", "U420"}, r.keys.events)
	require.False(t, r.sender.Sending())
	require.False(t, r.store.Snapshot().TxEnabled)
	require.Equal(t, []bool{false}, done)
}

func TestMessageSenderWordGap(t *testing.T) {
	r := newRig(t, device.State{Mode: mode.CW, WPM: 20, TxEnabled: true, TxMessage: "E E"})
	r.runTo(1000, nil)
	require.Equal(t, []string{"D0", "U60", "D480", "U540"}, r.keys.events)
}

func TestMessageSenderBreakIn(t *testing.T) {
	r := newRig(t, device.State{Mode: mode.CW, WPM: 20, TxEnabled: true, TxMessage: "TTT"})
	var done []bool
	r.sender.OnDone = func(_ string, aborted bool) { done = append(done, aborted) }
	r.runTo(1000, script(hold{paddle.Dit, 100, 110}))
	// the sender releases the key and the keyer takes over in the same tick.
	require.Equal(t, []string{"D0", "U100", "D100", "U160"}, r.keys.events)
	require.False(t, r.store.Snapshot().TxEnabled)
	require.Equal(t, []bool{true}, done)
}

func TestMessageSenderIgnored(t *testing.T) {
	testCases := []struct {
		name  string
		state device.State
	}{
		{"not enabled", device.State{Mode: mode.CW, WPM: 20, TxMessage: "E"}},
		{"digital mode", device.State{Mode: mode.FT8, WPM: 20, TxEnabled: true, TxMessage: "E"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, tc.state)
			r.runTo(500, nil)
			require.Empty(t, r.keys.events)
			require.Equal(t, tc.state.TxEnabled, r.store.Snapshot().TxEnabled)
		})
	}
}

func TestMessageSenderEmptyMessage(t *testing.T) {
	r := newRig(t, device.State{Mode: mode.PixieCW, WPM: 20, TxEnabled: true, TxMessage: "~"})
	r.runTo(10, nil)
	require.Empty(t, r.keys.events)
	require.False(t, r.store.Snapshot().TxEnabled)
}
