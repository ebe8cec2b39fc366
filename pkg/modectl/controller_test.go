package modectl

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/qrp.go/pkg/device"
	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/link"
	"github.com/robotalks/qrp.go/pkg/mode"
	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
	"github.com/robotalks/qrp.go/pkg/wsjtx"
)

type recordingEncoder struct {
	requests []Request
	err      error
	during   func()
}

func (e *recordingEncoder) Transmit(ctx context.Context, req Request) error {
	e.requests = append(e.requests, req)
	if e.during != nil {
		e.during()
	}
	return e.err
}

func ft8Status(transmitting bool, message string) *wsjtx.StatusMessage {
	return &wsjtx.StatusMessage{
		DialFrequencyHz: 14074000000,
		Mode:            "FT8",
		TxEnabled:       true,
		Transmitting:    transmitting,
		TxOffsetHz:      1500,
		DxCall:          "K1ABC",
		TxMessage:       message,
	}
}

func newTestController() (*Controller, *device.Store, *recordingEncoder) {
	store := device.NewStore(device.State{Callsign: "N0CALL", Grid: "FN31", Power: 23, WPM: 15})
	enc := &recordingEncoder{}
	return NewController(store, Encoders{mode.FT8: enc, mode.WSPR: enc}), store, enc
}

func TestApplyTriggersOnce(t *testing.T) {
	c, store, enc := newTestController()
	ctx := context.Background()

	data := wsjtx.Encode(ft8Status(true, " CQ TEST "))
	require.NoError(t, c.HandleDatagram(ctx, data))
	require.Len(t, enc.requests, 1)
	req := enc.requests[0]
	require.Equal(t, mode.FT8, req.Mode)
	require.Equal(t, device.Frequency(1407400150000), req.Frequency)
	require.Equal(t, "CQ TEST", req.Message)
	require.Equal(t, "N0CALL", req.Callsign)
	require.Equal(t, 79, req.Params.SymbolCount)

	st := store.Snapshot()
	require.False(t, st.TxEnabled)
	require.Equal(t, mode.FT8, st.Mode)
	require.Equal(t, device.FrequencyFromHz(14074001500), st.Frequency)
	require.Equal(t, "CQ TEST", st.TxMessage)
	require.Equal(t, "K1ABC", st.DxCall)
	require.Equal(t, "FN31", st.Grid)

	// the same window again.
	require.NoError(t, c.HandleDatagram(ctx, data))
	require.Len(t, enc.requests, 1)
	require.False(t, store.Snapshot().TxEnabled)

	// a different message is a new transmission.
	require.NoError(t, c.Apply(ctx, ft8Status(true, "K1ABC N0CALL -10")))
	require.Len(t, enc.requests, 2)

	// the window closes, then the first message is sent again.
	require.NoError(t, c.Apply(ctx, ft8Status(false, "CQ TEST")))
	require.Len(t, enc.requests, 2)
	require.True(t, store.Snapshot().TxEnabled)
	require.NoError(t, c.HandleDatagram(ctx, data))
	require.Len(t, enc.requests, 3)
}

func TestApplyWithoutTransmitting(t *testing.T) {
	c, store, enc := newTestController()
	require.NoError(t, c.Apply(context.Background(), ft8Status(false, "CQ TEST")))
	require.Empty(t, enc.requests)
	require.True(t, store.Snapshot().TxEnabled)
}

func TestApplyStationFields(t *testing.T) {
	c, store, _ := newTestController()
	m := ft8Status(false, "CQ")
	m.DeCall, m.DeGrid = "W1AW", "FN31pr"
	require.NoError(t, c.Apply(context.Background(), m))
	st := store.Snapshot()
	require.Equal(t, "W1AW", st.Callsign)
	require.Equal(t, "FN31pr", st.Grid)
}

func TestApplyUnknownMode(t *testing.T) {
	c, store, enc := newTestController()
	m := ft8Status(true, "CQ")
	m.Mode = "MSK144"
	require.NoError(t, c.Apply(context.Background(), m))
	require.Empty(t, enc.requests)
	st := store.Snapshot()
	require.Equal(t, mode.Disabled, st.Mode)
	require.False(t, st.TxEnabled)
}

func TestApplyTxMode(t *testing.T) {
	testCases := []struct {
		txMode    string
		triggered bool
	}{
		{"", true},
		{"FT8", true},
		{"MSK144", false},
		{"ft8", false},
	}
	for _, tc := range testCases {
		t.Run(tc.txMode, func(t *testing.T) {
			c, store, enc := newTestController()
			m := ft8Status(true, "CQ TEST")
			m.TxMode = tc.txMode
			require.NoError(t, c.Apply(context.Background(), m))
			require.Equal(t, tc.triggered, len(enc.requests) == 1)
			st := store.Snapshot()
			require.Equal(t, mode.FT8, st.Mode)
			require.False(t, st.TxEnabled)
		})
	}

	c, store, enc := newTestController()
	m := ft8Status(false, "CQ TEST")
	m.TxMode = "MSK144"
	require.NoError(t, c.Apply(context.Background(), m))
	require.Empty(t, enc.requests)
	require.False(t, store.Snapshot().TxEnabled)
}

// latchLog records TxEnabled after every Update.
type latchLog struct {
	*device.Store
	seen []bool
}

func (l *latchLog) Update(fn func(*device.State)) {
	l.Store.Update(fn)
	l.seen = append(l.seen, l.Store.Snapshot().TxEnabled)
}

func TestApplyRepeatStaysDisarmed(t *testing.T) {
	_, store, enc := newTestController()
	log := &latchLog{Store: store}
	c := NewController(log, Encoders{mode.FT8: enc})
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, ft8Status(true, "CQ TEST")))
	require.Equal(t, []bool{true, false}, log.seen)

	log.seen = nil
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Apply(ctx, ft8Status(true, "CQ TEST")))
	}
	require.Len(t, enc.requests, 1)
	require.Equal(t, []bool{false, false, false}, log.seen)
}

func TestHandleDatagramKeepsState(t *testing.T) {
	valid := wsjtx.Encode(ft8Status(false, "CQ TEST"))
	heartbeat := append(append([]byte(nil), valid[:8]...), 0, 0, 0, 0, 0, 0, 0, 1)
	testCases := []struct {
		name string
		data []byte
		kind error
	}{
		{"heartbeat", heartbeat, wsjtx.ErrUnsupportedType},
		{"truncated", valid[:len(valid)-3], wsjtx.ErrTruncated},
		{"empty", nil, wsjtx.ErrTruncated},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, store, enc := newTestController()
			require.NoError(t, c.Apply(context.Background(), ft8Status(false, "73")))
			before, version := store.Snapshot(), store.Version()
			err := c.HandleDatagram(context.Background(), tc.data)
			require.True(t, errors.Is(err, tc.kind), "%v", err)
			require.Equal(t, before, store.Snapshot())
			require.Equal(t, version, store.Version())
			require.Empty(t, enc.requests)
		})
	}
}

func TestEncoderFailure(t *testing.T) {
	c, store, enc := newTestController()
	enc.err = errors.New("synthesizer busy")
	err := c.Apply(context.Background(), ft8Status(true, "CQ"))
	var failure *EncoderFailure
	require.True(t, errors.As(err, &failure))
	require.Equal(t, mode.FT8, failure.Mode)
	require.Equal(t, enc.err, errors.Unwrap(err))
	require.False(t, store.Snapshot().TxEnabled)
	require.Len(t, enc.requests, 1)

	m := ft8Status(true, "CQ")
	m.Mode = "JT65"
	err = c.Apply(context.Background(), m)
	require.True(t, errors.Is(err, ErrNoEncoder))
	require.True(t, errors.As(err, &failure))
	require.Equal(t, mode.JT65, failure.Mode)
	require.False(t, store.Snapshot().TxEnabled)
}

func TestEncoderCalledWithoutLock(t *testing.T) {
	c, store, enc := newTestController()
	done := make(chan struct{})
	enc.during = func() {
		// both would block forever if the store lock were held.
		store.Snapshot()
		store.Update(func(*device.State) {})
		close(done)
	}
	go c.Apply(context.Background(), ft8Status(true, "CQ"))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("encoder called with the state lock held")
	}
}

type fakeCommand struct {
	msg   fx.Message
	reply fx.Message
}

func (c *fakeCommand) Msg() fx.Message { return c.msg }
func (c *fakeCommand) Done(reply fx.Message) error {
	c.reply = reply
	return nil
}

type fakeRegistrar struct {
	events []fx.Message
}

func (r *fakeRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func runCommand(c *Controller, loop *fx.Loop, msg fx.Message) fx.Message {
	cmd := &fakeCommand{msg: msg}
	loop.PostMessage(&remote.CommandMsg{Command: cmd})
	loop.RunIteration(context.Background(), time.Now())
	return cmd.reply
}

func TestCommands(t *testing.T) {
	c, store, enc := newTestController()
	loop := fx.NewLoop().Add(c)

	reply := runCommand(c, loop, &msgs.SetMode{Mode: "wspr"})
	require.Equal(t, msgs.NewCommandOK(), reply)
	st := store.Snapshot()
	require.Equal(t, mode.WSPR, st.Mode)
	require.Equal(t, device.FrequencyFromHz(14097200), st.Frequency)

	require.IsType(t, &msgs.CommandErr{}, runCommand(c, loop, &msgs.SetMode{Mode: "RTTY"}))

	require.Equal(t, msgs.NewCommandOK(), runCommand(c, loop, &msgs.SetSpeed{Wpm: 25, FarnsworthWpm: 18}))
	require.Equal(t, 25, store.Snapshot().WPM)
	require.Equal(t, 18, store.Snapshot().FarnsworthWPM)
	require.IsType(t, &msgs.CommandErr{}, runCommand(c, loop, &msgs.SetSpeed{Wpm: 0}))
	require.Equal(t, 25, store.Snapshot().WPM)

	require.Equal(t, msgs.NewCommandOK(), runCommand(c, loop, &msgs.SetTxMessage{Message: " N0CALL FN31 23 "}))
	require.Equal(t, "N0CALL FN31 23", store.Snapshot().TxMessage)

	// arming a digital mode locally transmits right away.
	require.Equal(t, msgs.NewCommandOK(), runCommand(c, loop, &msgs.SetTxEnabled{Enabled: true}))
	require.Len(t, enc.requests, 1)
	require.Equal(t, "N0CALL FN31 23", enc.requests[0].Message)
	require.False(t, store.Snapshot().TxEnabled)

	status := runCommand(c, loop, &msgs.StatusQuery{}).(*msgs.StatusReply).Status
	require.Equal(t, "WSPR", status.Mode)
	require.Equal(t, uint64(1409720000), status.FrequencyCentiHz)
	require.Equal(t, uint32(25), status.Wpm)

	// other commands are left for someone else.
	require.Nil(t, runCommand(c, loop, &msgs.CommandOK{}))
}

func TestCommandsCWArm(t *testing.T) {
	c, store, enc := newTestController()
	loop := fx.NewLoop().Add(c)
	require.Equal(t, msgs.NewCommandOK(), runCommand(c, loop, &msgs.SetMode{Mode: "CW"}))
	require.Equal(t, msgs.NewCommandOK(), runCommand(c, loop, &msgs.SetTxEnabled{Enabled: true}))
	// the CW message sender consumes the latch.
	require.True(t, store.Snapshot().TxEnabled)
	require.Empty(t, enc.requests)

	require.Equal(t, msgs.NewCommandOK(), runCommand(c, loop, &msgs.SetMode{Mode: "FT8"}))
	require.False(t, store.Snapshot().TxEnabled)
}

func TestPublish(t *testing.T) {
	c, _, _ := newTestController()
	reg := &fakeRegistrar{}
	c.WithRegistrar(reg)
	loop := fx.NewLoop().Add(c)

	loop.RunIteration(context.Background(), time.Now())
	require.Len(t, reg.events, 1)
	require.IsType(t, &msgs.DeviceStatus{}, reg.events[0])

	loop.RunIteration(context.Background(), time.Now())
	require.Len(t, reg.events, 1)

	loop.PostMessage(&wsjtx.DatagramMsg{Data: wsjtx.Encode(ft8Status(false, "CQ"))})
	loop.RunIteration(context.Background(), time.Now())
	require.Len(t, reg.events, 3)
	relay := reg.events[1].(*msgs.WSJTXStatus)
	require.Equal(t, "FT8", relay.Mode)
	require.Equal(t, uint32(1500), relay.TxOffsetHz)
	status := reg.events[2].(*msgs.DeviceStatus)
	require.Equal(t, "FT8", status.Mode)
	require.True(t, status.TxEnabled)

	// a malformed datagram is dropped without an error or an event.
	loop.PostMessage(&wsjtx.DatagramMsg{Data: []byte{1, 2, 3}})
	loop.RunIteration(context.Background(), time.Now())
	require.Len(t, reg.events, 3)
}

func TestEventEncoder(t *testing.T) {
	reg := &fakeRegistrar{}
	encoders := ForDigitalModes(&EventEncoder{Registrar: reg})
	require.Nil(t, encoders[mode.CW])
	require.Nil(t, encoders[mode.Disabled])
	require.NotNil(t, encoders[mode.FSQ4_5])

	st := device.State{
		Mode:      mode.WSPR,
		Frequency: device.FrequencyFromHz(14097100),
		TxMessage: "N0CALL FN31 23",
		Callsign:  "N0CALL",
		Grid:      "FN31",
		Power:     23,
	}
	require.NoError(t, encoders.Transmit(context.Background(), RequestFrom(st)))
	require.Equal(t, []fx.Message{&msgs.TransmitRequest{
		Mode:               "WSPR",
		FrequencyCentiHz:   1409710000,
		Message:            "N0CALL FN31 23",
		Callsign:           "N0CALL",
		Grid:               "FN31",
		Power:              23,
		SymbolCount:        162,
		ToneSpacingCentiHz: 146,
		SymbolDelayUs:      683000,
	}}, reg.events)
}

func TestSynthEncoder(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *msgs.TransmitRequest, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var board link.Link
		board.Handler = link.HandleFrameFunc(func(ctx context.Context, f *link.Frame) {
			var req msgs.TransmitRequest
			if f.Code != CodeTransmit || proto.Unmarshal(f.Data, &req) != nil {
				board.Send(&link.Frame{Code: f.Code | link.FlagError, Data: []byte{byte(f.Seq)}})
				return
			}
			received <- &req
			board.Send(&link.Frame{Code: CodeTransmit, Data: []byte{byte(f.Seq)}})
		})
		board.Run(ctx, conn)
	}()

	conf := link.NewConfig()
	conf.Addr = "tcp://" + ln.Addr().String()
	r := conf.NewRunner()
	go r.Run(ctx)
	deadline := time.Now().Add(5 * time.Second)
	for !r.Link.State().IsReady() {
		require.True(t, time.Now().Before(deadline), "link not ready")
		time.Sleep(time.Millisecond)
	}

	store := device.NewStore(device.State{Callsign: "N0CALL", Grid: "FN31", Power: 23})
	c := NewController(store, ForDigitalModes(NewSynthEncoder(r.Client)))
	require.NoError(t, c.Apply(ctx, ft8Status(true, "CQ N0CALL FN31")))
	req := <-received
	require.Equal(t, "FT8", req.Mode)
	require.Equal(t, uint64(1407400150000), req.FrequencyCentiHz)
	require.Equal(t, "CQ N0CALL FN31", req.Message)
	require.Equal(t, uint32(79), req.SymbolCount)
	require.False(t, store.Snapshot().TxEnabled)
}
