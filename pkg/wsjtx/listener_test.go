package wsjtx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/qrp.go/pkg/framework"
)

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "timed out")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestListenerKeepsLatest(t *testing.T) {
	l := &Listener{}
	require.Nil(t, l.Take())
	l.Put(&DatagramMsg{Data: []byte{1}})
	l.Put(&DatagramMsg{Data: []byte{2}})
	require.Equal(t, []byte{2}, l.Take().Data)
	require.Nil(t, l.Take())
	require.Equal(t, 1, l.Dropped())
}

func TestListenerPostsToLoop(t *testing.T) {
	l := &Listener{}
	loop := fx.NewLoop()
	loop.AddController(fx.PrLvSense, l)
	var got [][]byte
	loop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if msg, ok := mctx.CurrentMessage().(*DatagramMsg); ok {
				mctx.MessageTaken()
				got = append(got, msg.Data)
			}
		}))
		return nil
	}))
	l.Put(&DatagramMsg{Data: []byte("a")})
	l.Put(&DatagramMsg{Data: []byte("b")})
	loop.RunIteration(context.Background(), time.Now())
	loop.RunIteration(context.Background(), time.Now())
	require.Equal(t, [][]byte{[]byte("b")}, got)
}

func TestListenerReceives(t *testing.T) {
	l := NewConfig().NewListener()
	l.Addr = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(fx.WithLoopCtl(ctx, fx.NewLoop())) }()

	waitFor(t, func() bool { return l.LocalAddr() != nil })
	sent := &StatusMessage{Mode: "FT4", TxMessage: "CQ"}
	require.NoError(t, Send(ctx, l.LocalAddr().String(), sent))

	var msg *DatagramMsg
	waitFor(t, func() bool {
		msg = l.Take()
		return msg != nil
	})
	decoded, err := Decode(msg.Data)
	require.NoError(t, err)
	require.Equal(t, "FT4", decoded.Mode)

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestConfigDisabled(t *testing.T) {
	conf := NewConfig()
	conf.Addr = ""
	require.Nil(t, conf.NewListener())
}
