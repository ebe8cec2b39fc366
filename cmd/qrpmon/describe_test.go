package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

func TestDescribePacket(t *testing.T) {
	encode := func(msg fx.Message, seq uint32) []byte {
		typed, err := msgs.TypedFrom(msg)
		require.NoError(t, err)
		typed.Sequence = seq
		pkt, err := typed.Encode()
		require.NoError(t, err)
		return pkt
	}
	testCases := []struct {
		name    string
		topic   string
		payload []byte
		line    string
	}{
		{"online", "qrp/abc/meta", []byte(`{"callsign":"N0CALL"}`), "qrp/abc online as N0CALL"},
		{"offline", "qrp/abc/meta", nil, "qrp/abc offline"},
		{"status", "qrp/abc/msg", encode(&msgs.DeviceStatus{
			Mode: "FT8", FrequencyCentiHz: 1407400000, TxEnabled: true, TxMessage: "CQ N0CALL FN42", Wpm: 20,
		}, 0), `qrp/abc status FT8 14.074000 MHz tx on "CQ N0CALL FN42" 20 wpm`},
		{"key down", "qrp/abc/msg", encode(&msgs.KeyEvent{Down: true}, 0), "qrp/abc key down at "},
		{"keyed text", "qrp/abc/msg", encode(&msgs.KeyedText{Text: "CQ"}, 0), `qrp/abc keyed "CQ"`},
		{"set speed", "qrp/abc/cmd", encode(&msgs.SetSpeed{Wpm: 18}, 3), "qrp/abc -> #3 speed 18 wpm"},
		{"set tx", "qrp/abc/cmd", encode(&msgs.SetTxEnabled{}, 4), "qrp/abc -> #4 tx off"},
		{"ok", "qrp/abc/msg", encode(msgs.NewCommandOK(), 4), "qrp/abc <- #4 ok"},
		{"error", "qrp/abc/msg", encode(msgs.NewCommandErrFromMsg("busy"), 5), "qrp/abc <- #5 error: busy"},
		{"reply", "qrp/abc/msg", encode(&msgs.StatusReply{}, 6), "qrp/abc <- #6 no status"},
		{"bad packet", "qrp/abc/msg", []byte{0xff, 0xff}, "qrp/abc bad packet: "},
		{"other topic", "qrp/abc", []byte("x"), "qrp/abc: x"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line := describePacket(tc.topic, tc.payload)
			require.Contains(t, line, tc.line)
		})
	}
}
