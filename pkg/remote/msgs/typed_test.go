package msgs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedRoundTrip(t *testing.T) {
	status := &DeviceStatus{
		Mode:             "FT8",
		FrequencyCentiHz: 1407400150000,
		TxEnabled:        true,
		TxMessage:        "CQ N0CALL FN31",
		Power:            -3,
		Wpm:              20,
	}
	typed, err := TypedFrom(&StatusReply{Status: status})
	require.NoError(t, err)
	typed.Sequence = 7
	require.True(t, typed.IsCommand())
	require.True(t, typed.IsReply())

	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, uint32(7), decoded.Sequence)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.Equal(t, status, msg.(*StatusReply).Status)
}

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		msg     SerializableMessage
		event   bool
		reply   bool
		command bool
	}{
		{msg: &StatusQuery{}, command: true},
		{msg: &SetTxEnabled{Enabled: true}, command: true},
		{msg: &CommandOK{}, command: true, reply: true},
		{msg: &CommandErr{Message: "x"}, command: true, reply: true},
		{msg: &DeviceStatus{}, event: true},
		{msg: &TransmitRequest{Mode: "WSPR"}, event: true},
		{msg: &KeyEvent{Down: true}, event: true},
		{msg: &WSJTXStatus{}, event: true},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%T", tc.msg), func(t *testing.T) {
			typed, err := TypedFrom(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.event, typed.IsEvent())
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, tc.reply, typed.IsReply())
			_, registered := MessageTypes[typed.TypeId]
			require.True(t, registered)
		})
	}
}

func TestTypedErrors(t *testing.T) {
	_, err := TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)

	_, err = (&Typed{TypeId: unknownTypeID}).Decode()
	require.Equal(t, &ErrUnknownType{TypeID: unknownTypeID}, err)

	require.Panics(t, func() { Register(&CommandOK{}) })
}

const unknownTypeID uint32 = 0x7f000001
