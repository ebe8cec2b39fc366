package wsjtx

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/qrp.go/pkg/mode"
)

// packet builds datagrams field by field.
type packet []byte

func (p packet) u8(v uint8) packet { return append(p, v) }
func (p packet) b(v bool) packet {
	if v {
		return p.u8(1)
	}
	return p.u8(0)
}
func (p packet) u32(v uint32) packet { return binary.BigEndian.AppendUint32(p, v) }
func (p packet) u64(v uint64) packet { return binary.BigEndian.AppendUint64(p, v) }
func (p packet) i32(v int32) packet  { return p.u32(uint32(v)) }
func (p packet) str(s string) packet { return append(p.i32(int32(len(s))), s...) }
func (p packet) null() packet        { return p.i32(-1) }

func header(typ uint32) packet {
	return packet{}.u32(Magic).u32(3).u32(typ)
}

func statusPacket(txMessage string) packet {
	return header(TypeStatus).
		str("WSJT-X").
		u64(14074000000).
		str("FT8").
		str("K1ABC").
		str("-10").
		str("FT8").
		b(true).  // tx enabled
		b(true).  // transmitting
		b(false). // decoding
		u32(1200).
		u32(1500).
		str("N0CALL").
		str("FN31").
		null().    // dx grid
		b(false).  // watchdog
		null().    // sub-mode
		b(false).  // fast mode
		u8(0).     // special operation
		u32(0).    // tolerance
		u32(15000).
		str("Default").
		str(txMessage)
}

func TestDecodeStatus(t *testing.T) {
	m, err := Decode(statusPacket(" CQ TEST "))
	require.NoError(t, err)
	require.Equal(t, &StatusMessage{
		Header:          Header{Magic: Magic, Schema: 3},
		ClientID:        "WSJT-X",
		DialFrequencyHz: 14074000000,
		Mode:            "FT8",
		DxCall:          "K1ABC",
		Report:          "-10",
		TxMode:          "FT8",
		TxEnabled:       true,
		Transmitting:    true,
		RxOffsetHz:      1200,
		TxOffsetHz:      1500,
		DeCall:          "N0CALL",
		DeGrid:          "FN31",
		TRPeriodMs:      15000,
		ConfigName:      "Default",
		TxMessage:       "CQ TEST",
	}, m)
	require.Equal(t, uint64(14074001500), m.TxFrequencyHz())
	require.Equal(t, mode.FT8, m.OperatingMode())
}

func TestEncodeRoundTrip(t *testing.T) {
	orig := &StatusMessage{
		ClientID:        "WSJT-X",
		DialFrequencyHz: 7074000,
		Mode:            "WSPR",
		TxEnabled:       true,
		TxOffsetHz:      1500,
		SpecialOpMode:   3,
		TxMessage:       "N0CALL FN31 23",
	}
	m, err := Decode(Encode(orig))
	require.NoError(t, err)
	orig.Header = Header{Magic: Magic, Schema: DefaultSchema}
	require.Equal(t, orig, m)
}

func TestDecodeTruncated(t *testing.T) {
	full := statusPacket("CQ TEST")
	// the exact-size buffer decodes; every shorter prefix fails cleanly.
	_, err := Decode(full)
	require.NoError(t, err)
	for n := 0; n < len(full); n++ {
		m, err := Decode(full[:n:n])
		require.Nil(t, m)
		require.True(t, errors.Is(err, ErrTruncated), "prefix %d: %v", n, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name  string
		data  packet
		kind  error
		field string
	}{
		{
			name:  "heartbeat",
			data:  header(0).str("WSJT-X").u32(3),
			kind:  ErrUnsupportedType,
			field: "type",
		},
		{
			name:  "decode message",
			data:  header(2),
			kind:  ErrUnsupportedType,
			field: "type",
		},
		{
			name:  "negative length",
			data:  header(TypeStatus).i32(-2),
			kind:  ErrInvalidLength,
			field: "id",
		},
		{
			name:  "absurd length",
			data:  header(TypeStatus).i32(MaxStringLength + 1),
			kind:  ErrInvalidLength,
			field: "id",
		},
		{
			name:  "max int32 length",
			data:  header(TypeStatus).str("id").u64(1).i32(0x7fffffff),
			kind:  ErrInvalidLength,
			field: "mode",
		},
		{
			name:  "string longer than payload",
			data:  append(header(TypeStatus).i32(10), "short"...),
			kind:  ErrTruncated,
			field: "id",
		},
		{
			name:  "short header",
			data:  packet{0xad, 0xbc},
			kind:  ErrTruncated,
			field: "magic",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Decode(tc.data)
			require.Nil(t, m)
			require.True(t, errors.Is(err, tc.kind), "%v", err)
			var de *DecodeError
			require.True(t, errors.As(err, &de))
			require.Equal(t, tc.field, de.Field)
			require.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestDecodeUnknownMode(t *testing.T) {
	data := Encode(&StatusMessage{Mode: "MSK144", TxEnabled: true})
	m, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, mode.Disabled, m.OperatingMode())
	// the match is case sensitive.
	m.Mode = "ft8"
	require.Equal(t, mode.Disabled, m.OperatingMode())
}

func TestTxOperatingMode(t *testing.T) {
	testCases := []struct {
		mode, txMode string
		expected     mode.Mode
	}{
		{"FT8", "", mode.FT8},
		{"FT8", "FT4", mode.FT4},
		{"FT8", "MSK144", mode.Disabled},
		{"", "", mode.Disabled},
	}
	for _, tc := range testCases {
		m := &StatusMessage{Mode: tc.mode, TxMode: tc.txMode}
		require.Equal(t, tc.expected, m.TxOperatingMode(), "%q/%q", tc.mode, tc.txMode)
	}
}
