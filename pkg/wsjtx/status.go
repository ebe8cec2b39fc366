// Package wsjtx decodes the status datagrams WSJT-X broadcasts over
// UDP.
package wsjtx

import (
	"strings"

	"github.com/robotalks/qrp.go/pkg/mode"
)

// Wire constants.
const (
	Magic         uint32 = 0xadbccbda
	DefaultSchema uint32 = 2
	TypeStatus    uint32 = 1
	DefaultPort          = 2237
)

// Header is the fixed datagram header. It is recorded, not validated.
type Header struct {
	Magic  uint32
	Schema uint32
}

// StatusMessage is a decoded status update.
type StatusMessage struct {
	Header   Header
	ClientID string

	DialFrequencyHz uint64
	Mode            string
	DxCall          string
	Report          string
	TxMode          string
	TxEnabled       bool
	Transmitting    bool
	Decoding        bool
	RxOffsetHz      uint32
	TxOffsetHz      uint32
	DeCall          string
	DeGrid          string
	DxGrid          string
	TxWatchdog      bool
	SubMode         string
	FastMode        bool
	SpecialOpMode   uint8
	FreqToleranceHz uint32
	TRPeriodMs      uint32
	ConfigName      string
	TxMessage       string
}

// TxFrequencyHz is the transmit frequency: dial plus audio offset.
func (m *StatusMessage) TxFrequencyHz() uint64 {
	return m.DialFrequencyHz + uint64(m.TxOffsetHz)
}

// OperatingMode maps Mode; unknown strings yield mode.Disabled.
func (m *StatusMessage) OperatingMode() mode.Mode {
	return mode.FromWSJTX(m.Mode)
}

// TxOperatingMode maps TxMode the same way; an empty TxMode follows Mode.
func (m *StatusMessage) TxOperatingMode() mode.Mode {
	if m.TxMode == "" {
		return m.OperatingMode()
	}
	return mode.FromWSJTX(m.TxMode)
}

// Decode parses a status datagram. It never reads past data, and any
// failure returns a *DecodeError with no partial record.
func Decode(data []byte) (*StatusMessage, error) {
	c := &cursor{buf: data}
	m := &StatusMessage{}
	m.Header.Magic = c.uint32("magic")
	m.Header.Schema = c.uint32("schema")
	at := c.off
	if typ := c.uint32("type"); c.err == nil && typ != TypeStatus {
		return nil, &DecodeError{Field: "type", Offset: at, Err: ErrUnsupportedType}
	}
	m.ClientID = c.string("id")
	m.DialFrequencyHz = c.uint64("dial frequency")
	m.Mode = c.string("mode")
	m.DxCall = c.string("dx call")
	m.Report = c.string("report")
	m.TxMode = c.string("tx mode")
	m.TxEnabled = c.bool("tx enabled")
	m.Transmitting = c.bool("transmitting")
	m.Decoding = c.bool("decoding")
	m.RxOffsetHz = c.uint32("rx df")
	m.TxOffsetHz = c.uint32("tx df")
	m.DeCall = c.string("de call")
	m.DeGrid = c.string("de grid")
	m.DxGrid = c.string("dx grid")
	m.TxWatchdog = c.bool("tx watchdog")
	m.SubMode = c.string("sub-mode")
	m.FastMode = c.bool("fast mode")
	m.SpecialOpMode = c.uint8("special operation mode")
	m.FreqToleranceHz = c.uint32("frequency tolerance")
	m.TRPeriodMs = c.uint32("t/r period")
	m.ConfigName = c.string("configuration name")
	m.TxMessage = strings.TrimSpace(c.string("tx message"))
	if c.err != nil {
		return nil, c.err
	}
	return m, nil
}

// Encode builds a status datagram. A zero header is written as Magic
// with DefaultSchema.
func Encode(m *StatusMessage) []byte {
	w := &writer{}
	hdr := m.Header
	if hdr.Magic == 0 {
		hdr = Header{Magic: Magic, Schema: DefaultSchema}
	}
	w.uint32(hdr.Magic)
	w.uint32(hdr.Schema)
	w.uint32(TypeStatus)
	w.string(m.ClientID)
	w.uint64(m.DialFrequencyHz)
	w.string(m.Mode)
	w.string(m.DxCall)
	w.string(m.Report)
	w.string(m.TxMode)
	w.bool(m.TxEnabled)
	w.bool(m.Transmitting)
	w.bool(m.Decoding)
	w.uint32(m.RxOffsetHz)
	w.uint32(m.TxOffsetHz)
	w.string(m.DeCall)
	w.string(m.DeGrid)
	w.string(m.DxGrid)
	w.bool(m.TxWatchdog)
	w.string(m.SubMode)
	w.bool(m.FastMode)
	w.uint8(m.SpecialOpMode)
	w.uint32(m.FreqToleranceHz)
	w.uint32(m.TRPeriodMs)
	w.string(m.ConfigName)
	w.string(m.TxMessage)
	return w.buf
}
