package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/qrp.go/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic reply carrying a command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// StatusQuery queries the device status.
type StatusQuery struct {
}

// NewMessage implements Message.
func (m *StatusQuery) NewMessage() fx.Message { return &StatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StatusQuery) TypeID() uint32 { return StatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *StatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StatusQuery) Reset() { *m = StatusQuery{} }

// String implements proto.Message.
func (m *StatusQuery) String() string { return proto.CompactTextString(m) }

// StatusReply is the response for StatusQuery.
type StatusReply struct {
	Status *DeviceStatus `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

// NewMessage implements Message.
func (m *StatusReply) NewMessage() fx.Message { return &StatusReply{} }

// TypeID implements SerializableMessage.
func (m *StatusReply) TypeID() uint32 { return StatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *StatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *StatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StatusReply) Reset() { *m = StatusReply{} }

// String implements proto.Message.
func (m *StatusReply) String() string { return proto.CompactTextString(m) }

// DeviceStatus is the event published whenever the device state changes.
type DeviceStatus struct {
	Mode             string `protobuf:"bytes,1,opt,name=mode,proto3" json:"mode,omitempty"`
	FrequencyCentiHz uint64 `protobuf:"varint,2,opt,name=frequency_centi_hz,json=frequencyCentiHz,proto3" json:"frequency_centi_hz,omitempty"`
	TxEnabled        bool   `protobuf:"varint,3,opt,name=tx_enabled,json=txEnabled,proto3" json:"tx_enabled,omitempty"`
	TxMessage        string `protobuf:"bytes,4,opt,name=tx_message,json=txMessage,proto3" json:"tx_message,omitempty"`
	Callsign         string `protobuf:"bytes,5,opt,name=callsign,proto3" json:"callsign,omitempty"`
	Grid             string `protobuf:"bytes,6,opt,name=grid,proto3" json:"grid,omitempty"`
	DxCall           string `protobuf:"bytes,7,opt,name=dx_call,json=dxCall,proto3" json:"dx_call,omitempty"`
	Power            int32  `protobuf:"varint,8,opt,name=power,proto3" json:"power,omitempty"`
	Wpm              uint32 `protobuf:"varint,9,opt,name=wpm,proto3" json:"wpm,omitempty"`
	FarnsworthWpm    uint32 `protobuf:"varint,10,opt,name=farnsworth_wpm,json=farnsworthWpm,proto3" json:"farnsworth_wpm,omitempty"`
	KeyerState       string `protobuf:"bytes,11,opt,name=keyer_state,json=keyerState,proto3" json:"keyer_state,omitempty"`
	Sending          bool   `protobuf:"varint,12,opt,name=sending,proto3" json:"sending,omitempty"`
}

// NewMessage implements Message.
func (m *DeviceStatus) NewMessage() fx.Message { return &DeviceStatus{} }

// TypeID implements SerializableMessage.
func (m *DeviceStatus) TypeID() uint32 { return DeviceStatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *DeviceStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DeviceStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DeviceStatus) Reset() { *m = DeviceStatus{} }

// String implements proto.Message.
func (m *DeviceStatus) String() string { return proto.CompactTextString(m) }

// SetSpeed sets the keying speed.
type SetSpeed struct {
	Wpm           uint32 `protobuf:"varint,1,opt,name=wpm,proto3" json:"wpm,omitempty"`
	FarnsworthWpm uint32 `protobuf:"varint,2,opt,name=farnsworth_wpm,json=farnsworthWpm,proto3" json:"farnsworth_wpm,omitempty"`
}

// NewMessage implements Message.
func (m *SetSpeed) NewMessage() fx.Message { return &SetSpeed{} }

// TypeID implements SerializableMessage.
func (m *SetSpeed) TypeID() uint32 { return SetSpeedTypeID }

// Serializable implements SerializableMessage.
func (m *SetSpeed) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SetSpeed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SetSpeed) Reset() { *m = SetSpeed{} }

// String implements proto.Message.
func (m *SetSpeed) String() string { return proto.CompactTextString(m) }

// SetTxMessage replaces the message sent in CW modes.
type SetTxMessage struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewMessage implements Message.
func (m *SetTxMessage) NewMessage() fx.Message { return &SetTxMessage{} }

// TypeID implements SerializableMessage.
func (m *SetTxMessage) TypeID() uint32 { return SetTxMessageTypeID }

// Serializable implements SerializableMessage.
func (m *SetTxMessage) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SetTxMessage) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SetTxMessage) Reset() { *m = SetTxMessage{} }

// String implements proto.Message.
func (m *SetTxMessage) String() string { return proto.CompactTextString(m) }

// SetMode switches the operating mode. A zero frequency selects the mode default.
type SetMode struct {
	Mode        string `protobuf:"bytes,1,opt,name=mode,proto3" json:"mode,omitempty"`
	FrequencyHz uint64 `protobuf:"varint,2,opt,name=frequency_hz,json=frequencyHz,proto3" json:"frequency_hz,omitempty"`
}

// NewMessage implements Message.
func (m *SetMode) NewMessage() fx.Message { return &SetMode{} }

// TypeID implements SerializableMessage.
func (m *SetMode) TypeID() uint32 { return SetModeTypeID }

// Serializable implements SerializableMessage.
func (m *SetMode) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SetMode) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SetMode) Reset() { *m = SetMode{} }

// String implements proto.Message.
func (m *SetMode) String() string { return proto.CompactTextString(m) }

// SetTxEnabled arms or disarms the one-shot transmit latch.
type SetTxEnabled struct {
	Enabled bool `protobuf:"varint,1,opt,name=enabled,proto3" json:"enabled,omitempty"`
}

// NewMessage implements Message.
func (m *SetTxEnabled) NewMessage() fx.Message { return &SetTxEnabled{} }

// TypeID implements SerializableMessage.
func (m *SetTxEnabled) TypeID() uint32 { return SetTxEnabledTypeID }

// Serializable implements SerializableMessage.
func (m *SetTxEnabled) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SetTxEnabled) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SetTxEnabled) Reset() { *m = SetTxEnabled{} }

// String implements proto.Message.
func (m *SetTxEnabled) String() string { return proto.CompactTextString(m) }

// KeyEvent reports a key line transition.
type KeyEvent struct {
	Down     bool  `protobuf:"varint,1,opt,name=down,proto3" json:"down,omitempty"`
	UnixNano int64 `protobuf:"varint,2,opt,name=unix_nano,json=unixNano,proto3" json:"unix_nano,omitempty"`
}

// NewMessage implements Message.
func (m *KeyEvent) NewMessage() fx.Message { return &KeyEvent{} }

// TypeID implements SerializableMessage.
func (m *KeyEvent) TypeID() uint32 { return KeyEventTypeID }

// Serializable implements SerializableMessage.
func (m *KeyEvent) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *KeyEvent) ProtoMessage() {}

// Reset implements proto.Message.
func (m *KeyEvent) Reset() { *m = KeyEvent{} }

// String implements proto.Message.
func (m *KeyEvent) String() string { return proto.CompactTextString(m) }

// KeyedText reports a word decoded from what was keyed.
type KeyedText struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
}

// NewMessage implements Message.
func (m *KeyedText) NewMessage() fx.Message { return &KeyedText{} }

// TypeID implements SerializableMessage.
func (m *KeyedText) TypeID() uint32 { return KeyedTextTypeID }

// Serializable implements SerializableMessage.
func (m *KeyedText) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *KeyedText) ProtoMessage() {}

// Reset implements proto.Message.
func (m *KeyedText) Reset() { *m = KeyedText{} }

// String implements proto.Message.
func (m *KeyedText) String() string { return proto.CompactTextString(m) }

// TransmitRequest asks an external encoder service to transmit one message.
type TransmitRequest struct {
	Mode               string `protobuf:"bytes,1,opt,name=mode,proto3" json:"mode,omitempty"`
	FrequencyCentiHz   uint64 `protobuf:"varint,2,opt,name=frequency_centi_hz,json=frequencyCentiHz,proto3" json:"frequency_centi_hz,omitempty"`
	Message            string `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
	Callsign           string `protobuf:"bytes,4,opt,name=callsign,proto3" json:"callsign,omitempty"`
	Grid               string `protobuf:"bytes,5,opt,name=grid,proto3" json:"grid,omitempty"`
	Power              int32  `protobuf:"varint,6,opt,name=power,proto3" json:"power,omitempty"`
	SymbolCount        uint32 `protobuf:"varint,7,opt,name=symbol_count,json=symbolCount,proto3" json:"symbol_count,omitempty"`
	ToneSpacingCentiHz uint32 `protobuf:"varint,8,opt,name=tone_spacing_centi_hz,json=toneSpacingCentiHz,proto3" json:"tone_spacing_centi_hz,omitempty"`
	SymbolDelayUs      uint32 `protobuf:"varint,9,opt,name=symbol_delay_us,json=symbolDelayUs,proto3" json:"symbol_delay_us,omitempty"`
}

// NewMessage implements Message.
func (m *TransmitRequest) NewMessage() fx.Message { return &TransmitRequest{} }

// TypeID implements SerializableMessage.
func (m *TransmitRequest) TypeID() uint32 { return TransmitRequestTypeID }

// Serializable implements SerializableMessage.
func (m *TransmitRequest) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *TransmitRequest) ProtoMessage() {}

// Reset implements proto.Message.
func (m *TransmitRequest) Reset() { *m = TransmitRequest{} }

// String implements proto.Message.
func (m *TransmitRequest) String() string { return proto.CompactTextString(m) }

// WSJTXStatus relays a status update received from WSJT-X.
type WSJTXStatus struct {
	ClientId        string `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3" json:"client_id,omitempty"`
	Mode            string `protobuf:"bytes,2,opt,name=mode,proto3" json:"mode,omitempty"`
	DialFrequencyHz uint64 `protobuf:"varint,3,opt,name=dial_frequency_hz,json=dialFrequencyHz,proto3" json:"dial_frequency_hz,omitempty"`
	TxOffsetHz      uint32 `protobuf:"varint,4,opt,name=tx_offset_hz,json=txOffsetHz,proto3" json:"tx_offset_hz,omitempty"`
	TxEnabled       bool   `protobuf:"varint,5,opt,name=tx_enabled,json=txEnabled,proto3" json:"tx_enabled,omitempty"`
	Transmitting    bool   `protobuf:"varint,6,opt,name=transmitting,proto3" json:"transmitting,omitempty"`
	DxCall          string `protobuf:"bytes,7,opt,name=dx_call,json=dxCall,proto3" json:"dx_call,omitempty"`
	TxMessage       string `protobuf:"bytes,8,opt,name=tx_message,json=txMessage,proto3" json:"tx_message,omitempty"`
}

// NewMessage implements Message.
func (m *WSJTXStatus) NewMessage() fx.Message { return &WSJTXStatus{} }

// TypeID implements SerializableMessage.
func (m *WSJTXStatus) TypeID() uint32 { return WSJTXStatusTypeID }

// Serializable implements SerializableMessage.
func (m *WSJTXStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *WSJTXStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *WSJTXStatus) Reset() { *m = WSJTXStatus{} }

// String implements proto.Message.
func (m *WSJTXStatus) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupRadio   uint32 = 0x00010000
	GroupKeyer   uint32 = 0x00020000
	GroupWSJTX   uint32 = 0x00030000
)

// TypeIDs
const (
	CommandOKTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID        uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	StatusQueryTypeID       uint32 = GroupRadio | 0x0000
	StatusReplyTypeID       uint32 = StatusQueryTypeID | TypeIDMaskReply
	SetSpeedTypeID          uint32 = GroupRadio | 0x0001
	SetTxMessageTypeID      uint32 = GroupRadio | 0x0002
	SetModeTypeID           uint32 = GroupRadio | 0x0003
	SetTxEnabledTypeID      uint32 = GroupRadio | 0x0004
	DeviceStatusEventTypeID uint32 = GroupRadio | TypeIDKindEvent | 0x0000
	TransmitRequestTypeID   uint32 = GroupRadio | TypeIDKindEvent | 0x0001
	KeyEventTypeID          uint32 = GroupKeyer | TypeIDKindEvent | 0x0000
	KeyedTextTypeID         uint32 = GroupKeyer | TypeIDKindEvent | 0x0001
	WSJTXStatusTypeID       uint32 = GroupWSJTX | TypeIDKindEvent | 0x0000
)

func init() {
	Register(
		(*CommandOK)(nil),
		(*CommandErr)(nil),
		(*StatusQuery)(nil),
		(*StatusReply)(nil),
		(*DeviceStatus)(nil),
		(*SetSpeed)(nil),
		(*SetTxMessage)(nil),
		(*SetMode)(nil),
		(*SetTxEnabled)(nil),
		(*KeyEvent)(nil),
		(*KeyedText)(nil),
		(*TransmitRequest)(nil),
		(*WSJTXStatus)(nil),
	)
}
