package modectl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robotalks/qrp.go/pkg/device"
	"github.com/robotalks/qrp.go/pkg/mode"
	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

// ErrNoEncoder indicates no encoder is registered for the mode.
var ErrNoEncoder = errors.New("no encoder")

// EncoderFailure is returned when a transmission could not be
// requested. It is not retried.
type EncoderFailure struct {
	Mode mode.Mode
	Err  error
}

func (e *EncoderFailure) Error() string {
	return fmt.Sprintf("encoder %s: %v", e.Mode, e.Err)
}

// Unwrap returns the cause.
func (e *EncoderFailure) Unwrap() error {
	return e.Err
}

// Request describes one transmission.
type Request struct {
	Mode      mode.Mode
	Frequency device.Frequency
	Message   string
	Callsign  string
	Grid      string
	Power     int
	Params    mode.Params
}

// RequestFrom builds a Request from a state snapshot.
func RequestFrom(st device.State) Request {
	return Request{
		Mode:      st.Mode,
		Frequency: st.Frequency,
		Message:   st.TxMessage,
		Callsign:  st.Callsign,
		Grid:      st.Grid,
		Power:     st.Power,
		Params:    st.Mode.Params(),
	}
}

// Encoder turns a Request into RF.
type Encoder interface {
	Transmit(context.Context, Request) error
}

// EncoderFunc is the func form of Encoder.
type EncoderFunc func(context.Context, Request) error

// Transmit implements Encoder.
func (f EncoderFunc) Transmit(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// Encoders selects the Encoder by mode.
type Encoders map[mode.Mode]Encoder

// Transmit implements Encoder, failures are *EncoderFailure.
func (e Encoders) Transmit(ctx context.Context, req Request) error {
	enc := e[req.Mode]
	if enc == nil {
		return &EncoderFailure{Mode: req.Mode, Err: ErrNoEncoder}
	}
	if err := enc.Transmit(ctx, req); err != nil {
		return &EncoderFailure{Mode: req.Mode, Err: err}
	}
	return nil
}

// EventEncoder hands requests to an external encoder service as
// TransmitRequest events.
type EventEncoder struct {
	Registrar remote.Registrar
}

// Transmit implements Encoder.
func (e *EventEncoder) Transmit(ctx context.Context, req Request) error {
	return e.Registrar.SendEvent(ctx, req.Msg())
}

// Msg converts req to its wire form.
func (req Request) Msg() *msgs.TransmitRequest {
	return &msgs.TransmitRequest{
		Mode:               req.Mode.String(),
		FrequencyCentiHz:   uint64(req.Frequency),
		Message:            req.Message,
		Callsign:           req.Callsign,
		Grid:               req.Grid,
		Power:              int32(req.Power),
		SymbolCount:        uint32(req.Params.SymbolCount),
		ToneSpacingCentiHz: req.Params.ToneSpacing,
		SymbolDelayUs:      uint32(req.Params.SymbolDelay / time.Microsecond),
	}
}

// ForDigitalModes registers enc for every digital mode.
func ForDigitalModes(enc Encoder) Encoders {
	encoders := make(Encoders)
	for _, m := range mode.All() {
		if m.IsDigital() {
			encoders[m] = enc
		}
	}
	return encoders
}
