package modectl

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/qrp.go/pkg/link"
)

// Link codes understood by the synthesizer board.
const (
	// CodeTransmit carries a TransmitRequest; the board replies once
	// the transmission is scheduled.
	CodeTransmit byte = 0x02
	// EventTxDone is raised when the board finishes a transmission.
	EventTxDone byte = 0x82
)

// DefaultSynthTimeout bounds the wait for the board to accept a
// transmission.
const DefaultSynthTimeout = time.Second

// SynthEncoder hands requests to a synthesizer board, which owns
// symbol encoding and the RF chain.
type SynthEncoder struct {
	Client  *link.Client
	Timeout time.Duration
}

// NewSynthEncoder creates a SynthEncoder and logs board events.
func NewSynthEncoder(c *link.Client) *SynthEncoder {
	c.OnEvent = func(f *link.Frame) {
		if f.Code == EventTxDone {
			glog.Info("Synthesizer transmission done")
			return
		}
		glog.V(2).Infof("Synthesizer event %#02x %x", f.Code, f.Data)
	}
	return &SynthEncoder{Client: c, Timeout: DefaultSynthTimeout}
}

// Transmit implements Encoder.
func (e *SynthEncoder) Transmit(ctx context.Context, req Request) error {
	data, err := proto.Marshal(req.Msg())
	if err != nil {
		return err
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	_, err = e.Client.Do(ctx, CodeTransmit, data)
	return err
}
