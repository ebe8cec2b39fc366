// Package modectl applies WSJT-X status updates and remote commands
// to the device state and triggers transmissions.
package modectl

import (
	"context"
	"errors"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/qrp.go/pkg/device"
	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/keyer"
	"github.com/robotalks/qrp.go/pkg/mode"
	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
	"github.com/robotalks/qrp.go/pkg/wsjtx"
)

// Controller owns the device state on behalf of WSJT-X and remote
// clients.
//
// TxEnabled is a one-shot latch: a transmission consumes it. A status
// update that is still transmitting the same mode and message belongs
// to the window already triggered and does not trigger again; the
// guard resets when an update reports transmitting=false.
type Controller struct {
	State   device.Writer
	Encoder Encoder

	// Registrar is optional; status changes and relayed WSJT-X status
	// are published through it.
	Registrar remote.Registrar
	// Keyer and Sender are optional, reported in status.
	Keyer  *keyer.Keyer
	Sender *keyer.MessageSender

	window    bool
	windowKey windowKey

	published *msgs.DeviceStatus
	relay     *msgs.WSJTXStatus
}

type windowKey struct {
	mode    mode.Mode
	message string
}

// NewController creates a Controller.
func NewController(state device.Writer, enc Encoder) *Controller {
	return &Controller{State: state, Encoder: enc}
}

// WithRegistrar publishes status through r.
func (c *Controller) WithRegistrar(r remote.Registrar) *Controller {
	c.Registrar = r
	return c
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, c)
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.publish))
}

// HandleDatagram decodes and applies one datagram. A datagram that
// fails to decode leaves the state untouched.
func (c *Controller) HandleDatagram(ctx context.Context, data []byte) error {
	m, err := wsjtx.Decode(data)
	if err != nil {
		return err
	}
	return c.Apply(ctx, m)
}

// Apply replaces the mode, frequency, message and station fields
// with the content of m as one group, then requests a transmission if
// m reports transmitting with TX enabled.
func (c *Controller) Apply(ctx context.Context, m *wsjtx.StatusMessage) error {
	op := m.OperatingMode()
	armed := m.TxEnabled && op != mode.Disabled && m.TxOperatingMode() != mode.Disabled
	key := windowKey{mode: op, message: m.TxMessage}
	// a repeat within the window is stored disarmed.
	repeat := m.Transmitting && c.window && c.windowKey == key
	var st device.State
	c.State.Update(func(s *device.State) {
		s.Mode = op
		s.Frequency = device.FrequencyFromHz(m.TxFrequencyHz())
		s.TxMessage = m.TxMessage
		s.DxCall = m.DxCall
		if m.DeCall != "" {
			s.Callsign = m.DeCall
		}
		if m.DeGrid != "" {
			s.Grid = m.DeGrid
		}
		s.TxEnabled = armed && !repeat
		st = *s
	})
	c.relay = &msgs.WSJTXStatus{
		ClientId:        m.ClientID,
		Mode:            m.Mode,
		DialFrequencyHz: m.DialFrequencyHz,
		TxOffsetHz:      m.TxOffsetHz,
		TxEnabled:       m.TxEnabled,
		Transmitting:    m.Transmitting,
		DxCall:          m.DxCall,
		TxMessage:       m.TxMessage,
	}

	switch {
	case !m.Transmitting:
		c.window = false
		return nil
	case repeat:
		glog.V(2).Infof("%s %q already requested in this window", op, m.TxMessage)
		return nil
	case !st.TxEnabled:
		return nil
	}
	c.window, c.windowKey = true, key
	return c.transmit(ctx, st)
}

// Transmit requests a transmission of the current state if TxEnabled
// is set, consuming it.
func (c *Controller) Transmit(ctx context.Context) error {
	st := c.State.Snapshot()
	if !st.TxEnabled || !st.Mode.IsDigital() {
		return nil
	}
	return c.transmit(ctx, st)
}

// transmit is called without the state lock held; TxEnabled is
// cleared whether or not the encoder succeeds.
func (c *Controller) transmit(ctx context.Context, st device.State) error {
	defer c.disarm()
	req := RequestFrom(st)
	glog.Infof("Transmit %s %q on %s", req.Mode, req.Message, req.Frequency)
	if c.Encoder == nil {
		return &EncoderFailure{Mode: req.Mode, Err: ErrNoEncoder}
	}
	err := c.Encoder.Transmit(ctx, req)
	var failure *EncoderFailure
	if err != nil && !errors.As(err, &failure) {
		err = &EncoderFailure{Mode: req.Mode, Err: err}
	}
	return err
}

func (c *Controller) disarm() {
	c.State.Update(func(s *device.State) {
		s.TxEnabled = false
	})
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *wsjtx.DatagramMsg:
			mctx.MessageTaken()
			err := c.HandleDatagram(cc.Context(), msg.Data)
			var decodeErr *wsjtx.DecodeError
			switch {
			case errors.Is(err, wsjtx.ErrUnsupportedType):
				glog.V(4).Infof("WSJT-X %s: %v", msg.From, err)
			case errors.As(err, &decodeErr):
				glog.Warningf("WSJT-X %s: %v", msg.From, err)
			default:
				errs.Add(err)
			}
		case *remote.CommandMsg:
			if reply := c.handleCommand(cc.Context(), msg.Command.Msg()); reply != nil {
				mctx.MessageTaken()
				if err := msg.Command.Done(reply); err != nil {
					glog.Warningf("Reply command: %v", err)
				}
			}
		}
	}))
	return errs.Aggregate()
}

func (c *Controller) handleCommand(ctx context.Context, cmd fx.Message) fx.Message {
	switch m := cmd.(type) {
	case *msgs.StatusQuery:
		return &msgs.StatusReply{Status: c.Status()}
	case *msgs.SetSpeed:
		if _, err := keyer.NewFarnsworthTiming(int(m.Wpm), int(m.FarnsworthWpm)); err != nil {
			return msgs.NewCommandErr(err)
		}
		c.State.Update(func(s *device.State) {
			s.WPM, s.FarnsworthWPM = int(m.Wpm), int(m.FarnsworthWpm)
		})
	case *msgs.SetTxMessage:
		c.State.Update(func(s *device.State) {
			s.TxMessage = strings.TrimSpace(m.Message)
		})
	case *msgs.SetMode:
		op, err := mode.Parse(strings.ToUpper(m.Mode))
		if err != nil {
			return msgs.NewCommandErr(err)
		}
		hz := m.FrequencyHz
		if hz == 0 {
			hz = op.Params().DefaultFrequencyHz
		}
		c.State.Update(func(s *device.State) {
			if s.Mode != op {
				s.TxEnabled = false
			}
			s.Mode, s.Frequency = op, device.FrequencyFromHz(hz)
		})
	case *msgs.SetTxEnabled:
		st := c.State.Snapshot()
		if m.Enabled && st.Mode == mode.Disabled {
			return msgs.NewCommandErrFromMsg("transmit is disabled in mode " + st.Mode.String())
		}
		c.State.Update(func(s *device.State) {
			s.TxEnabled = m.Enabled
		})
		if err := c.Transmit(ctx); err != nil {
			return msgs.NewCommandErr(err)
		}
	default:
		return nil
	}
	return msgs.NewCommandOK()
}

// Status reports the current state.
func (c *Controller) Status() *msgs.DeviceStatus {
	st := c.State.Snapshot()
	status := &msgs.DeviceStatus{
		Mode:             st.Mode.String(),
		FrequencyCentiHz: uint64(st.Frequency),
		TxEnabled:        st.TxEnabled,
		TxMessage:        st.TxMessage,
		Callsign:         st.Callsign,
		Grid:             st.Grid,
		DxCall:           st.DxCall,
		Power:            int32(st.Power),
		Wpm:              uint32(st.WPM),
		FarnsworthWpm:    uint32(st.FarnsworthWPM),
	}
	if c.Keyer != nil {
		status.KeyerState = c.Keyer.State().String()
	}
	if c.Sender != nil {
		status.Sending = c.Sender.Sending()
	}
	return status
}

// publish sends a status event whenever the status differs from the
// last one published, and relays the last applied WSJT-X status.
func (c *Controller) publish(cc fx.ControlContext) error {
	if c.Registrar == nil {
		return nil
	}
	var errs fx.AggregatedError
	if relay := c.relay; relay != nil {
		c.relay = nil
		errs.Add(c.Registrar.SendEvent(cc.Context(), relay))
	}
	status := c.Status()
	if c.published == nil || *c.published != *status {
		c.published = status
		errs.Add(c.Registrar.SendEvent(cc.Context(), status))
	}
	return errs.Aggregate()
}
