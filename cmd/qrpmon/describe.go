package main

import (
	"fmt"
	"strings"
	"time"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func mhz(centiHz uint64) string {
	return fmt.Sprintf("%.6f MHz", float64(centiHz)/1e8)
}

func describeStatus(st *msgs.DeviceStatus) string {
	if st == nil {
		return "no status"
	}
	parts := []string{st.Mode, mhz(st.FrequencyCentiHz), "tx " + onOff(st.TxEnabled)}
	if st.TxMessage != "" {
		parts = append(parts, fmt.Sprintf("%q", st.TxMessage))
	}
	if st.Wpm != 0 {
		parts = append(parts, fmt.Sprintf("%d wpm", st.Wpm))
	}
	if st.Sending {
		parts = append(parts, "sending")
	}
	return strings.Join(parts, " ")
}

// describe renders a decoded message in operator terms.
func describe(typed *msgs.Typed, msg fx.Message) string {
	switch {
	case typed.IsReply():
		return fmt.Sprintf("<- #%d %s", typed.Sequence, describeReply(msg))
	case typed.IsCommand():
		return fmt.Sprintf("-> #%d %s", typed.Sequence, describeCommand(msg))
	}
	switch m := msg.(type) {
	case *msgs.DeviceStatus:
		return "status " + describeStatus(m)
	case *msgs.KeyEvent:
		edge := "up"
		if m.Down {
			edge = "down"
		}
		return fmt.Sprintf("key %s at %s", edge, time.Unix(0, m.UnixNano).Format("15:04:05.000"))
	case *msgs.KeyedText:
		return fmt.Sprintf("keyed %q", m.Text)
	case *msgs.TransmitRequest:
		return fmt.Sprintf("transmit %s %s %q", m.Mode, mhz(m.FrequencyCentiHz), m.Message)
	case *msgs.WSJTXStatus:
		return fmt.Sprintf("wsjtx %s %s %d Hz tx %s %q",
			m.Mode, mhz(m.DialFrequencyHz*100), m.TxOffsetHz, onOff(m.Transmitting), m.TxMessage)
	}
	return fmt.Sprintf("event %T", msg)
}

func describeCommand(msg fx.Message) string {
	switch m := msg.(type) {
	case *msgs.StatusQuery:
		return "status?"
	case *msgs.SetSpeed:
		if m.FarnsworthWpm != 0 {
			return fmt.Sprintf("speed %d/%d wpm", m.Wpm, m.FarnsworthWpm)
		}
		return fmt.Sprintf("speed %d wpm", m.Wpm)
	case *msgs.SetTxMessage:
		return fmt.Sprintf("message %q", m.Message)
	case *msgs.SetMode:
		if m.FrequencyHz != 0 {
			return fmt.Sprintf("mode %s %s", m.Mode, mhz(m.FrequencyHz*100))
		}
		return "mode " + m.Mode
	case *msgs.SetTxEnabled:
		return "tx " + onOff(m.Enabled)
	}
	return fmt.Sprintf("%T", msg)
}

func describeReply(msg fx.Message) string {
	switch m := msg.(type) {
	case *msgs.CommandOK:
		return "ok"
	case *msgs.CommandErr:
		return "error: " + m.Message
	case *msgs.StatusReply:
		return describeStatus(m.Status)
	}
	return fmt.Sprintf("%T", msg)
}
