// Package wsjtx provides shell commands acting as a WSJT-X instance,
// useful to exercise a radio without running WSJT-X.
package wsjtx

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/qrp.go/pkg/cli/sh"
	"github.com/robotalks/qrp.go/pkg/wsjtx"
)

var (
	targetAddr = fmt.Sprintf("127.0.0.1:%d", wsjtx.DefaultPort)
	clientID   = "WSJT-X"
)

func init() {
	flag.StringVar(&targetAddr, "wsjtx-target", targetAddr, "UDP address of the radio listening for WSJT-X status.")
	flag.StringVar(&clientID, "wsjtx-id", clientID, "Client id in sent status.")
}

// ParseStatus builds a status from MODE DIAL_HZ TX_DF [MESSAGE...].
func ParseStatus(args []string) (*wsjtx.StatusMessage, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("MODE DIAL_HZ TX_DF required")
	}
	dial, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("Invalid DIAL_HZ: %v", err)
	}
	df, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("Invalid TX_DF: %v", err)
	}
	return &wsjtx.StatusMessage{
		ClientID:        clientID,
		Mode:            strings.ToUpper(args[0]),
		TxMode:          strings.ToUpper(args[0]),
		DialFrequencyHz: dial,
		TxOffsetHz:      uint32(df),
		TxMessage:       strings.Join(args[3:], " "),
	}, nil
}

func send(c *ishell.Context, m *wsjtx.StatusMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := wsjtx.Send(ctx, targetAddr, m); err != nil {
		c.Err(err)
		return
	}
	if !sh.ShellFrom(c).OutputJSON {
		c.Printf("sent %s %d+%d %q to %s\n", m.Mode, m.DialFrequencyHz, m.TxOffsetHz, m.TxMessage, targetAddr)
	}
}

var (
	// StatusCmd sends a status with TX disabled.
	StatusCmd = ishell.Cmd{
		Name:    "wsjtx.status",
		Aliases: []string{"wst"},
		Help:    "MODE DIAL_HZ TX_DF [MESSAGE...]",
		Func: func(c *ishell.Context) {
			m, err := ParseStatus(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			send(c, m)
		},
	}

	// TransmitCmd sends a status reporting a transmission in progress.
	TransmitCmd = ishell.Cmd{
		Name:    "wsjtx.tx",
		Aliases: []string{"wtx"},
		Help:    "MODE DIAL_HZ TX_DF MESSAGE...",
		Func: func(c *ishell.Context) {
			m, err := ParseStatus(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			m.TxEnabled, m.Transmitting = true, true
			send(c, m)
		},
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&TransmitCmd,
	)
}
