package radio

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/qrp.go/pkg/cli/sh"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

// statusCache is implemented by connections remembering the last
// status the radio reported.
type statusCache interface {
	Status() (*msgs.DeviceStatus, time.Time)
}

var (
	// StatusCmd exposes StatusQuery command, or with "cached" prints
	// the last status received without asking the radio.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "[cached]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 || c.Args[0] != "cached" {
				sh.DoCommand(c, &msgs.StatusQuery{})
				return
			}
			s := sh.ShellFrom(c)
			cache, ok := s.Loop.Conn.(statusCache)
			if !ok {
				c.Err(fmt.Errorf("connection keeps no status"))
				return
			}
			st, at := cache.Status()
			if st == nil {
				c.Err(fmt.Errorf("no status received yet"))
				return
			}
			c.Printf("(%s ago) ", time.Since(at).Round(time.Millisecond))
			s.Print(c, st)
		}),
	}

	// SpeedCmd exposes SetSpeed command.
	SpeedCmd = ishell.Cmd{
		Name:    "speed",
		Aliases: []string{"wpm"},
		Help:    "WPM [FARNSWORTH_WPM]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("WPM required"))
				return
			}
			var msg msgs.SetSpeed
			val, err := strconv.ParseUint(c.Args[0], 10, 32)
			if err != nil {
				c.Err(fmt.Errorf("Invalid WPM: %v", err))
				return
			}
			msg.Wpm = uint32(val)
			if len(c.Args) > 1 {
				if val, err = strconv.ParseUint(c.Args[1], 10, 32); err != nil {
					c.Err(fmt.Errorf("Invalid FARNSWORTH_WPM: %v", err))
					return
				}
				msg.FarnsworthWpm = uint32(val)
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// MessageCmd exposes SetTxMessage command.
	MessageCmd = ishell.Cmd{
		Name:    "msg",
		Aliases: []string{"m"},
		Help:    "TEXT...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.SetTxMessage{Message: strings.Join(c.Args, " ")})
		}),
	}

	// ModeCmd exposes SetMode command.
	ModeCmd = ishell.Cmd{
		Name:    "mode",
		Help:    "MODE [FREQUENCY(Hz)]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("MODE required"))
				return
			}
			msg := msgs.SetMode{Mode: c.Args[0]}
			if len(c.Args) > 1 {
				val, err := strconv.ParseUint(c.Args[1], 10, 64)
				if err != nil {
					c.Err(fmt.Errorf("Invalid FREQUENCY: %v", err))
					return
				}
				msg.FrequencyHz = val
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// TxCmd exposes SetTxEnabled command.
	TxCmd = ishell.Cmd{
		Name:    "tx",
		Help:    "[on|off]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			enabled := true
			if len(c.Args) > 0 {
				switch c.Args[0] {
				case "on", "1", "true":
				case "off", "0", "false":
					enabled = false
				default:
					c.Err(fmt.Errorf("Invalid argument %q", c.Args[0]))
					return
				}
			}
			sh.DoCommand(c, &msgs.SetTxEnabled{Enabled: enabled})
		}),
	}

	// SendCmd sets the message and arms TX in one go.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			if err := sh.DoCommand(c, &msgs.SetTxMessage{Message: strings.Join(c.Args, " ")}); err != nil {
				return
			}
			sh.DoCommand(c, &msgs.SetTxEnabled{Enabled: true})
		}),
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&SpeedCmd,
		&MessageCmd,
		&ModeCmd,
		&TxCmd,
		&SendCmd,
	)
}
