// Package device connects physical paddles to a paddle.Input.
package device

import (
	"context"
	"flag"
	"fmt"
	"time"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/paddle"
)

// Source delivers raw paddle edges until ctx is done.
type Source interface {
	Run(ctx context.Context, h paddle.EdgeHandler) error
}

// Source kinds
const (
	KindNone     = "none"
	KindGPIO     = "gpio"
	KindJoystick = "joystick"
)

// Config defines how paddles are attached.
type Config struct {
	Kind      string
	Debounce  time.Duration
	DitPin    string
	DahPin    string
	ActiveLow bool

	JoystickIndex int
	DitButton     int
	DahButton     int
}

var defaultConfig = Config{
	Kind:          KindGPIO,
	Debounce:      paddle.DefaultDebounce,
	DitPin:        "GPIO5",
	DahPin:        "GPIO4",
	ActiveLow:     true,
	JoystickIndex: -1,
	DitButton:     0,
	DahButton:     1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Kind, "paddle", defaultConfig.Kind, "Paddle source: gpio, joystick or none.")
	flag.DurationVar(&defaultConfig.Debounce, "paddle-debounce", defaultConfig.Debounce, "Paddle debounce threshold.")
	flag.StringVar(&defaultConfig.DitPin, "dit-pin", defaultConfig.DitPin, "GPIO name of the dit contact.")
	flag.StringVar(&defaultConfig.DahPin, "dah-pin", defaultConfig.DahPin, "GPIO name of the dah contact.")
	flag.BoolVar(&defaultConfig.ActiveLow, "paddle-active-low", defaultConfig.ActiveLow, "Paddle contacts pull the line low.")
	flag.IntVar(&defaultConfig.JoystickIndex, "paddle-js", defaultConfig.JoystickIndex, "Joystick index, -1 for auto detection.")
	flag.IntVar(&defaultConfig.DitButton, "paddle-js-dit", defaultConfig.DitButton, "Joystick button used as dit.")
	flag.IntVar(&defaultConfig.DahButton, "paddle-js-dah", defaultConfig.DahButton, "Joystick button used as dah.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewSource creates the configured Source. KindNone yields nil.
func (c *Config) NewSource() (Source, error) {
	switch c.Kind {
	case KindNone, "":
		return nil, nil
	case KindGPIO:
		return NewGPIOSource(c.DitPin, c.DahPin, c.ActiveLow), nil
	case KindJoystick:
		src := NewJoystickSource(c.JoystickIndex)
		src.DitButton, src.DahButton = c.DitButton, c.DahButton
		return src, nil
	default:
		return nil, fmt.Errorf("unknown paddle source %q", c.Kind)
	}
}

// NewPaddles creates the debounced input bound to the configured source.
func (c *Config) NewPaddles() (*Paddles, error) {
	src, err := c.NewSource()
	if err != nil {
		return nil, err
	}
	return &Paddles{Input: paddle.NewInput(c.Debounce), Source: src}, nil
}

// Paddles runs a Source in the background feeding Input.
type Paddles struct {
	Input  *paddle.Input
	Source Source
}

// State implements paddle.Source.
func (p *Paddles) State() paddle.State {
	return p.Input.State()
}

// AddToLoop implements LoopAdder.
func (p *Paddles) AddToLoop(l *fx.Loop) {
	if p.Source != nil {
		l.AddRunnable(fx.NamedRun("paddles", p))
	}
}

// Run implements Runnable.
func (p *Paddles) Run(ctx context.Context) error {
	return p.Source.Run(ctx, p.Input)
}
