package device

import (
	"flag"
	"fmt"
	"io/ioutil"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/qrp.go/pkg/mode"
)

// Profile is the station profile file seeding the state at startup.
type Profile struct {
	Callsign      string `yaml:"callsign"`
	Grid          string `yaml:"grid"`
	Power         int    `yaml:"power"`
	WPM           int    `yaml:"wpm"`
	FarnsworthWPM int    `yaml:"farnsworthWpm"`
	Mode          string `yaml:"mode"`
	FrequencyHz   uint64 `yaml:"frequencyHz"`
	TxMessage     string `yaml:"txMessage"`
}

// Config selects the profile.
type Config struct {
	ProfilePath string
	Profile     Profile
}

var defaultConfig = Config{
	Profile: Profile{
		Power: DefaultPower,
		WPM:   15,
		Mode:  mode.CW.String(),
	},
}

// SetupFlags sets command line flags.
func SetupFlags() {
	p := &defaultConfig.Profile
	flag.StringVar(&defaultConfig.ProfilePath, "profile", defaultConfig.ProfilePath, "Station profile YAML file.")
	flag.StringVar(&p.Callsign, "callsign", p.Callsign, "Station callsign.")
	flag.StringVar(&p.Grid, "grid", p.Grid, "Station Maidenhead locator.")
	flag.IntVar(&p.Power, "power", p.Power, "Transmit power reported in WSPR (dBm).")
	flag.IntVar(&p.WPM, "wpm", p.WPM, "Keying speed in words per minute.")
	flag.IntVar(&p.FarnsworthWPM, "fwpm", p.FarnsworthWPM, "Farnsworth spacing speed, 0 to disable.")
	flag.StringVar(&p.Mode, "mode", p.Mode, "Initial operating mode.")
	flag.Uint64Var(&p.FrequencyHz, "freq", p.FrequencyHz, "Initial frequency (Hz), 0 for the mode default.")
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

// LoadProfile reads a profile file over defaults.
func LoadProfile(path string, defaults Profile) (Profile, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return defaults, err
	}
	return ParseProfile(data, defaults)
}

// ParseProfile decodes YAML over defaults.
func ParseProfile(data []byte, defaults Profile) (Profile, error) {
	p := defaults
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return defaults, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// State validates the profile and converts it into the initial State.
func (p Profile) State() (State, error) {
	m, err := mode.Parse(strings.ToUpper(p.Mode))
	if err != nil {
		return State{}, err
	}
	if p.WPM <= 0 {
		return State{}, fmt.Errorf("wpm must be positive, got %d", p.WPM)
	}
	if p.FarnsworthWPM < 0 || p.FarnsworthWPM > p.WPM {
		return State{}, fmt.Errorf("farnsworth wpm must be in [0, %d], got %d", p.WPM, p.FarnsworthWPM)
	}
	hz := p.FrequencyHz
	if hz == 0 {
		hz = m.Params().DefaultFrequencyHz
	}
	return State{
		Mode:          m,
		Frequency:     FrequencyFromHz(hz),
		TxMessage:     strings.TrimSpace(p.TxMessage),
		Callsign:      strings.ToUpper(p.Callsign),
		Grid:          p.Grid,
		Power:         p.Power,
		WPM:           p.WPM,
		FarnsworthWPM: p.FarnsworthWPM,
	}, nil
}

// NewStore loads the profile (if any) and creates the Store.
func (c *Config) NewStore() (*Store, error) {
	p := c.Profile
	if c.ProfilePath != "" {
		var err error
		if p, err = LoadProfile(c.ProfilePath, p); err != nil {
			return nil, err
		}
	}
	st, err := p.State()
	if err != nil {
		return nil, fmt.Errorf("station profile: %w", err)
	}
	return NewStore(st), nil
}
