package device

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/qrp.go/pkg/mode"
)

const testProfile = `
callsign: n0call
grid: FN31
power: 10
wpm: 20
farnsworthWpm: 12
mode: wspr
txMessage: "  CQ N0CALL  "
`

func TestProfileState(t *testing.T) {
	p, err := ParseProfile([]byte(testProfile), NewConfig().Profile)
	require.NoError(t, err)
	st, err := p.State()
	require.NoError(t, err)
	require.Equal(t, State{
		Mode:          mode.WSPR,
		Frequency:     FrequencyFromHz(14097200),
		TxMessage:     "CQ N0CALL",
		Callsign:      "N0CALL",
		Grid:          "FN31",
		Power:         10,
		WPM:           20,
		FarnsworthWPM: 12,
	}, st)
}

func TestProfileDefaults(t *testing.T) {
	p, err := ParseProfile([]byte("frequencyHz: 7030000\n"), NewConfig().Profile)
	require.NoError(t, err)
	st, err := p.State()
	require.NoError(t, err)
	require.Equal(t, mode.CW, st.Mode)
	require.Equal(t, 15, st.WPM)
	require.Equal(t, DefaultPower, st.Power)
	require.Equal(t, FrequencyFromHz(7030000), st.Frequency)
}

func TestProfileInvalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"unknown field", "band: 20m\n"},
		{"unknown mode", "mode: RTTY\n"},
		{"zero wpm", "wpm: 0\n"},
		{"farnsworth faster than wpm", "wpm: 10\nfarnsworthWpm: 20\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseProfile([]byte(tc.yaml), NewConfig().Profile)
			if err == nil {
				_, err = p.State()
			}
			require.Error(t, err)
		})
	}
}

func TestConfigNewStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "qrp-profile")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "station.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(testProfile), 0644))

	conf := NewConfig()
	conf.ProfilePath = path
	s, err := conf.NewStore()
	require.NoError(t, err)
	require.Equal(t, "N0CALL", s.Snapshot().Callsign)

	conf.ProfilePath = filepath.Join(dir, "missing.yaml")
	_, err = conf.NewStore()
	require.Error(t, err)
}
