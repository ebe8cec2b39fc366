package device

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/qrp.go/pkg/mode"
)

func TestFrequency(t *testing.T) {
	f := FrequencyFromHz(14074001500)
	require.Equal(t, Frequency(1407400150000), f)
	require.Equal(t, uint64(14074001500), f.Hz())
	require.Equal(t, "7.50 Hz", Frequency(750).String())
}

func TestStoreGroupUpdate(t *testing.T) {
	s := NewStore(State{Mode: mode.FT8, Frequency: FrequencyFromHz(14074000), TxMessage: "A"})
	require.Equal(t, uint64(0), s.Version())

	// readers must never see the frequency of one group with the mode
	// of another.
	groups := []State{
		{Mode: mode.FT8, Frequency: FrequencyFromHz(14074000), TxMessage: "A"},
		{Mode: mode.WSPR, Frequency: FrequencyFromHz(14097200), TxMessage: "B"},
	}
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			g := groups[i%2]
			s.Update(func(st *State) {
				st.Mode, st.Frequency, st.TxMessage = g.Mode, g.Frequency, g.TxMessage
			})
		}
		close(stop)
	}()
	for done := false; !done; {
		select {
		case <-stop:
			done = true
		default:
		}
		snap := s.Snapshot()
		if snap.Mode == mode.FT8 {
			require.Equal(t, groups[0], snap)
		} else {
			require.Equal(t, groups[1], snap)
		}
	}
	wg.Wait()
	require.Equal(t, uint64(2000), s.Version())
}
