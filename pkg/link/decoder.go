package link

// SyncState is the synchronization state of the receiving side.
type SyncState int

// Sync states
const (
	Syncing   SyncState = 0
	Ready     SyncState = 0x01
	Receiving SyncState = 0x02
)

// IsReady reports whether frames can be exchanged.
func (s SyncState) IsReady() bool {
	return s&Ready != 0
}

// IsReceiving reports whether a handshake or a frame is in progress.
func (s SyncState) IsReceiving() bool {
	return s&Receiving != 0
}

func (s SyncState) String() string {
	switch {
	case s.IsReady() && s.IsReceiving():
		return "receiving"
	case s.IsReady():
		return "ready"
	case s.IsReceiving():
		return "syncing*"
	}
	return "syncing"
}

const (
	syncREQ byte = 0xff
	syncACK byte = 0xfe
)

// Step is the outcome of feeding the decoder.
type Step struct {
	// Reply is REQ or ACK to send with our sequence, 0 for nothing.
	Reply byte
	State SyncState
	Frame *Frame
}

type timerAction int

const (
	timerKeep timerAction = iota
	timerArm
	timerStop
)

// timer decides whether the handshake timer runs: it is armed while
// anything is half received or a REQ is outstanding.
func (s Step) timer() timerAction {
	switch {
	case s.State.IsReceiving() || s.Reply == syncREQ:
		return timerArm
	case s.State.IsReady():
		return timerStop
	}
	return timerKeep
}

type phase int

const (
	awaitSync    phase = iota // REQ sent, waiting for REQ or ACK
	awaitReqSeq               // got REQ, waiting for peer sequence
	awaitAckSeq               // got ACK, waiting for peer sequence
	awaitSeq                  // synchronized, waiting for a frame
	awaitAckEcho              // ACK while synchronized, check sequence
	awaitCode
	awaitLen
	awaitData
)

// Decoder reassembles frames byte by byte.
type Decoder struct {
	phase phase
	peer  Seq
	frame *Frame
	got   int
}

// State reports the current state.
func (d *Decoder) State() SyncState {
	switch {
	case d.phase == awaitSync:
		return Syncing
	case d.phase == awaitSeq:
		return Ready
	case d.phase > awaitSeq:
		return Ready | Receiving
	}
	return Syncing | Receiving
}

// Restart drops any partial frame and requests synchronization.
func (d *Decoder) Restart() Step {
	d.frame = nil
	return d.step(d.resync())
}

// Expire is called when the handshake timer fires.
func (d *Decoder) Expire() Step {
	if d.phase == awaitSeq {
		return d.step(0, nil)
	}
	return d.step(d.resync())
}

// Feed consumes one byte.
func (d *Decoder) Feed(b byte) Step {
	return d.step(d.feed(b))
}

func (d *Decoder) step(reply byte, f *Frame) Step {
	return Step{Reply: reply, State: d.State(), Frame: f}
}

func (d *Decoder) feed(b byte) (byte, *Frame) {
	switch d.phase {
	case awaitSync:
		switch b {
		case syncREQ:
			d.phase = awaitReqSeq
		case syncACK:
			d.phase = awaitAckSeq
		}
	case awaitReqSeq, awaitAckSeq:
		seq := Seq(b)
		if !seq.IsValid() {
			return d.resync()
		}
		reply := byte(0)
		if d.phase == awaitReqSeq {
			reply = syncACK
		}
		d.peer, d.phase = seq, awaitSeq
		return reply, nil
	case awaitSeq:
		switch {
		case b == syncREQ:
			d.phase = awaitReqSeq
		case b == syncACK:
			d.phase = awaitAckEcho
		case Seq(b) != d.peer:
			return d.resync()
		default:
			d.frame = &Frame{Seq: d.peer}
			d.peer = d.peer.Next()
			d.phase = awaitCode
		}
	case awaitAckEcho:
		if Seq(b) != d.peer {
			return d.resync()
		}
		d.phase = awaitSeq
	case awaitCode:
		d.frame.Code = b & codeMask
		switch n := int(b&lenMask) >> 4; n {
		case 0:
			return d.complete()
		case 7:
			d.phase = awaitLen
		default:
			d.expect(n)
		}
	case awaitLen:
		switch {
		case b > MaxDataLen:
			return d.resync()
		case b == 0:
			return d.complete()
		}
		d.expect(int(b))
	case awaitData:
		d.frame.Data[d.got] = b
		if d.got++; d.got >= len(d.frame.Data) {
			return d.complete()
		}
	}
	return 0, nil
}

func (d *Decoder) expect(n int) {
	d.frame.Data, d.got = make([]byte, n), 0
	d.phase = awaitData
}

func (d *Decoder) resync() (byte, *Frame) {
	d.phase = awaitSync
	return syncREQ, nil
}

func (d *Decoder) complete() (byte, *Frame) {
	d.phase = awaitSeq
	f := d.frame
	d.frame = nil
	return 0, f
}
