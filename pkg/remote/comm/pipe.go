package comm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

// ErrNoSequence is returned sending a command or reply without a sequence.
var ErrNoSequence = errors.New("command without sequence")

// Stats counts the traffic of a Pipe.
type Stats struct {
	Sent     int
	Received int
	Rejected int
}

// Pipe exchanges typed messages with one peer. Events travel with
// sequence 0, commands and their replies share the command's sequence.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    msgs.TypedMsgHandler
	// Peer names the other end in logs.
	Peer string

	lock  sync.Mutex
	stats Stats
}

// Send encodes msg and writes it. seq is required for commands and
// replies and must be 0 for events.
func (p *Pipe) Send(msg fx.Message, seq uint32) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	switch {
	case typed.IsEvent() && seq != 0:
		return fmt.Errorf("event %T with sequence %d", msg, seq)
	case !typed.IsEvent() && seq == 0:
		return ErrNoSequence
	}
	typed.Sequence = seq
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if err = p.ReadWriter.WritePacket(pkt); err != nil {
		return err
	}
	p.stats.Sent++
	return nil
}

// Stats returns the counters so far.
func (p *Pipe) Stats() Stats {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.stats
}

// Run reads packets until the transport fails, handing decoded
// messages to Handler.
func (p *Pipe) Run(ctx context.Context) error {
	defer p.Close()
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			return err
		}
		typed, msg, err := decode(pkt)
		if err != nil {
			if err = p.reject(typed, err); err != nil {
				return err
			}
			continue
		}
		p.lock.Lock()
		p.stats.Received++
		p.lock.Unlock()
		if h := p.Handler; h != nil {
			if err = h.HandleTypedMsg(ctx, msg, typed); err != nil {
				return err
			}
		}
	}
}

func decode(pkt []byte) (*msgs.Typed, fx.Message, error) {
	typed, err := msgs.DecodeTyped(pkt)
	if err != nil {
		return nil, nil, err
	}
	msg, err := typed.Decode()
	return typed, msg, err
}

// reject counts an undecodable packet. A command gets an error reply
// so the sender doesn't wait for it to expire.
func (p *Pipe) reject(typed *msgs.Typed, err error) error {
	p.lock.Lock()
	p.stats.Rejected++
	p.lock.Unlock()
	if typed == nil {
		glog.Warningf("%s: malformed packet: %v", p.Peer, err)
		return nil
	}
	glog.V(2).Infof("%s: drop %x #%d: %v", p.Peer, typed.TypeId, typed.Sequence, err)
	if !typed.IsCommand() || typed.IsReply() || typed.Sequence == 0 {
		return nil
	}
	return p.Send(msgs.NewCommandErr(err), typed.Sequence)
}

// Close implements io.Closer.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	if adder, ok := p.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := p.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(fx.NamedRun("pipe:"+p.Peer, p))
}
