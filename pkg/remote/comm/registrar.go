package comm

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

// ErrAlreadyDone is returned replying a command twice.
var ErrAlreadyDone = errors.New("command already replied")

// Registrar is the radio end of a Pipe. Commands from the client are
// posted to the loop as remote.CommandMsg; the radio's events go out
// to the client. Clients never send events, so those are dropped.
type Registrar struct {
	pipe Pipe
}

// Init binds the Registrar to a transport; peer names the client in logs.
func (r *Registrar) Init(rw PacketReadWriter, peer string) {
	r.pipe.ReadWriter = rw
	r.pipe.Peer = peer
	r.pipe.Handler = msgs.HandleTypedMsgFunc(r.handleTypedMsg)
}

func (r *Registrar) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if !typed.IsCommand() || typed.IsReply() {
		glog.V(2).Infof("%s: ignore %T from client", r.pipe.Peer, msg)
		return nil
	}
	glog.V(2).Infof("%s: command #%d %T", r.pipe.Peer, typed.Sequence, msg)
	loopCtl := fx.LoopCtlFrom(ctx)
	loopCtl.PostMessage(&remote.CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: &r.pipe}})
	loopCtl.TriggerNext()
	return nil
}

// SendEvent implements remote.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.Send(msg, 0)
}

// Stats returns the traffic counters of the client.
func (r *Registrar) Stats() Stats {
	return r.pipe.Stats()
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.pipe)
}

// Run serves the client directly, for transports accepting clients
// after the loop started.
func (r *Registrar) Run(ctx context.Context) error {
	return r.pipe.Run(ctx)
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe

	lock sync.Mutex
	done bool
}

func (c *command) Msg() fx.Message {
	return c.msg
}

// Done sends the reply; a command is replied at most once.
func (c *command) Done(reply fx.Message) error {
	c.lock.Lock()
	if c.done {
		c.lock.Unlock()
		return ErrAlreadyDone
	}
	c.done = true
	c.lock.Unlock()
	glog.V(2).Infof("%s: reply #%d %T", c.pipe.Peer, c.seq, reply)
	return c.pipe.Send(reply, c.seq)
}
