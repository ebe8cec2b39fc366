package comm

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/msgs"
)

// DefaultCommandExpiration bounds how long a command waits for its reply.
const DefaultCommandExpiration = 2 * time.Second

// Conn is the client end of a Pipe to a radio. It numbers commands,
// matches replies, and remembers the last status the radio reported,
// either as a DeviceStatus event or a StatusReply.
type Conn struct {
	Expiration time.Duration
	// OnStatus is called from the reader when a status arrives.
	OnStatus func(*msgs.DeviceStatus)

	pipe     Pipe
	lock     sync.Mutex
	seq      uint32
	inflight list.List
	bySeq    map[uint32]*commandFuture
	status   *msgs.DeviceStatus
	statusAt time.Time
}

// Init binds the Conn to a transport; peer names the radio in logs.
func (c *Conn) Init(rw PacketReadWriter, peer string) {
	c.Expiration = DefaultCommandExpiration
	c.pipe.ReadWriter = rw
	c.pipe.Peer = peer
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	c.bySeq = make(map[uint32]*commandFuture)
}

// Status returns the last reported status and when it was received,
// nil before any.
func (c *Conn) Status() (*msgs.DeviceStatus, time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.status, c.statusAt
}

// DoCommand implements remote.Conn.
func (c *Conn) DoCommand(msg fx.Message) remote.CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.seq++; c.seq == 0 {
		c.seq = 1
	}
	f := &commandFuture{
		seq:      c.seq,
		expireAt: time.Now().Add(c.Expiration),
		result:   make(chan remote.Result, 1),
	}
	if err := c.pipe.Send(msg, f.seq); err != nil {
		f.resolve(remote.Result{Err: err})
		return f
	}
	f.elem = c.inflight.PushBack(f)
	c.bySeq[f.seq] = f
	return f
}

// AddToLoop implements LoopAdder.
func (c *Conn) AddToLoop(l *fx.Loop) {
	l.Add(&c.pipe)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(c.expire))
}

func (c *Conn) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		if status, ok := msg.(*msgs.DeviceStatus); ok {
			c.updateStatus(status)
		}
		loopCtl := fx.LoopCtlFrom(ctx)
		loopCtl.PostMessage(msg)
		loopCtl.TriggerNext()
		return nil
	}
	if !typed.IsReply() {
		glog.V(2).Infof("%s: ignore command %T from radio", c.pipe.Peer, msg)
		return nil
	}
	result := remote.Result{Msg: msg}
	switch reply := msg.(type) {
	case *msgs.CommandErr:
		result.Err = reply
	case *msgs.StatusReply:
		if reply.Status != nil {
			c.updateStatus(reply.Status)
		}
	}
	c.lock.Lock()
	f := c.bySeq[typed.Sequence]
	if f != nil {
		c.inflight.Remove(f.elem)
		delete(c.bySeq, f.seq)
	}
	c.lock.Unlock()
	if f == nil {
		glog.V(2).Infof("%s: late reply #%d %T", c.pipe.Peer, typed.Sequence, msg)
		return nil
	}
	f.resolve(result)
	return nil
}

func (c *Conn) updateStatus(status *msgs.DeviceStatus) {
	c.lock.Lock()
	c.status, c.statusAt = status, time.Now()
	c.lock.Unlock()
	if fn := c.OnStatus; fn != nil {
		fn(status)
	}
}

// expire fails commands whose reply didn't arrive in time.
func (c *Conn) expire(cc fx.ControlContext) error {
	now := cc.Time()
	var expired []*commandFuture
	c.lock.Lock()
	for elem := c.inflight.Front(); elem != nil; elem = c.inflight.Front() {
		f := elem.Value.(*commandFuture)
		if f.expireAt.After(now) {
			break
		}
		c.inflight.Remove(elem)
		delete(c.bySeq, f.seq)
		expired = append(expired, f)
	}
	c.lock.Unlock()
	for _, f := range expired {
		glog.V(2).Infof("%s: command #%d expired", c.pipe.Peer, f.seq)
		f.resolve(remote.Result{Err: context.DeadlineExceeded})
	}
	return nil
}

type commandFuture struct {
	seq      uint32
	expireAt time.Time
	elem     *list.Element
	result   chan remote.Result
}

func (f *commandFuture) resolve(res remote.Result) {
	f.result <- res
	close(f.result)
}

func (f *commandFuture) ResultChan() <-chan remote.Result {
	return f.result
}
