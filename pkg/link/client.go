package link

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// BoardError is a failure reply.
type BoardError struct {
	Code byte
}

func (e *BoardError) Error() string {
	return fmt.Sprintf("board error %#02x", e.Code)
}

// Reply is a successful reply.
type Reply struct {
	Code byte
	Data []byte
}

type request struct {
	seq    Seq
	result chan result
}

type result struct {
	reply *Reply
	err   error
}

// Client matches replies to requests sent over a Link. Replies arrive
// in request order; a reply to a later request fails the earlier ones
// with ErrNoReply.
type Client struct {
	Link Link
	// OnEvent receives event frames on the Run goroutine.
	OnEvent func(*Frame)

	lock    sync.Mutex
	pending list.List
}

// NewClient creates a Client.
func NewClient() *Client {
	c := &Client{}
	c.Link.Handler = c
	return c
}

// Do sends a request and waits for its reply.
func (c *Client) Do(ctx context.Context, code byte, data []byte) (*Reply, error) {
	req := &request{result: make(chan result, 1)}
	c.lock.Lock()
	f := &Frame{Code: code &^ FlagEvent, Data: data}
	if err := c.Link.Send(f); err != nil {
		c.lock.Unlock()
		return nil, err
	}
	req.seq = f.Seq
	elem := c.pending.PushBack(req)
	c.lock.Unlock()

	select {
	case res := <-req.result:
		return res.reply, res.err
	case <-ctx.Done():
		c.lock.Lock()
		if elem.Value != nil {
			c.pending.Remove(elem)
			elem.Value = nil
		}
		c.lock.Unlock()
		return nil, ctx.Err()
	}
}

// HandleFrame implements FrameHandler.
func (c *Client) HandleFrame(ctx context.Context, f *Frame) {
	if f.IsEvent() {
		if c.OnEvent != nil {
			c.OnEvent(f)
		}
		return
	}
	if len(f.Data) == 0 || !Seq(f.Data[0]).IsValid() {
		glog.Warningf("link: malformed reply %#02x", f.Code)
		return
	}
	seq := Seq(f.Data[0])
	c.lock.Lock()
	var found *list.Element
	for elem := c.pending.Front(); elem != nil; elem = elem.Next() {
		if elem.Value.(*request).seq == seq {
			found = elem
			break
		}
	}
	var matched *request
	var skipped []*request
	for found != nil {
		elem := c.pending.Front()
		req := c.pending.Remove(elem).(*request)
		elem.Value = nil
		if elem == found {
			matched = req
			break
		}
		skipped = append(skipped, req)
	}
	c.lock.Unlock()

	for _, req := range skipped {
		req.result <- result{err: ErrNoReply}
	}
	if matched == nil {
		glog.V(2).Infof("link: reply to unknown request %d", seq)
		return
	}
	if f.Code&FlagError != 0 {
		matched.result <- result{err: &BoardError{Code: f.Code &^ FlagError}}
		return
	}
	matched.result <- result{reply: &Reply{Code: f.Code, Data: f.Data[1:]}}
}
