package mqtt

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/qrp.go/pkg/remote"
)

// DefaultPublishTimeout bounds how long WritePacket waits for the broker.
const DefaultPublishTimeout = 5 * time.Second

// Side selects which half of a radio's topics a ReadWriter uses.
type Side int

// Sides
const (
	RadioSide Side = iota
	ClientSide
)

// CmdTopic carries commands to the radio.
func CmdTopic(ref remote.Ref) string { return ref.Name() + "/cmd" }

// MsgTopic carries replies and events from the radio.
func MsgTopic(ref remote.Ref) string { return ref.Name() + "/msg" }

// MetaTopic holds the retained radio meta while it is online.
func MetaTopic(ref remote.Ref) string { return ref.Name() + "/meta" }

// ReadWriter implements PacketReadWriter on the topics of one radio.
// The radio reads type/id/cmd and publishes replies and events to
// type/id/msg; a client does the opposite. Commands are published
// with QoS 1, the radio's traffic with QoS 0 since status events
// supersede each other.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string
	QoS      byte

	packetCh chan []byte
	done     chan struct{}
	dropped  int32
}

// NewReadWriter creates the ReadWriter for side of radio ref.
func NewReadWriter(q *Queue, ref remote.Ref, side Side) *ReadWriter {
	p := &ReadWriter{Queue: q, packetCh: make(chan []byte, 16), done: make(chan struct{})}
	switch side {
	case RadioSide:
		p.SubTopic, p.PubTopic = CmdTopic(ref), MsgTopic(ref)
	case ClientSide:
		p.SubTopic, p.PubTopic, p.QoS = MsgTopic(ref), CmdTopic(ref), 1
	}
	return p
}

// Dropped counts packets discarded because the reader fell behind.
func (p *ReadWriter) Dropped() int {
	return int(atomic.LoadInt32(&p.dropped))
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.PubWith(p.PubTopic, pkt, p.QoS, false)
	if !token.WaitTimeout(DefaultPublishTimeout) {
		return context.DeadlineExceeded
	}
	return token.Error()
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, Handler(p.receive))
	<-ctx.Done()
	sub.Close()
	close(p.done)
	return ctx.Err()
}

// receive runs on the MQTT client goroutine and must not block it.
func (p *ReadWriter) receive(topic string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.done:
	default:
		atomic.AddInt32(&p.dropped, 1)
		glog.Warningf("%s: reader behind, packet dropped", topic)
	}
}
