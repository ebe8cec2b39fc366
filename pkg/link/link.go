package link

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultSyncTimeout bounds a handshake or a partial frame.
const DefaultSyncTimeout = 100 * time.Millisecond

// FrameHandler receives every complete frame.
type FrameHandler interface {
	HandleFrame(context.Context, *Frame)
}

// HandleFrameFunc is the func form of FrameHandler.
type HandleFrameFunc func(context.Context, *Frame)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame *Frame) {
	f(ctx, frame)
}

// Link sends and receives frames over a byte stream.
type Link struct {
	SyncTimeout time.Duration
	Handler     FrameHandler
	// OnState is called from Run whenever the sync state changes.
	OnState func(SyncState)

	lock  sync.Mutex
	w     io.Writer
	seq   Seq
	state SyncState
	dec   Decoder
}

// State reports the current sync state.
func (l *Link) State() SyncState {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.state
}

// Send numbers and writes f. It fails with ErrNotReady until the
// handshake completes.
func (l *Link) Send(f *Frame) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.w == nil || !l.state.IsReady() {
		return ErrNotReady
	}
	f.Seq = l.seq
	if _, err := f.WriteTo(l.w); err != nil {
		return err
	}
	l.seq = l.seq.Next()
	return nil
}

// Run synchronizes over rw and dispatches frames until ctx is done or
// rw fails. The caller closes rw afterwards.
func (l *Link) Run(ctx context.Context, rw io.ReadWriter) error {
	l.lock.Lock()
	l.w, l.seq, l.state = rw, NewSeq(), Syncing
	l.lock.Unlock()
	defer func() {
		l.lock.Lock()
		l.w, l.state = nil, Syncing
		l.lock.Unlock()
	}()

	timeout := l.SyncTimeout
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	timer := time.NewTimer(timeout)
	timer.Stop()
	defer timer.Stop()

	apply := func(s Step) error {
		err := l.apply(ctx, s)
		switch s.timer() {
		case timerArm:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(timeout)
		case timerStop:
			timer.Stop()
		}
		return err
	}

	if err := apply(l.dec.Restart()); err != nil {
		return err
	}

	byteCh, errCh := make(chan byte), make(chan error, 1)
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readBytes(readCtx, rw, byteCh, errCh)
	for {
		var s Step
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case b := <-byteCh:
			s = l.dec.Feed(b)
		case <-timer.C:
			s = l.dec.Expire()
		}
		if err := apply(s); err != nil {
			return err
		}
	}
}

func (l *Link) apply(ctx context.Context, s Step) error {
	var changed bool
	var err error
	l.lock.Lock()
	if l.state != s.State {
		l.state, changed = s.State, true
	}
	if s.Reply != 0 {
		_, err = l.w.Write([]byte{s.Reply, byte(l.seq)})
	}
	l.lock.Unlock()
	if err != nil {
		return err
	}
	if changed {
		glog.V(4).Infof("link %s", s.State)
		if l.OnState != nil {
			l.OnState(s.State)
		}
	}
	if s.Frame != nil && l.Handler != nil {
		l.Handler.HandleFrame(ctx, s.Frame)
	}
	return nil
}

func readBytes(ctx context.Context, r io.Reader, byteCh chan<- byte, errCh chan<- error) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case byteCh <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
