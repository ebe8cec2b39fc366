package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/qrp.go/pkg/framework"
	"github.com/robotalks/qrp.go/pkg/remote/comm"
)

// DefaultPath is where the endpoint is served.
const DefaultPath = "/ws"

// Server is a remote.Registrar accepting WebSocket clients. Commands
// from any client reach the loop; events go to all clients.
type Server struct {
	Addr string
	Path string

	lock    sync.Mutex
	clients map[*comm.Registrar]string
	bound   net.Addr
}

// NewServer creates a Server.
func NewServer(addr string) *Server {
	return &Server{Addr: addr, Path: DefaultPath, clients: make(map[*comm.Registrar]string)}
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(l *fx.Loop) {
	l.AddRunnable(fx.NamedRun("websocket", s))
}

// LocalAddr returns the listening address once running.
func (s *Server) LocalAddr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.bound
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.lock.Lock()
	s.bound = ln.Addr()
	s.lock.Unlock()
	glog.Infof("WebSocket endpoint ws://%s%s", ln.Addr(), s.Path)

	mux := http.NewServeMux()
	mux.Handle(s.Path, websocket.Handler(func(conn *websocket.Conn) {
		s.serve(ctx, conn)
	}))
	srv := &http.Server{Handler: mux}
	return fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(ln)
	})
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn) {
	peer := conn.Request().RemoteAddr
	reg := &comm.Registrar{}
	reg.Init(New(conn), "ws:"+peer)
	s.lock.Lock()
	s.clients[reg] = peer
	s.lock.Unlock()
	glog.Infof("WebSocket client %s connected", peer)

	err := reg.Run(ctx)

	s.lock.Lock()
	delete(s.clients, reg)
	s.lock.Unlock()
	glog.Infof("WebSocket client %s disconnected: %v", peer, err)
}

// Clients counts connected clients.
func (s *Server) Clients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

// SendEvent implements remote.Registrar. A client failing to receive
// is logged and left to its reader to drop.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	s.lock.Lock()
	clients := make(map[*comm.Registrar]string, len(s.clients))
	for reg, peer := range s.clients {
		clients[reg] = peer
	}
	s.lock.Unlock()
	for reg, peer := range clients {
		if err := reg.SendEvent(ctx, msg); err != nil {
			glog.Warningf("WebSocket client %s: %v", peer, err)
		}
	}
	return nil
}
