package wsjtx

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/ipv4"

	fx "github.com/robotalks/qrp.go/pkg/framework"
)

// Config defines where status datagrams are received.
type Config struct {
	Addr      string
	Group     string
	Interface string
}

var defaultConfig = Config{
	Addr: ":" + strconv.Itoa(DefaultPort),
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Addr, "wsjtx-addr", defaultConfig.Addr, "UDP address receiving WSJT-X status, empty to disable.")
	flag.StringVar(&defaultConfig.Group, "wsjtx-group", defaultConfig.Group, "Multicast group WSJT-X sends to, e.g. 224.0.0.1.")
	flag.StringVar(&defaultConfig.Interface, "wsjtx-iface", defaultConfig.Interface, "Network interface for the multicast group.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewListener creates a Listener, nil if disabled.
func (c *Config) NewListener() *Listener {
	if c.Addr == "" {
		return nil
	}
	return &Listener{Addr: c.Addr, Group: c.Group, Interface: c.Interface}
}

// DatagramMsg carries one received datagram into the loop.
type DatagramMsg struct {
	Data []byte
	From net.Addr
}

// NewMessage implements Message.
func (m *DatagramMsg) NewMessage() fx.Message { return &DatagramMsg{} }

// Listener receives datagrams in the background. Only the most recent
// datagram not yet taken by the loop is kept; it is handed to the loop
// at PrLvSense.
type Listener struct {
	Addr      string
	Group     string
	Interface string

	lock    sync.Mutex
	latest  *DatagramMsg
	dropped int
	bound   net.Addr
}

// AddToLoop implements LoopAdder.
func (l *Listener) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("wsjtx", l))
	loop.AddController(fx.PrLvSense, l)
}

// LocalAddr returns the bound address once Run has started.
func (l *Listener) LocalAddr() net.Addr {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.bound
}

// Run implements Runnable.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := net.ListenPacket("udp4", l.Addr)
	if err != nil {
		return err
	}
	if l.Group != "" {
		if err := joinGroup(conn, l.Group, l.Interface); err != nil {
			conn.Close()
			return err
		}
	}
	l.lock.Lock()
	l.bound = conn.LocalAddr()
	l.lock.Unlock()
	glog.Infof("WSJT-X listener on %s", conn.LocalAddr())

	loopCtl := fx.LoopCtlFrom(ctx)
	return fx.RunWithContextCloser(ctx, conn, func() error {
		buf := make([]byte, MaxStringLength)
		for {
			n, from, err := conn.ReadFrom(buf)
			if err != nil {
				return err
			}
			glog.V(2).Infof("WSJT-X datagram %d bytes from %s", n, from)
			l.Put(&DatagramMsg{Data: append([]byte(nil), buf[:n]...), From: from})
			loopCtl.TriggerNext()
		}
	})
}

// Put replaces the pending datagram.
func (l *Listener) Put(msg *DatagramMsg) {
	l.lock.Lock()
	if l.latest != nil {
		l.dropped++
	}
	l.latest = msg
	l.lock.Unlock()
}

// Take removes the pending datagram.
func (l *Listener) Take() *DatagramMsg {
	l.lock.Lock()
	defer l.lock.Unlock()
	msg := l.latest
	l.latest = nil
	return msg
}

// Dropped counts datagrams replaced before the loop took them.
func (l *Listener) Dropped() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.dropped
}

// Control implements Controller.
func (l *Listener) Control(cc fx.ControlContext) error {
	if msg := l.Take(); msg != nil {
		cc.Messages().AddMessages(msg)
	}
	return nil
}

func joinGroup(conn net.PacketConn, group, iface string) error {
	ip := net.ParseIP(group)
	if ip == nil || !ip.IsMulticast() {
		return fmt.Errorf("invalid multicast group %q", group)
	}
	var ifi *net.Interface
	if iface != "" {
		var err error
		if ifi, err = net.InterfaceByName(iface); err != nil {
			return err
		}
	}
	return ipv4.NewPacketConn(conn).JoinGroup(ifi, &net.UDPAddr{IP: ip})
}

// Send encodes m and sends it to addr, acting as a WSJT-X instance.
func Send(ctx context.Context, addr string, m *StatusMessage) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Write(Encode(m))
	return err
}
