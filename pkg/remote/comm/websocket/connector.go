package websocket

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/comm"
)

// RefType is the Ref.Type of radios reached directly over WebSocket.
const RefType = "ws"

// Connector implements remote.Connector for a single radio endpoint
// ws://host:port/path.
type Connector struct {
	URL *url.URL
}

// NewConnector creates a Connector.
func NewConnector(endpoint string) (*Connector, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Path == "" {
		u.Path = DefaultPath
	}
	return &Connector{URL: u}, nil
}

// Discover implements Connector. The endpoint is the only radio.
func (c *Connector) Discover(ctx context.Context) ([]remote.Info, error) {
	return []remote.Info{{Ref: remote.Ref{Type: RefType, ID: c.URL.Host}}}, nil
}

// Connect implements Connector.
func (c *Connector) Connect(ctx context.Context, ref remote.Ref) (remote.Conn, error) {
	origin := "http://" + c.URL.Host
	if strings.HasPrefix(c.URL.Scheme, "wss") {
		origin = "https://" + c.URL.Host
	}
	ws, err := websocket.Dial(c.URL.String(), "", origin)
	if err != nil {
		return nil, err
	}
	conn := &Conn{ws: ws}
	conn.Init(New(ws), "ws:"+c.URL.Host)
	return conn, nil
}

// Conn implements remote.Conn over WebSocket.
type Conn struct {
	comm.Conn
	ws *websocket.Conn
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
