// Package connector sets up clients of radios.
package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/robotalks/qrp.go/pkg/remote"
	"github.com/robotalks/qrp.go/pkg/remote/comm/mqtt"
	"github.com/robotalks/qrp.go/pkg/remote/comm/websocket"
)

// Config provides common options to set up Connectors.
type Config struct {
	Ref remote.Ref

	// RegistryURL specifies the URL of radio registry.
	// e.g. mqtt://host:port/topic-prefix/ or ws://host:port/ws
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/qrp/",
}

func init() {
	if val := os.Getenv("QRP_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("QRP_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("QRP_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "radio-type", defaultConfig.Ref.Type, "Radio type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "radio-id", defaultConfig.Ref.ID, "Radio ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "radio-reg", defaultConfig.RegistryURL, "Radio registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (remote.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %w", err)
	}
	switch parsedURL.Scheme {
	case "mqtt", "mqtts":
		return mqtt.NewConnector(c.RegistryURL)
	case "ws", "wss":
		return websocket.NewConnector(c.RegistryURL)
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() remote.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect directly connects to the configured radio.
func (c *Config) Connect(ctx context.Context) (remote.Conn, error) {
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	ref := c.Ref
	if _, ok := connector.(*websocket.Connector); ok && !ref.IsValid() {
		ref = remote.Ref{Type: websocket.RefType, ID: "direct"}
	}
	if !ref.IsValid() {
		return nil, fmt.Errorf("radio type and id must be specified")
	}
	return connector.Connect(ctx, ref)
}
