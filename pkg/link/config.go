package link

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/golang/glog"
)

// Config defines how the companion board is reached.
type Config struct {
	// Addr is tcp://host:port or a serial device path, empty for none.
	// A serial device must already be configured (e.g. with stty).
	Addr        string
	SyncTimeout time.Duration
}

var defaultConfig = Config{
	SyncTimeout: DefaultSyncTimeout,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Addr, "synth", defaultConfig.Addr, "Synthesizer board link: tcp://host:port or serial device path.")
	flag.DurationVar(&defaultConfig.SyncTimeout, "synth-sync-timeout", defaultConfig.SyncTimeout, "Synthesizer link handshake timeout.")
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

// Dial opens the configured stream.
func (c *Config) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	if u, err := url.Parse(c.Addr); err == nil && u.Scheme == "tcp" {
		var d net.Dialer
		return d.DialContext(ctx, "tcp", u.Host)
	}
	f, err := os.OpenFile(c.Addr, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Addr, err)
	}
	return f, nil
}

// NewRunner creates a Runner, nil if no link is configured.
func (c *Config) NewRunner() *Runner {
	if c.Addr == "" {
		return nil
	}
	r := &Runner{Client: NewClient(), Dial: c.Dial}
	r.Client.Link.SyncTimeout = c.SyncTimeout
	return r
}

// Runner keeps a Client connected.
type Runner struct {
	*Client
	Dial func(context.Context) (io.ReadWriteCloser, error)
	// RetryInterval is the wait before reconnecting after a failure.
	RetryInterval time.Duration
}

// Run implements Runnable.
func (r *Runner) Run(ctx context.Context) error {
	retry := r.RetryInterval
	if retry <= 0 {
		retry = time.Second
	}
	for {
		err := r.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.Warningf("link: %v, reconnect in %s", err, retry)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) error {
	conn, err := r.Dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return r.Link.Run(ctx, conn)
}
