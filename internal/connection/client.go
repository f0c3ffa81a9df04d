package connection

import (
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"
)

// DialFunc opens a stream connection. It has the signature of net.Dial.
type DialFunc func(network, address string) (net.Conn, error)

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces the dialer used for connect and reconnect.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// WithClock replaces the monotonic clock used for reconnect gating.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client is a single outbound TCP connection with time-gated reconnection.
//
// Connect, Send and Disconnect block the calling goroutine and must all be
// called from the same goroutine. Stats and State may be read concurrently.
type Client struct {
	cfg    Config
	logger *slog.Logger
	dial   DialFunc
	now    func() time.Time

	conn       net.Conn
	endpoint   Endpoint
	persistent bool
	armed      bool // A connect was issued and not followed by Disconnect

	// Gating
	lastConnection time.Time // Last successful connect
	lastAttempt    time.Time // Last connect attempt, successful or not

	// State
	state      atomic.Int32
	retries    atomic.Uint64
	sent       atomic.Int64
	failed     atomic.Int64
	reconnects atomic.Int64
	skipped    atomic.Int64
}

// NewClient creates a disconnected Client.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Backoff == nil {
		cfg.Backoff = FixedBackoff(DefaultReconnectWait)
	}

	c := &Client{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}
	c.dial = dialer.Dial

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect parses a dotted-quad host and connects to it. A malformed host
// returns ErrInvalidAddress without touching the network.
func (c *Client) Connect(host string, port uint16, persistent bool) error {
	ip, err := ParseIPv4(host)
	if err != nil {
		c.logger.Error("not a valid IP address", "host", host, "error", err)
		return err
	}
	return c.ConnectHost(ip, port, persistent)
}

// ConnectEndpoint connects to a parsed endpoint.
func (c *Client) ConnectEndpoint(ep Endpoint, persistent bool) error {
	return c.ConnectHost(ep.Host, ep.Port, persistent)
}

// ConnectHost performs a blocking connect to host:port. The endpoint and
// persistent flag are kept for later reconnects. On failure the client
// stays disconnected; a persistent client retries on the next send once
// the backoff wait has elapsed.
func (c *Client) ConnectHost(host uint32, port uint16, persistent bool) error {
	c.persistent = persistent
	c.endpoint = Endpoint{Host: host, Port: port}
	c.armed = true

	c.logger.Info("connecting to host",
		"endpoint", c.endpoint.String(),
		"persistent", persistent,
	)

	// Replace any socket from a previous connect
	c.closeConn()

	if err := c.dialEndpoint(); err != nil {
		c.setState(StateDisconnected)
		return err
	}
	return nil
}

// Disconnect closes the socket if one is open. It is always safe to call.
func (c *Client) Disconnect() {
	c.armed = false
	if c.conn != nil {
		c.closeConn()
		c.logger.Info("disconnected", "endpoint", c.endpoint.String())
	}
	c.setState(StateDisconnected)
}

// Close disconnects and implements io.Closer.
func (c *Client) Close() error {
	c.Disconnect()
	return nil
}

// Send writes the whole buffer in one blocking attempt. It reports whether
// the write succeeded; transport faults are logged, never returned. A
// persistent client arms a reconnect on failure and the buffer is dropped.
func (c *Client) Send(data []byte) bool {
	if c.conn == nil {
		if c.persistent && c.armed {
			c.failed.Add(1)
			c.tryReconnect()
		}
		return false
	}

	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}

	if _, err := c.conn.Write(data); err != nil {
		c.failed.Add(1)
		c.handleWriteError(err, len(data))
		return false
	}

	c.sent.Add(1)
	return true
}

// State returns the current connection state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Endpoint returns the endpoint given to the last connect.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Persistent reports whether write failures trigger reconnects.
func (c *Client) Persistent() bool {
	return c.persistent
}

// LastConnection returns the time of the last successful connect.
func (c *Client) LastConnection() time.Time {
	return c.lastConnection
}

// Stats returns counters and state.
func (c *Client) Stats() Stats {
	return Stats{
		State:      c.State(),
		Retries:    c.retries.Load(),
		Sent:       c.sent.Load(),
		Failed:     c.failed.Load(),
		Reconnects: c.reconnects.Load(),
		Skipped:    c.skipped.Load(),
	}
}

// handleWriteError transitions state after a failed write.
func (c *Client) handleWriteError(err error, n int) {
	if !c.persistent {
		c.logger.Warn("send failed, connection closed",
			"endpoint", c.endpoint.String(),
			"bytes", n,
			"error", err,
		)
		c.closeConn()
		c.setState(StateDisconnected)
		return
	}

	if c.State() == StateConnected {
		c.logger.Warn("send failed, reconnect pending",
			"endpoint", c.endpoint.String(),
			"bytes", n,
			"error", err,
		)
	} else {
		c.logger.Debug("send failed", "bytes", n, "error", err)
	}
	c.setState(StateReconnectPending)
	c.tryReconnect()
}

// tryReconnect replaces the socket once the backoff wait has elapsed since
// the last connect attempt. It reports whether a dial was made.
func (c *Client) tryReconnect() bool {
	elapsed := c.now().Sub(c.lastAttempt)
	wait := c.cfg.Backoff.Wait(c.retries.Load())
	c.retries.Add(1)

	if elapsed <= wait {
		c.skipped.Add(1)
		c.logger.Debug("reconnect skipped",
			"elapsed", elapsed,
			"wait", wait,
		)
		return false
	}

	c.logger.Info("trying to reconnect",
		"endpoint", c.endpoint.String(),
		"retries", c.retries.Load(),
	)
	c.reconnects.Add(1)

	// Close old connection
	c.closeConn()

	if err := c.dialEndpoint(); err != nil {
		c.setState(StateReconnectPending)
	}
	return true
}

// dialEndpoint performs the blocking dial and records the outcome.
func (c *Client) dialEndpoint() error {
	conn, err := c.dial("tcp", c.endpoint.String())
	c.lastAttempt = c.now()
	if err != nil {
		c.logger.Warn("connect failed",
			"endpoint", c.endpoint.String(),
			"error", err,
		)
		return fmt.Errorf("%w: %s: %v", ErrConnectFailure, c.endpoint, err)
	}

	c.conn = conn
	c.lastConnection = c.lastAttempt
	c.retries.Store(0)
	c.setState(StateConnected)

	c.logger.Info("connected", "endpoint", c.endpoint.String())
	return nil
}

func (c *Client) closeConn() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Debug("close socket", "error", err)
	}
	c.conn = nil
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
}
