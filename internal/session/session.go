package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rickgao/mocap-bridge/internal/capture"
	"github.com/rickgao/mocap-bridge/internal/config"
	"github.com/rickgao/mocap-bridge/internal/connection"
	"github.com/rickgao/mocap-bridge/internal/dispatch"
	"github.com/rickgao/mocap-bridge/internal/model"
	"github.com/rickgao/mocap-bridge/internal/record"
	"github.com/rickgao/mocap-bridge/internal/transform"
)

// ErrNoTarget is returned by New when no target address is configured.
var ErrNoTarget = errors.New("no target address")

// Option configures a Session.
type Option func(*options)

type options struct {
	source      func(capture.FrameHandler) capture.Source
	connOptions []connection.Option
}

// WithSource replaces the synthetic capture source.
func WithSource(build func(capture.FrameHandler) capture.Source) Option {
	return func(o *options) {
		o.source = build
	}
}

// WithConnectionOptions passes options through to connection.NewClient.
func WithConnectionOptions(opts ...connection.Option) Option {
	return func(o *options) {
		o.connOptions = append(o.connOptions, opts...)
	}
}

// Status is a point-in-time view of a session.
type Status struct {
	ID         uuid.UUID
	Name       string
	Endpoint   connection.Endpoint
	Persistent bool
	Connection connection.Stats
	Dispatch   dispatch.Stats
	LastFrame  model.FrameSummary
	HasFrame   bool
}

// Session wires capture, dispatch and connection together.
type Session struct {
	ID uuid.UUID

	cfg        *config.BridgeConfig
	endpoint   connection.Endpoint
	conn       *connection.Client
	dispatcher *dispatch.Dispatcher
	source     capture.Source
	logger     *slog.Logger
}

// New creates a session from a validated config. The target address is
// taken from cfg.Target.Address.
func New(cfg *config.BridgeConfig, logger *slog.Logger, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Target.Address == "" {
		return nil, ErrNoTarget
	}
	endpoint, err := connection.ParseEndpoint(cfg.Target.Address)
	if err != nil {
		return nil, fmt.Errorf("target address: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	logger = logger.With("session", id.String(), "name", cfg.Session.Name)

	adapter := transform.Identity
	if cfg.TransformEnabled() {
		adapter = transform.Engine
	}

	conn := connection.NewClient(cfg.ConnectionConfig(), logger.With("component", "connection"), o.connOptions...)
	dispatcher := dispatch.New(conn, adapter, record.NewEncoder(cfg.Record.Precision), logger.With("component", "dispatch"))

	var source capture.Source
	if o.source != nil {
		source = o.source(dispatcher)
	} else {
		source = capture.NewSynthetic(cfg.CaptureSourceConfig(), dispatcher, logger.With("component", "capture"))
	}

	return &Session{
		ID:         id,
		cfg:        cfg,
		endpoint:   endpoint,
		conn:       conn,
		dispatcher: dispatcher,
		source:     source,
		logger:     logger,
	}, nil
}

// Start connects to the target and starts the capture source. A failed
// initial connect is logged and the session keeps running; persistent
// sessions reconnect once frames flow.
func (s *Session) Start(ctx context.Context) error {
	if err := s.conn.ConnectEndpoint(s.endpoint, s.cfg.Target.Persistent); err != nil {
		s.logger.Warn("initial connect failed",
			"endpoint", s.endpoint.String(),
			"error", err,
		)
	}

	if err := s.source.Start(ctx); err != nil {
		return fmt.Errorf("start capture source: %w", err)
	}
	s.logger.Info("session started", "endpoint", s.endpoint.String())
	return nil
}

// Stop stops the capture source, then releases the connection.
func (s *Session) Stop(ctx context.Context) error {
	err := s.source.Stop(ctx)
	if err != nil {
		s.logger.Error("stop capture source", "error", err)
	}
	s.conn.Close()
	s.logger.Info("session stopped")
	return err
}

// Status returns current session state. Safe to call from any goroutine.
func (s *Session) Status() Status {
	last, ok := s.dispatcher.LastFrame()
	return Status{
		ID:         s.ID,
		Name:       s.cfg.Session.Name,
		Endpoint:   s.endpoint,
		Persistent: s.cfg.Target.Persistent,
		Connection: s.conn.Stats(),
		Dispatch:   s.dispatcher.Stats(),
		LastFrame:  last,
		HasFrame:   ok,
	}
}

// ResetSource restarts the capture source's frame index and clock.
func (s *Session) ResetSource() {
	s.source.Reset()
}
