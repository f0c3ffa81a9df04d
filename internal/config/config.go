package config

import (
	"time"

	"github.com/rickgao/mocap-bridge/internal/capture"
	"github.com/rickgao/mocap-bridge/internal/connection"
)

// BridgeConfig is the root configuration for a bridge instance.
type BridgeConfig struct {
	Session   SessionConfig   `yaml:"session"`
	Target    TargetConfig    `yaml:"target"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Transform TransformConfig `yaml:"transform"`
	Record    RecordConfig    `yaml:"record"`
	Capture   CaptureConfig   `yaml:"capture"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SessionConfig identifies this bridge in logs.
type SessionConfig struct {
	Name string `yaml:"name"`
}

// TargetConfig is the downstream consumer.
type TargetConfig struct {
	Address    string `yaml:"address"` // a.b.c.d:port; the CLI argument overrides it
	Persistent bool   `yaml:"persistent"`
}

// ReconnectConfig holds the reconnect policy.
type ReconnectConfig struct {
	Policy       string        `yaml:"policy"` // fixed | exponential
	Wait         time.Duration `yaml:"wait"`   // fixed wait, or the exponential cap
	Base         time.Duration `yaml:"base"`   // first exponential wait
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// TransformConfig toggles the coordinate frame adapter.
type TransformConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// RecordConfig controls the wire encoding.
type RecordConfig struct {
	Precision int `yaml:"precision"` // significant digits; -1 = shortest
}

// CaptureConfig drives the synthetic capture source.
type CaptureConfig struct {
	RateHz int          `yaml:"rate_hz"`
	Bodies []BodyConfig `yaml:"bodies"`
}

// BodyConfig is one synthetic rigid body.
type BodyConfig struct {
	ID           int           `yaml:"id"`
	Radius       float64       `yaml:"radius"`
	Height       float64       `yaml:"height"`
	Period       time.Duration `yaml:"period"`
	DropoutEvery int           `yaml:"dropout_every"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// TransformEnabled reports whether poses are adapted before encoding.
func (c *BridgeConfig) TransformEnabled() bool {
	return c.Transform.Enabled == nil || *c.Transform.Enabled
}

// ConnectionConfig converts the reconnect section for connection.NewClient.
func (c *BridgeConfig) ConnectionConfig() connection.Config {
	cfg := connection.Config{
		DialTimeout:  c.Reconnect.DialTimeout,
		WriteTimeout: c.Reconnect.WriteTimeout,
	}
	switch c.Reconnect.Policy {
	case PolicyExponential:
		cfg.Backoff = connection.ExponentialBackoff{Base: c.Reconnect.Base, Max: c.Reconnect.Wait}
	default:
		cfg.Backoff = connection.FixedBackoff(c.Reconnect.Wait)
	}
	return cfg
}

// CaptureSourceConfig converts the capture section for capture.NewSynthetic.
func (c *BridgeConfig) CaptureSourceConfig() capture.Config {
	cfg := capture.Config{RateHz: c.Capture.RateHz}
	for _, b := range c.Capture.Bodies {
		cfg.Bodies = append(cfg.Bodies, capture.Body{
			ID:           b.ID,
			Radius:       b.Radius,
			Height:       b.Height,
			Period:       b.Period,
			DropoutEvery: b.DropoutEvery,
		})
	}
	return cfg
}
