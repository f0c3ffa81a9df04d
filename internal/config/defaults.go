package config

import (
	"time"

	"github.com/rickgao/mocap-bridge/internal/connection"
	"github.com/rickgao/mocap-bridge/internal/record"
)

// Reconnect policies.
const (
	PolicyFixed       = "fixed"
	PolicyExponential = "exponential"
)

// Default values for optional configuration fields.
const (
	DefaultSessionName     = "mocap-bridge"
	DefaultReconnectPolicy = PolicyFixed
	DefaultReconnectWait   = connection.DefaultReconnectWait
	DefaultReconnectBase   = connection.DefaultBackoffBase
	DefaultPrecision       = record.DefaultPrecision
	DefaultRateHz          = 120
	DefaultBodyRadius      = 1.0
	DefaultBodyHeight      = 1.5
	DefaultBodyPeriod      = 4 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Default returns a configuration built from defaults only.
func Default() *BridgeConfig {
	var cfg BridgeConfig
	cfg.applyDefaults()
	return &cfg
}

func (c *BridgeConfig) applyDefaults() {
	if c.Session.Name == "" {
		c.Session.Name = DefaultSessionName
	}

	// Reconnect defaults
	if c.Reconnect.Policy == "" {
		c.Reconnect.Policy = DefaultReconnectPolicy
	}
	if c.Reconnect.Wait == 0 {
		c.Reconnect.Wait = DefaultReconnectWait
	}
	if c.Reconnect.Base == 0 {
		c.Reconnect.Base = DefaultReconnectBase
	}

	if c.Transform.Enabled == nil {
		enabled := true
		c.Transform.Enabled = &enabled
	}

	if c.Record.Precision == 0 {
		c.Record.Precision = DefaultPrecision
	}

	// Capture defaults
	if c.Capture.RateHz == 0 {
		c.Capture.RateHz = DefaultRateHz
	}
	if len(c.Capture.Bodies) == 0 {
		c.Capture.Bodies = []BodyConfig{{ID: 1}}
	}
	for i := range c.Capture.Bodies {
		applyBodyDefaults(&c.Capture.Bodies[i])
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func applyBodyDefaults(b *BodyConfig) {
	if b.Radius == 0 {
		b.Radius = DefaultBodyRadius
	}
	if b.Height == 0 {
		b.Height = DefaultBodyHeight
	}
	if b.Period == 0 {
		b.Period = DefaultBodyPeriod
	}
}
