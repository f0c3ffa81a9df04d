package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rickgao/mocap-bridge/internal/connection"
	"github.com/rickgao/mocap-bridge/internal/record"
)

// maxPrecision is the largest digit count that still changes a float64.
const maxPrecision = 17

// Validate checks that all required fields are set and values are valid.
func (c *BridgeConfig) Validate() error {
	if c.Target.Address != "" {
		if _, err := connection.ParseEndpoint(c.Target.Address); err != nil {
			return fmt.Errorf("target.address: %w", err)
		}
	}

	if err := c.Reconnect.validate(); err != nil {
		return err
	}

	p := c.Record.Precision
	if p != record.ShortestPrecision && (p < 1 || p > maxPrecision) {
		return fmt.Errorf("record.precision must be -1 or 1-%d, got %d", maxPrecision, p)
	}

	if err := c.Capture.validate(); err != nil {
		return err
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

func (r *ReconnectConfig) validate() error {
	switch r.Policy {
	case PolicyFixed, PolicyExponential:
	default:
		return fmt.Errorf("reconnect.policy must be fixed or exponential, got %q", r.Policy)
	}
	if r.Wait < 0 {
		return errors.New("reconnect.wait must be >= 0")
	}
	if r.Policy == PolicyExponential && r.Base <= 0 {
		return errors.New("reconnect.base must be > 0")
	}
	if r.DialTimeout < 0 {
		return errors.New("reconnect.dial_timeout must be >= 0")
	}
	if r.WriteTimeout < 0 {
		return errors.New("reconnect.write_timeout must be >= 0")
	}
	return nil
}

func (c *CaptureConfig) validate() error {
	if c.RateHz < 1 || c.RateHz > 10000 {
		return fmt.Errorf("capture.rate_hz must be 1-10000, got %d", c.RateHz)
	}

	seen := make(map[int]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		prefix := fmt.Sprintf("capture.bodies[%d]", i)
		if seen[b.ID] {
			return fmt.Errorf("%s.id %d is duplicated", prefix, b.ID)
		}
		seen[b.ID] = true
		if b.Radius < 0 {
			return fmt.Errorf("%s.radius must be >= 0", prefix)
		}
		if b.Period <= 0 {
			return fmt.Errorf("%s.period must be > 0", prefix)
		}
		if b.DropoutEvery < 0 {
			return fmt.Errorf("%s.dropout_every must be >= 0", prefix)
		}
	}
	return nil
}

// SlogLevel parses the configured level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
