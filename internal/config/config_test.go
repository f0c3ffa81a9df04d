package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rickgao/mocap-bridge/internal/connection"
)

func TestLoad(t *testing.T) {
	yaml := `
session:
  name: stage-left
target:
  address: 192.168.1.20:5555
  persistent: true
reconnect:
  policy: exponential
  wait: 5s
  base: 250ms
record:
  precision: 9
capture:
  rate_hz: 240
  bodies:
    - id: 7
      radius: 2.5
      height: 1.8
      period: 3s
      dropout_every: 10
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Session.Name != "stage-left" {
		t.Errorf("Session.Name = %q, want %q", cfg.Session.Name, "stage-left")
	}
	if cfg.Target.Address != "192.168.1.20:5555" {
		t.Errorf("Target.Address = %q, want %q", cfg.Target.Address, "192.168.1.20:5555")
	}
	if !cfg.Target.Persistent {
		t.Error("Target.Persistent = false, want true")
	}
	if cfg.Reconnect.Wait != 5*time.Second {
		t.Errorf("Reconnect.Wait = %v, want %v", cfg.Reconnect.Wait, 5*time.Second)
	}
	if cfg.Reconnect.Base != 250*time.Millisecond {
		t.Errorf("Reconnect.Base = %v, want %v", cfg.Reconnect.Base, 250*time.Millisecond)
	}
	if cfg.Record.Precision != 9 {
		t.Errorf("Record.Precision = %d, want 9", cfg.Record.Precision)
	}
	if len(cfg.Capture.Bodies) != 1 {
		t.Fatalf("len(Capture.Bodies) = %d, want 1", len(cfg.Capture.Bodies))
	}
	b := cfg.Capture.Bodies[0]
	if b.ID != 7 || b.Radius != 2.5 || b.Period != 3*time.Second || b.DropoutEvery != 10 {
		t.Errorf("Capture.Bodies[0] = %+v", b)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_TARGET", "10.0.0.5:9000")

	yaml := `
target:
  address: ${TEST_TARGET}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Target.Address != "10.0.0.5:9000" {
		t.Errorf("Target.Address = %q, want %q", cfg.Target.Address, "10.0.0.5:9000")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
target:
  address: 127.0.0.1:5555
transform:
  enabled: false
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Reconnect.Policy != DefaultReconnectPolicy {
		t.Errorf("Reconnect.Policy = %q, want default %q", cfg.Reconnect.Policy, DefaultReconnectPolicy)
	}
	if cfg.Reconnect.Wait != DefaultReconnectWait {
		t.Errorf("Reconnect.Wait = %v, want default %v", cfg.Reconnect.Wait, DefaultReconnectWait)
	}
	if cfg.Record.Precision != DefaultPrecision {
		t.Errorf("Record.Precision = %d, want default %d", cfg.Record.Precision, DefaultPrecision)
	}
	if cfg.Capture.RateHz != DefaultRateHz {
		t.Errorf("Capture.RateHz = %d, want default %d", cfg.Capture.RateHz, DefaultRateHz)
	}
	if len(cfg.Capture.Bodies) != 1 || cfg.Capture.Bodies[0].Period != DefaultBodyPeriod {
		t.Errorf("Capture.Bodies = %+v, want one default body", cfg.Capture.Bodies)
	}
	if cfg.TransformEnabled() {
		t.Error("TransformEnabled() = true, want explicit false kept")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadAndValidate("")
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if !cfg.TransformEnabled() {
		t.Error("TransformEnabled() = false, want true")
	}
	if cfg.Logging.Format != DefaultLogFormat {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, DefaultLogFormat)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BridgeConfig)
		wantErr string
	}{
		{
			name:    "defaults",
			mutate:  func(*BridgeConfig) {},
			wantErr: "",
		},
		{
			name:    "unknown policy",
			mutate:  func(c *BridgeConfig) { c.Reconnect.Policy = "linear" },
			wantErr: `reconnect.policy must be fixed or exponential, got "linear"`,
		},
		{
			name:    "negative wait",
			mutate:  func(c *BridgeConfig) { c.Reconnect.Wait = -time.Second },
			wantErr: "reconnect.wait must be >= 0",
		},
		{
			name:    "precision out of range",
			mutate:  func(c *BridgeConfig) { c.Record.Precision = 20 },
			wantErr: "record.precision must be -1 or 1-17, got 20",
		},
		{
			name:    "shortest precision",
			mutate:  func(c *BridgeConfig) { c.Record.Precision = -1 },
			wantErr: "",
		},
		{
			name:    "zero rate",
			mutate:  func(c *BridgeConfig) { c.Capture.RateHz = -5 },
			wantErr: "capture.rate_hz must be 1-10000, got -5",
		},
		{
			name: "duplicate body id",
			mutate: func(c *BridgeConfig) {
				c.Capture.Bodies = append(c.Capture.Bodies, c.Capture.Bodies[0])
			},
			wantErr: "capture.bodies[1].id 1 is duplicated",
		},
		{
			name:    "bad log format",
			mutate:  func(c *BridgeConfig) { c.Logging.Format = "xml" },
			wantErr: `logging.format must be text or json, got "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestValidateTargetAddress(t *testing.T) {
	for _, addr := range []string{"localhost:5555", "1.2.3:80", "1.2.3.4", "1.2.3.4:0", "300.1.1.1:80"} {
		cfg := Default()
		cfg.Target.Address = addr
		if err := cfg.Validate(); !errors.Is(err, connection.ErrInvalidAddress) {
			t.Errorf("Validate(%q) error = %v, want %v", addr, err, connection.ErrInvalidAddress)
		}
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "DEBUG"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for unknown level, got nil")
	}
}

func TestConnectionConfig(t *testing.T) {
	cfg := Default()
	cc := cfg.ConnectionConfig()
	if got := cc.Backoff.Wait(10); got != DefaultReconnectWait {
		t.Errorf("fixed Wait(10) = %v, want %v", got, DefaultReconnectWait)
	}

	cfg.Reconnect.Policy = PolicyExponential
	cfg.Reconnect.Base = 100 * time.Millisecond
	cfg.Reconnect.Wait = time.Second
	cc = cfg.ConnectionConfig()
	if got := cc.Backoff.Wait(0); got != 100*time.Millisecond {
		t.Errorf("exponential Wait(0) = %v, want %v", got, 100*time.Millisecond)
	}
	if got := cc.Backoff.Wait(8); got != time.Second {
		t.Errorf("exponential Wait(8) = %v, want %v", got, time.Second)
	}
}

func TestCaptureSourceConfig(t *testing.T) {
	cfg := Default()
	cfg.Capture.Bodies[0].DropoutEvery = 4

	sc := cfg.CaptureSourceConfig()
	if sc.RateHz != DefaultRateHz {
		t.Errorf("RateHz = %d, want %d", sc.RateHz, DefaultRateHz)
	}
	if len(sc.Bodies) != 1 || sc.Bodies[0].DropoutEvery != 4 {
		t.Errorf("Bodies = %+v", sc.Bodies)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
