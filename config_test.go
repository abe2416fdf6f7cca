package sieve

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
	if cfg.Capacity != 10 || cfg.Consumers != 3 || cfg.Speed != SpeedNormal {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"six consumers", func(c *Config) { c.Consumers = 6 }, ""},
		{"zero speed means default", func(c *Config) { c.Speed = 0 }, ""},
		{"zero join timeout means default", func(c *Config) { c.JoinTimeout = 0 }, ""},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, "Capacity"},
		{"four consumers", func(c *Config) { c.Consumers = 4 }, "multiple3"},
		{"no consumers", func(c *Config) { c.Consumers = 0 }, "Consumers"},
		{"speed too high", func(c *Config) { c.Speed = 6 }, "Speed"},
		{"negative join timeout", func(c *Config) { c.JoinTimeout = -time.Second }, "JoinTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sieve.yaml")
	data := "capacity: 5\nconsumers: 6\nspeed: 4\nsource: data.txt\njoin_timeout: 2s\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Capacity != 5 || cfg.Consumers != 6 || cfg.Speed != SpeedFast {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Source != "data.txt" || cfg.JoinTimeout != 2*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadConfig_JSONKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sieve.json")
	if err := os.WriteFile(path, []byte(`{"capacity": 3}`), 0o600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Capacity != 3 {
		t.Errorf("expected capacity 3, got %d", cfg.Capacity)
	}
	if cfg.Consumers != DefaultConsumers || cfg.Source != "numeros.txt" {
		t.Errorf("expected defaults for unset fields, got %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sieve.yaml")
	if err := os.WriteFile(path, []byte("consumers: 5\n"), 0o600); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCodecFor(t *testing.T) {
	if _, ok := CodecFor("a.json").(JSONCodec); !ok {
		t.Error("expected JSONCodec for .json")
	}
	if _, ok := CodecFor("a.JSON").(JSONCodec); !ok {
		t.Error("expected JSONCodec for .JSON")
	}
	if _, ok := CodecFor("a.yaml").(YAMLCodec); !ok {
		t.Error("expected YAMLCodec for .yaml")
	}
	if _, ok := CodecFor("control").(YAMLCodec); !ok {
		t.Error("expected YAMLCodec without extension")
	}
}
