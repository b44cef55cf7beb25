package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("redis:\n  addr: localhost:6379\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("expected yaml value, got %q", cfg.Redis.Addr)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Content.TTL != "10m" {
		t.Fatalf("expected default content ttl, got %q", cfg.Content.TTL)
	}
}

func TestTTLDuration(t *testing.T) {
	cases := []struct {
		raw      string
		fallback time.Duration
		want     time.Duration
	}{
		{"", time.Minute, time.Minute},
		{"30s", time.Minute, 30 * time.Second},
		{"not-a-duration", time.Minute, time.Minute},
	}
	for _, tc := range cases {
		if got := TTLDuration(tc.raw, tc.fallback); got != tc.want {
			t.Errorf("TTLDuration(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
