package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
log:
  mode: production
redis:
  addr: localhost:6379
  ttl: 30m
  channel: uap-storage
postgres:
  url: postgres://u:p@localhost/db
catalog:
  ttl: 5m
local:
  path: /tmp/profile.db
profile:
  namespace: uap
  mirror_timeout: 2s
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Log.Mode != "production" {
		t.Fatalf("unexpected server/log: %+v", cfg)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Channel != "uap-storage" {
		t.Fatalf("unexpected redis section: %+v", cfg.Redis)
	}
	if cfg.Local.Path != "/tmp/profile.db" || cfg.Profile.Namespace != "uap" {
		t.Fatalf("unexpected local/profile: %+v %+v", cfg.Local, cfg.Profile)
	}
	if d := TTLDuration(cfg.Profile.MirrorTimeout, time.Second); d != 2*time.Second {
		t.Fatalf("expected 2s mirror timeout, got %s", d)
	}
}

func TestLoadMissingFileIsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Redis.Addr != "" || cfg.Postgres.URL != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("empty: got %s", d)
	}
	if d := TTLDuration("garbage", time.Minute); d != time.Minute {
		t.Fatalf("garbage: got %s", d)
	}
	if d := TTLDuration("90s", time.Minute); d != 90*time.Second {
		t.Fatalf("90s: got %s", d)
	}
}
