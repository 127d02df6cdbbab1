package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_EmbeddedValues(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory || cfg.HTTP.Port != "8080" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.Degradation.Interval != time.Hour || cfg.Actors.IdleTimeout != 10*time.Minute {
		t.Fatalf("unexpected durations: %#v", cfg)
	}
	if cfg.Partition.Default != "DFW" {
		t.Fatalf("expected DFW default colo, got %q", cfg.Partition.Default)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	cfg, _ := Default()

	err := cfg.applyEnv(envMap(map[string]string{
		"PORT":               "9090",
		"DB_DSN":             "postgres://x",
		"DEGRADE_INTERVAL":   "15m",
		"ACTOR_IDLE_TIMEOUT": "30s",
		"AUTH_ENABLED":       "true",
		"DEFAULT_COLO":       "lhr",
	}))
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.HTTP.Port != "9090" || cfg.Addr() != ":9090" {
		t.Fatalf("unexpected port %q", cfg.HTTP.Port)
	}
	if cfg.Storage.Driver != DriverPostgres || cfg.Storage.DSN != "postgres://x" {
		t.Fatalf("expected postgres from DB_DSN, got %#v", cfg.Storage)
	}
	if cfg.Degradation.Interval != 15*time.Minute || cfg.Actors.IdleTimeout != 30*time.Second {
		t.Fatalf("unexpected durations %#v / %#v", cfg.Degradation, cfg.Actors)
	}
	if !cfg.Auth.Enabled {
		t.Fatalf("expected auth enabled")
	}
	if cfg.Partition.Default != "LHR" {
		t.Fatalf("expected normalized colo, got %q", cfg.Partition.Default)
	}
}

func TestApplyEnv_ExplicitDriverWins(t *testing.T) {
	cfg, _ := Default()

	_ = cfg.applyEnv(envMap(map[string]string{
		"DB_DSN":         "postgres://x",
		"STORAGE_DRIVER": "sqlite",
	}))

	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("expected sqlite, got %q", cfg.Storage.Driver)
	}
}

func TestApplyEnv_BadDuration(t *testing.T) {
	cfg, _ := Default()
	if err := cfg.applyEnv(envMap(map[string]string{"DEGRADE_INTERVAL": "soon"})); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg, _ := Default()
	cfg.Storage.Driver = "mongo"
	cfg.Actors.MailboxSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "mongo") || !strings.Contains(err.Error(), "mailbox_size") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := "storage:\n  driver: sqlite\n  sqlite_path: " + filepath.Join(dir, "x.db") + "\ndegradation:\n  concurrency: 2\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("DB_DSN", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Degradation.Concurrency != 2 {
		t.Fatalf("file not applied: %#v", cfg)
	}
	// campos ausentes en el archivo conservan el default
	if cfg.Degradation.Interval != time.Hour {
		t.Fatalf("expected default interval kept, got %v", cfg.Degradation.Interval)
	}
}
