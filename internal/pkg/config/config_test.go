package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "app:\n  name: trainerhub\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Ledger.Backend != LedgerBackendSQL {
		t.Fatalf("ledger backend=%q, want sql", cfg.Ledger.Backend)
	}
	if cfg.Defaults.GoalMinutes != 60 || cfg.Defaults.Theme != "fire" || cfg.Defaults.PartnerPokemon != 1 {
		t.Fatalf("defaults=%+v", cfg.Defaults)
	}
	if cfg.Progression.MaxConflictRetries != 5 || cfg.Ledger.AppendRetries != 3 {
		t.Fatalf("retries: conflict=%d append=%d", cfg.Progression.MaxConflictRetries, cfg.Ledger.AppendRetries)
	}
	if cfg.Auth.TokenTTLHours != 168 {
		t.Fatalf("token ttl=%d, want 168", cfg.Auth.TokenTTLHours)
	}
	if !filepath.IsAbs(cfg.Storage.DBPath) {
		t.Fatalf("db path should be resolved to absolute, got %q", cfg.Storage.DBPath)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, strings.Join([]string{
		"storage:",
		"  db_path: " + filepath.Join(dir, "hub.db"),
		"auth:",
		"  jwt_secret: ${TRAINERHUB_TEST_SECRET}",
		"progression:",
		"  level_thresholds: [0, 10, 20]",
		"defaults:",
		"  theme: water",
	}, "\n"))

	t.Setenv("TRAINERHUB_TEST_SECRET", "s3cret")
	t.Setenv("TRAINERHUB_FOCUS_XP_PER_MINUTE", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("jwt secret=%q, want expanded env", cfg.Auth.JWTSecret)
	}
	if cfg.Focus.XPPerMinute != 2 {
		t.Fatalf("xp_per_minute=%d, want 2 from env", cfg.Focus.XPPerMinute)
	}
	if cfg.Defaults.Theme != "water" {
		t.Fatalf("theme=%q", cfg.Defaults.Theme)
	}
	if got := cfg.Progression.LevelThresholds; len(got) != 3 || got[2] != 20 {
		t.Fatalf("thresholds=%v", got)
	}
	if cfg.Storage.DBPath != filepath.Join(dir, "hub.db") {
		t.Fatalf("db path=%q", cfg.Storage.DBPath)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown ledger backend", "ledger:\n  backend: kafka\n"},
		{"redis without addr", "ledger:\n  backend: redis\n"},
		{"negative retries", "progression:\n  max_conflict_retries: -1\n"},
		{"zero goal minutes", "defaults:\n  goal_minutes: 0\n"},
		{"negative xp per minute", "focus:\n  xp_per_minute: -1\n"},
		{"xp per minute above session cap", "focus:\n  xp_per_minute: 694445\n"},
		{"xp per minute overflowing int64", "focus:\n  xp_per_minute: 9223372036854775807\n"},
	}
	for _, tc := range cases {
		path := writeConfig(t, t.TempDir(), tc.body)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestFocusXPPerMinuteUpperBoundIsAccepted(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "focus:\n  xp_per_minute: 694444\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Focus.XPPerMinute*24*60 > 1_000_000_000 {
		t.Fatalf("max xp_per_minute must keep a full-day session within the delta cap")
	}
}

func TestWriteFileCanBeLoaded(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.DBPath = filepath.Join(dir, "data", "hub.db")
	cfg.Ledger.Backend = LedgerBackendRedis
	cfg.Ledger.RedisAddr = "127.0.0.1:6379"

	path := filepath.Join(dir, "config", "config.yaml")
	if err := WriteFile(path, cfg); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Ledger.Backend != LedgerBackendRedis || loaded.Ledger.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("ledger=%+v", loaded.Ledger)
	}
	if loaded.Storage.DBPath != cfg.Storage.DBPath {
		t.Fatalf("db path=%q, want %q", loaded.Storage.DBPath, cfg.Storage.DBPath)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "app:\n  log_level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 4)
	if err := Watch(ctx, path, func(c *Config) { changed <- c }); err != nil {
		t.Fatalf("Watch error: %v", err)
	}

	writeConfig(t, dir, "app:\n  log_level: debug\n")

	select {
	case cfg := <-changed:
		if cfg.App.LogLevel != "debug" {
			t.Fatalf("log level=%q, want debug", cfg.App.LogLevel)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("config change not observed")
	}
}
