package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yuqie6/trainerhub/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile = ""
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")

	out, err := run(t, "config", "init", "-c", path)
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("output %q should mention %s", out, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := run(t, "config", "init", "-c", path); err == nil {
		t.Fatalf("second init without --force should fail")
	}
	if _, err := run(t, "config", "init", "-c", path, "--force"); err != nil {
		t.Fatalf("init --force error: %v", err)
	}
}

func TestTokenCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := run(t, "config", "init", "-c", path); err != nil {
		t.Fatalf("config init error: %v", err)
	}

	if _, err := run(t, "token", "-c", path, "--user", "7"); err == nil {
		t.Fatalf("token without jwt_secret should fail")
	}

	t.Setenv("TRAINERHUB_AUTH_JWT_SECRET", "cli-secret")
	out, err := run(t, "token", "-c", path, "--user", "7")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	issuer, err := auth.NewIssuer("cli-secret", "trainerhub", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}
	owner, err := issuer.Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if owner != 7 {
		t.Fatalf("owner=%d, want 7", owner)
	}
}

func TestXPGainAndLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if _, err := run(t, "config", "init", "-c", path); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	t.Setenv("TRAINERHUB_STORAGE_DB_PATH", filepath.Join(dir, "data", "th.db"))

	out, err := run(t, "xp", "gain", "-c", path, "--user", "1", "--pokemon", "4", "--delta", "60")
	if err != nil {
		t.Fatalf("xp gain error: %v", err)
	}
	if !strings.Contains(out, "Lv.2") {
		t.Fatalf("gain output %q should report Lv.2", out)
	}

	out, err = run(t, "xp", "log", "-c", path, "--user", "1")
	if err != nil {
		t.Fatalf("xp log error: %v", err)
	}
	if !strings.Contains(out, "XP for 4") {
		t.Fatalf("log output %q should contain default reason", out)
	}
}
