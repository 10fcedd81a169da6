package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	logger := zerolog.Nop()

	cfg, resolved, err := Load(&logger, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "http_addr: \":9090\"\nirc_addr: \":6668\"\nflood_burst: 5\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	logger := zerolog.Nop()

	cfg, _, err := Load(&logger, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.IRCAddr != ":6668" || cfg.FloodBurst != 5 {
		t.Fatalf("cfg = %+v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.MaxMsgLen != 100 || cfg.FloodWindow != 10*time.Second {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_path: file.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DUPLEXD_DB_PATH", "env.db")
	logger := zerolog.Nop()

	cfg, _, err := Load(&logger, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("db_path = %q, want env.db", cfg.DBPath)
	}
}

func TestResolveConfigPathHonorsEnvDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigDefaultPath, dir)

	if got := resolveConfigPath(""); got != filepath.Join(dir, defaultConfigName) {
		t.Fatalf("resolved = %q", got)
	}
	if got := resolveConfigPath("/etc/duplexd.yaml"); got != "/etc/duplexd.yaml" {
		t.Fatalf("explicit path ignored: %q", got)
	}
}
