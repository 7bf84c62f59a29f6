package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSVStore(t *testing.T) {
	path := writeConfig(t, `
environment: test
server:
  port: 9090
store:
  type: csv
  path: data/orbit_samples.csv
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Store.Backend != "csv" || cfg.Store.Path != "data/orbit_samples.csv" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestValidateRejectsMissingPath(t *testing.T) {
	path := writeConfig(t, `
environment: test
store:
  type: csv
`)
	if _, err := Load(path); err == nil {
		t.Fatal("csv store without a path accepted")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
environment: test
store:
  type: postgres
`)
	if _, err := Load(path); err == nil {
		t.Fatal("unknown store backend accepted")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: test
store:
  type: csv
  path: data/orbit_samples.csv
`)
	t.Setenv("ORBIT_STORE_PATH", "/tmp/other.csv")
	t.Setenv("PORT", "8181")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Path != "/tmp/other.csv" {
		t.Errorf("store path override ignored: %s", cfg.Store.Path)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("port override ignored: %d", cfg.Server.Port)
	}
}
