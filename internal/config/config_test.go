package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidFilesystemConfig(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "orderlens.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(`
server:
  port: 9090
  host: "127.0.0.1"
  mode: "debug"
dataset:
  source_type: "filesystem"
  path: "./datasets"
`), 0o644))

	cfg, err := Load(cfgPath)
	requireNoError(t, err)
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Dataset.SourceType != "filesystem" {
		t.Fatalf("expected filesystem source, got %q", cfg.Dataset.SourceType)
	}
}

func TestLoad_DefaultsApply(t *testing.T) {
	cfg, err := Load("")
	requireNoError(t, err)
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Dataset.Path != "./datasets" {
		t.Fatalf("expected default dataset path, got %q", cfg.Dataset.Path)
	}
}

func TestLoad_PostgresSourceRequiresDSN(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "orderlens.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(`
dataset:
  source_type: "postgres"
`), 0o644))

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "database.dsn is required") {
		t.Fatalf("expected missing dsn error, got %v", err)
	}
}

func TestLoad_InvalidServerPortFailsStartup(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "orderlens.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(`
server:
  port: -1
dataset:
  source_type: "filesystem"
  path: "./datasets"
`), 0o644))

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "invalid server.port") {
		t.Fatalf("expected invalid server.port error, got %v", err)
	}
}

func TestLoad_UnknownSourceTypeFailsStartup(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "orderlens.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(`
dataset:
  source_type: "s3"
`), 0o644))

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "unsupported dataset.source_type") {
		t.Fatalf("expected unsupported source_type error, got %v", err)
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
