package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("NEGOTIATOR_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.UserTitle != "Policy Advisor" {
		t.Fatalf("default title = %q", cfg.Session.UserTitle)
	}
	if cfg.Model.Name != "llama3-70b-8192" {
		t.Fatalf("default model = %q", cfg.Model.Name)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{
		"session": {"userTitle": "Chief Negotiator"},
		"model": {"name": "from-file"},
		"stream": {"enabled": true, "topic": "file-topic"}
	}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEGOTIATOR_CONFIG", path)
	t.Setenv("NEGOTIATOR_MODEL_MODEL", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.UserTitle != "Chief Negotiator" {
		t.Fatalf("file title not applied: %q", cfg.Session.UserTitle)
	}
	if cfg.Model.Name != "from-env" {
		t.Fatalf("env should beat file: %q", cfg.Model.Name)
	}
	if !cfg.Stream.Enabled || cfg.Stream.Topic != "file-topic" {
		t.Fatalf("stream config = %+v", cfg.Stream)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{not json`), 0o600)
	t.Setenv("NEGOTIATOR_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Fatal("malformed config must error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Session.UserTitle = "Mediator"
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEGOTIATOR_CONFIG", path)
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Session.UserTitle != "Mediator" {
		t.Fatalf("round trip title = %q", got.Session.UserTitle)
	}
}
