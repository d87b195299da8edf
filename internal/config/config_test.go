package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 8000 || cfg.Database.Driver != "postgres" || cfg.Storage.Provider != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Views.DedupWindow().Hours() != 24 {
		t.Fatalf("unexpected dedup window: %v", cfg.Views.DedupWindow())
	}
	if cfg.Kafka.Topic("video_events") != "tourtube.video-events" {
		t.Fatalf("unexpected topic: %q", cfg.Kafka.Topic("video_events"))
	}
	if Get() != cfg {
		t.Fatal("Load should install the global config")
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("app:\n  port: 9100\ndatabase:\n  driver: memory\nstorage:\n  provider: local\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JWT_ACCESS_SECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 9100 || cfg.Database.Driver != "memory" {
		t.Fatalf("file values not applied: %+v", cfg.App)
	}
	if cfg.JWT.AccessSecret != "from-env" {
		t.Fatalf("env override not applied: %q", cfg.JWT.AccessSecret)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  provider: ftp\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown storage provider")
	}
}
