package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"tome/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TOME_ASSISTANT_API_KEY", "test-key")
	t.Setenv("TOME_CATALOG_TOKEN", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "audiobooks") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "tome", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Assistant.APIKey != "test-key" {
		t.Fatalf("expected assistant key from env, got %q", cfg.Assistant.APIKey)
	}
	if cfg.Assistant.BaseURL != config.Default().Assistant.BaseURL {
		t.Fatalf("unexpected assistant base url: %q", cfg.Assistant.BaseURL)
	}
	if cfg.Catalog.Enabled {
		t.Fatal("expected catalog disabled by default")
	}
	if cfg.Enrich.Workers != 4 {
		t.Fatalf("unexpected worker default: %d", cfg.Enrich.Workers)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log dir %q to exist: %v", cfg.Paths.LogDir, err)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	t.Setenv("TOME_ASSISTANT_API_KEY", "")
	t.Setenv("TOME_CATALOG_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
library_dir = "` + filepath.Join(dir, "books") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[assistant]
api_key = "file-key"

[catalog]
enabled = true
url = "https://abs.example.com/"
token = "abs-token"

[enrich]
workers = 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Catalog.URL != "https://abs.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Catalog.URL)
	}
	if cfg.Catalog.ScanTimeoutSeconds != 10 {
		t.Fatalf("expected scan timeout default, got %d", cfg.Catalog.ScanTimeoutSeconds)
	}
	if cfg.Enrich.Workers != 2 {
		t.Fatalf("unexpected workers: %d", cfg.Enrich.Workers)
	}
	if err := cfg.RequireAssistant(); err != nil {
		t.Fatalf("RequireAssistant: %v", err)
	}
}

func TestLoadRejectsCatalogWithoutToken(t *testing.T) {
	t.Setenv("TOME_ASSISTANT_API_KEY", "")
	t.Setenv("TOME_CATALOG_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[catalog]
enabled = true
url = "https://abs.example.com"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for catalog without token")
	}
}

func TestRequireAssistantMissingKey(t *testing.T) {
	cfg := config.Default()
	cfg.Assistant.APIKey = ""
	if err := cfg.RequireAssistant(); err == nil {
		t.Fatal("expected error when assistant key missing")
	}
}
