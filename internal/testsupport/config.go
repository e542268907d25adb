package testsupport

import (
	"path/filepath"
	"testing"

	"tome/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Assistant.APIKey = "test-key"
	cfg.Assistant.BaseURL = "http://127.0.0.1:0"
	cfg.Logging.Level = "error"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithAssistantURL points the assistant client at a test server.
func WithAssistantURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Assistant.BaseURL = url
	}
}

// WithCatalog enables the catalog against a test server.
func WithCatalog(url, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Catalog.Enabled = true
		cfg.Catalog.URL = url
		cfg.Catalog.Token = token
	}
}
