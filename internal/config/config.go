package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
}

// Assistant contains connection settings for the metadata assistant.
type Assistant struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	Referer string `toml:"referer"`
	Title   string `toml:"title"`
	// TimeoutSeconds bounds a single assistant request. Zero means no
	// client-side deadline; lookups for obscure books can take minutes.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Catalog contains configuration for the remote Audiobookshelf catalog.
type Catalog struct {
	Enabled            bool   `toml:"enabled"`
	URL                string `toml:"url"`
	Token              string `toml:"token"`
	ScanTimeoutSeconds int    `toml:"scan_timeout_seconds"`
}

// Enrich contains worker pool settings for the enrichment run.
type Enrich struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Tome.
//
// Configuration sections by subsystem:
//   - Paths: library root and log/state directory
//   - Assistant: LLM connection settings for metadata lookup
//   - Catalog: Audiobookshelf re-scan integration
//   - Enrich: worker pool width
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Assistant Assistant `toml:"assistant"`
	Catalog   Catalog   `toml:"catalog"`
	Enrich    Enrich    `toml:"enrich"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tome/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tome.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for a run.
// LibraryDir is created on a best-effort basis so commands keep working when
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// SampleConfig returns the annotated sample configuration shipped with the binary.
func SampleConfig() string {
	return sampleConfig
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	if key := strings.TrimSpace(os.Getenv("TOME_ASSISTANT_API_KEY")); key != "" && strings.TrimSpace(c.Assistant.APIKey) == "" {
		c.Assistant.APIKey = key
	}
	if token := strings.TrimSpace(os.Getenv("TOME_CATALOG_TOKEN")); token != "" && strings.TrimSpace(c.Catalog.Token) == "" {
		c.Catalog.Token = token
	}

	c.Assistant.APIKey = strings.TrimSpace(c.Assistant.APIKey)
	c.Assistant.BaseURL = strings.TrimSpace(c.Assistant.BaseURL)
	c.Assistant.Model = strings.TrimSpace(c.Assistant.Model)
	c.Catalog.URL = strings.TrimRight(strings.TrimSpace(c.Catalog.URL), "/")
	c.Catalog.Token = strings.TrimSpace(c.Catalog.Token)

	if c.Assistant.BaseURL == "" {
		c.Assistant.BaseURL = defaultAssistantBaseURL
	}
	if c.Assistant.Model == "" {
		c.Assistant.Model = defaultAssistantModel
	}
	if c.Catalog.ScanTimeoutSeconds <= 0 {
		c.Catalog.ScanTimeoutSeconds = defaultCatalogScanTimeout
	}
	if c.Enrich.Workers <= 0 {
		c.Enrich.Workers = defaultEnrichWorkers
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
