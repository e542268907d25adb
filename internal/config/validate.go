package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateEnrich(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireAssistant verifies the assistant can be invoked. Commands that never
// talk to the assistant (scan, history, config) skip this check.
func (c *Config) RequireAssistant() error {
	if c.Assistant.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tome/config.toml"
		}
		return fmt.Errorf("assistant.api_key is required. Set TOME_ASSISTANT_API_KEY env var or edit %s (create with 'tome config init')", defaultPath)
	}
	if c.Assistant.Model == "" {
		return errors.New("assistant.model must be set")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if !c.Catalog.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Catalog.URL) == "" {
		return errors.New("catalog.url must be set when catalog.enabled is true")
	}
	if strings.TrimSpace(c.Catalog.Token) == "" {
		return errors.New("catalog.token must be set when catalog.enabled is true")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	if c.Enrich.Workers < 1 || c.Enrich.Workers > 32 {
		return errors.New("enrich.workers must be between 1 and 32")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
