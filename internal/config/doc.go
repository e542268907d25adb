// Package config loads, validates, and normalizes Tome configuration.
//
// Configuration is a single TOML file (default ~/.config/tome/config.toml,
// falling back to ./tome.toml). Load applies defaults first, then file
// values, then environment overrides for secrets (TOME_ASSISTANT_API_KEY,
// TOME_CATALOG_TOKEN), and finally expands ~ and relative paths to absolute
// ones so downstream packages never re-resolve them.
//
// Validate covers structural requirements only; the assistant API key is
// checked separately via RequireAssistant so read-only commands work without
// credentials.
package config
