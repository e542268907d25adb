package config

const (
	defaultLibraryDir         = "~/audiobooks"
	defaultLogDir             = "~/.local/share/tome/logs"
	defaultAssistantBaseURL   = "https://openrouter.ai/api/v1/chat/completions"
	defaultAssistantModel     = "google/gemini-3-flash-preview"
	defaultAssistantReferer   = "https://github.com/tome-cli/tome"
	defaultAssistantTitle     = "Tome Audiobook Enricher"
	defaultCatalogScanTimeout = 10
	defaultEnrichWorkers      = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Assistant: Assistant{
			BaseURL: defaultAssistantBaseURL,
			Model:   defaultAssistantModel,
			Referer: defaultAssistantReferer,
			Title:   defaultAssistantTitle,
		},
		Catalog: Catalog{
			ScanTimeoutSeconds: defaultCatalogScanTimeout,
		},
		Enrich: Enrich{
			Workers: defaultEnrichWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
