package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the compensation assistant.
// Values come from a YAML file (config.yaml) with environment variable
// overrides. Secrets (API keys) must only come from environment variables.
type Config struct {
	// Database is the path to the compensation SQLite file.
	Database DatabaseConfig `yaml:"database"`

	// LLM configures the optional language-model provider. The assistant
	// is fully functional without one; every LLM call has a deterministic
	// fallback.
	LLM LLMConfig `yaml:"llm"`

	// Query controls executor behavior.
	Query QueryConfig `yaml:"query"`

	// Extraction defaults applied when a question omits a value.
	Extraction ExtractionConfig `yaml:"extraction"`

	// Paths for generated artifacts and reusable analysis tools.
	Paths PathsConfig `yaml:"paths"`

	Version string `yaml:"-"`
}

// DatabaseConfig locates the compensation store.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"COMP_DATABASE_PATH" env-default:"compensation.db"`
	// BusyTimeoutMS is passed to SQLite's busy_timeout pragma.
	BusyTimeoutMS int `yaml:"busy_timeout_ms" env:"COMP_DB_BUSY_TIMEOUT_MS" env-default:"5000"`
}

// LLMConfig selects and configures a provider.
type LLMConfig struct {
	// Provider is "anthropic", "openai", or "none".
	Provider string `yaml:"provider" env:"COMP_LLM_PROVIDER" env-default:"none"`
	Model    string `yaml:"model" env:"COMP_LLM_MODEL" env-default:""`
	// Endpoint is the base URL for OpenAI-compatible providers.
	Endpoint string `yaml:"endpoint" env:"COMP_LLM_ENDPOINT" env-default:""`
	// APIKey is secret and therefore env-only.
	APIKey      string  `yaml:"-" env:"COMP_LLM_API_KEY"`
	MaxTokens   int     `yaml:"max_tokens" env:"COMP_LLM_MAX_TOKENS" env-default:"1024"`
	Temperature float64 `yaml:"temperature" env:"COMP_LLM_TEMPERATURE" env-default:"0.2"`
	TimeoutSec  int     `yaml:"timeout_sec" env:"COMP_LLM_TIMEOUT_SEC" env-default:"30"`
}

// Enabled reports whether a provider is configured.
func (c *LLMConfig) Enabled() bool {
	return c.Provider != "" && c.Provider != "none" && c.Model != ""
}

// QueryConfig controls the SQL executor.
type QueryConfig struct {
	// RowLimit caps returned rows. Zero disables the cap. When the cap
	// truncates a result the executor reports the true total.
	RowLimit int `yaml:"row_limit" env:"COMP_QUERY_ROW_LIMIT" env-default:"10"`
	// ExcludedLevelPatterns are SQL LIKE patterns removed from every query.
	ExcludedLevelPatterns []string `yaml:"excluded_level_patterns" env:"COMP_EXCLUDED_LEVEL_PATTERNS" env-separator:"," env-default:"%Roll-Up%,%Executive%"`
}

// ExtractionConfig holds defaults used when a question leaves a slot empty.
type ExtractionConfig struct {
	// DefaultSpread is the pay-range half-width as a fraction of midpoint.
	DefaultSpread float64 `yaml:"default_spread" env:"COMP_DEFAULT_SPREAD" env-default:"0.20"`
	// SuggestionCutoff is the minimum similarity (0..1) for fuzzy
	// alternatives offered for unrecognized names.
	SuggestionCutoff float64 `yaml:"suggestion_cutoff" env:"COMP_SUGGESTION_CUTOFF" env-default:"0.6"`
	// MaxSuggestions caps alternatives per unrecognized name.
	MaxSuggestions int `yaml:"max_suggestions" env:"COMP_MAX_SUGGESTIONS" env-default:"3"`
}

// PathsConfig holds output and tool directories.
type PathsConfig struct {
	ExportsDir string `yaml:"exports_dir" env:"COMP_EXPORTS_DIR" env-default:"exports"`
	ChartsDir  string `yaml:"charts_dir" env:"COMP_CHARTS_DIR" env-default:"charts"`
	// ToolsDir is scanned for reusable analysis executables.
	ToolsDir string `yaml:"tools_dir" env:"COMP_TOOLS_DIR" env-default:"tools"`
}

// Load reads configuration from path with environment variable overrides.
// A missing file is not an error; defaults plus environment apply.
func Load(path, version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Query.RowLimit < 0 {
		return fmt.Errorf("query.row_limit must be >= 0, got %d", c.Query.RowLimit)
	}
	if c.Extraction.DefaultSpread <= 0 || c.Extraction.DefaultSpread >= 1 {
		return fmt.Errorf("extraction.default_spread must be in (0,1), got %g", c.Extraction.DefaultSpread)
	}
	switch c.LLM.Provider {
	case "", "none", "anthropic", "openai":
	default:
		return fmt.Errorf("llm.provider must be anthropic, openai, or none, got %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" && c.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required for the openai provider")
	}
	return nil
}
