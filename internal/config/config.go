// Package config loads searchgate configuration from config.yaml in the
// searchgate home directory, applies environment overrides, and exposes
// the credential values the search core resolves against.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SearchConfig holds request-execution settings shared by all providers.
type SearchConfig struct {
	// DefaultProvider is used when an invocation names no provider.
	DefaultProvider string `yaml:"default_provider"`
	// TimeoutSeconds bounds each outbound provider call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// PerplexityConfig holds Perplexity-specific overrides. BaseURL, when
// set, wins over any source-based endpoint inference.
type PerplexityConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// CacheConfig holds response-cache settings.
type CacheConfig struct {
	// Backend selects the cache store: "memory" (default) or "sqlite".
	Backend string `yaml:"backend"`
	// TTLMinutes is how long a cached payload stays fresh.
	TTLMinutes int `yaml:"ttl_minutes"`
	// SweepSchedule is an optional 5-field cron expression for purging
	// expired entries. Empty disables the sweep (TTL-on-read only).
	SweepSchedule string `yaml:"sweep_schedule"`
}

// OTelConfig holds OpenTelemetry settings. Mirrored into the otel
// package's Config at startup.
type OTelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRate  float64 `yaml:"sample_rate"`
}

type Config struct {
	HomeDir string `yaml:"-"`

	BindAddr string `yaml:"bind_addr"`
	LogLevel string `yaml:"log_level"`

	// APIKeys holds configured provider credentials keyed by provider
	// name: "brave", "perplexity", "bocha". Environment variables are
	// consulted by the credential resolver only when a key is absent
	// here — configuration wins.
	APIKeys map[string]string `yaml:"api_keys"`

	Search     SearchConfig     `yaml:"search"`
	Perplexity PerplexityConfig `yaml:"perplexity"`
	Cache      CacheConfig      `yaml:"cache"`
	OTel       OTelConfig       `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		BindAddr: "127.0.0.1:18790",
		LogLevel: "info",
		Search: SearchConfig{
			DefaultProvider: "brave",
			TimeoutSeconds:  30,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTLMinutes: 5,
		},
	}
}

// HomeDir returns the searchgate data directory, honoring SEARCHGATE_HOME.
func HomeDir() string {
	if override := os.Getenv("SEARCHGATE_HOME"); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".searchgate")
}

// ConfigPath returns the path to config.yaml within the given home directory.
func ConfigPath(homeDir string) string {
	return filepath.Join(homeDir, "config.yaml")
}

// CachePath returns the sqlite cache database path within the given
// home directory.
func CachePath(homeDir string) string {
	return filepath.Join(homeDir, "cache.db")
}

// Load reads config.yaml from the searchgate home, falling back to
// defaults when the file is missing.
func Load() (Config, error) {
	return LoadFrom(HomeDir())
}

// LoadFrom reads configuration rooted at the given home directory.
func LoadFrom(homeDir string) (Config, error) {
	cfg := defaultConfig()
	cfg.HomeDir = homeDir

	if err := os.MkdirAll(cfg.HomeDir, 0o755); err != nil {
		return cfg, fmt.Errorf("create searchgate home: %w", err)
	}

	data, err := os.ReadFile(ConfigPath(cfg.HomeDir))
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config.yaml: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config.yaml: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides handles operational knobs. Provider credentials are
// deliberately NOT overridden here: the credential resolver owns the
// config-vs-environment precedence and provenance tagging.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEARCHGATE_BIND_ADDR"); v != "" {
		cfg.BindAddr = v
	}
	if v := os.Getenv("SEARCHGATE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func normalize(cfg *Config) {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "127.0.0.1:18790"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Search.DefaultProvider == "" {
		cfg.Search.DefaultProvider = "brave"
	}
	if cfg.Search.TimeoutSeconds <= 0 {
		cfg.Search.TimeoutSeconds = 30
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTLMinutes <= 0 {
		cfg.Cache.TTLMinutes = 5
	}
}

func validate(cfg *Config) error {
	switch cfg.Cache.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (use memory or sqlite)", cfg.Cache.Backend)
	}
	switch cfg.Search.DefaultProvider {
	case "brave", "perplexity", "bocha":
	default:
		return fmt.Errorf("search.default_provider: unknown provider %q", cfg.Search.DefaultProvider)
	}
	return nil
}

// APIKey returns the configured key for a provider, or "".
func (c Config) APIKey(provider string) string {
	if c.APIKeys == nil {
		return ""
	}
	return strings.TrimSpace(c.APIKeys[provider])
}

// SetAPIKey updates a single provider key in config.yaml, preserving
// other settings. Used by the set-key command.
func SetAPIKey(homeDir, provider, value string) error {
	configPath := ConfigPath(homeDir)
	raw := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read config.yaml: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse config.yaml: %w", err)
		}
	}
	apiKeys, _ := raw["api_keys"].(map[string]interface{})
	if apiKeys == nil {
		apiKeys = make(map[string]interface{})
	}
	apiKeys[provider] = value
	raw["api_keys"] = apiKeys
	out, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal config.yaml: %w", err)
	}
	return os.WriteFile(configPath, out, 0o600)
}
