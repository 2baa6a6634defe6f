package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/costwise/azure-pricing/internal/catalog"
	"github.com/costwise/azure-pricing/internal/engine"
)

// Environment variables understood by the CLI. Env values override the
// config file.
const (
	envBaseURL  = "AZURE_PRICING_BASE_URL"
	envCurrency = "AZURE_PRICING_CURRENCY"
	envLogLevel = "AZURE_PRICING_LOG_LEVEL"
)

// Config holds the CLI-level settings: catalog endpoint, default currency,
// log level, and the engine's policy constants.
type Config struct {
	BaseURL  string `yaml:"base_url"`
	Currency string `yaml:"currency"`
	LogLevel string `yaml:"log_level"`

	Policy PolicyConfig `yaml:"policy"`
}

// PolicyConfig exposes the tunable pipeline thresholds in the config file.
// Zero values fall back to the engine defaults.
type PolicyConfig struct {
	AmbiguityThreshold int     `yaml:"ambiguity_threshold"`
	SuggestionCap      int     `yaml:"suggestion_cap"`
	BroadSearchLimit   int     `yaml:"broad_search_limit"`
	HoursPerMonth      float64 `yaml:"hours_per_month"`
}

// defaultConfig returns the built-in settings.
func defaultConfig() Config {
	return Config{
		BaseURL:  catalog.DefaultBaseURL,
		Currency: catalog.DefaultCurrency,
		LogLevel: "info",
	}
}

// loadConfig builds the effective configuration: defaults, then the optional
// YAML file, then environment overrides.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = catalog.DefaultBaseURL
		}
		if cfg.Currency == "" {
			cfg.Currency = catalog.DefaultCurrency
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	if v := os.Getenv(envBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(envCurrency); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// enginePolicy merges the configured overrides onto the default policy.
func (c Config) enginePolicy() engine.Policy {
	p := engine.DefaultPolicy()
	if c.Policy.AmbiguityThreshold > 0 {
		p.AmbiguityThreshold = c.Policy.AmbiguityThreshold
	}
	if c.Policy.SuggestionCap > 0 {
		p.SuggestionCap = c.Policy.SuggestionCap
	}
	if c.Policy.BroadSearchLimit > 0 {
		p.BroadSearchLimit = c.Policy.BroadSearchLimit
	}
	if c.Policy.HoursPerMonth > 0 {
		p.HoursPerMonth = c.Policy.HoursPerMonth
	}
	return p
}
