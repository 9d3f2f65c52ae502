// Package config handles configuration loading for quantfolio.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Analysis   AnalysisConfig   `mapstructure:"analysis"   yaml:"analysis"`
	Portfolio  PortfolioConfig  `mapstructure:"portfolio"  yaml:"portfolio"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Store      StoreConfig      `mapstructure:"store"      yaml:"store"`
	Providers  ProvidersConfig  `mapstructure:"providers"  yaml:"providers"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// AnalysisConfig holds ratio engine settings.
type AnalysisConfig struct {
	BaselineYear string `mapstructure:"baseline_year" yaml:"baseline_year"` // fiscal-year column, e.g. "2023"
	Workers      int    `mapstructure:"workers"       yaml:"workers"`       // batch fan-out pool size
	UniverseFile string `mapstructure:"universe_file" yaml:"universe_file"`
}

// PortfolioConfig holds the portfolio construction window and cadence.
type PortfolioConfig struct {
	Currency    string  `mapstructure:"currency"    yaml:"currency"`
	Rebalancing string  `mapstructure:"rebalancing" yaml:"rebalancing"`
	FirstMonth  string  `mapstructure:"first_month" yaml:"first_month"` // "2006-01"
	LastMonth   string  `mapstructure:"last_month"  yaml:"last_month"`
	StartValue  float64 `mapstructure:"start_value" yaml:"start_value"` // reporting basis for simulation results
}

// SimulationConfig holds simulation driver defaults.
type SimulationConfig struct {
	DefaultTrials int    `mapstructure:"default_trials" yaml:"default_trials"`
	DefaultLength string `mapstructure:"default_length" yaml:"default_length"` // 3m, 6m, 1y, 3y, 5y, 10y
	DefaultStocks int    `mapstructure:"default_stocks" yaml:"default_stocks"`
}

// StoreConfig holds the JSON results store location.
type StoreConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ProvidersConfig holds market data provider settings.
type ProvidersConfig struct {
	Default string    `mapstructure:"default" yaml:"default"`
	FMP     FMPConfig `mapstructure:"fmp"     yaml:"fmp"`
}

// FMPConfig holds Financial Modeling Prep credentials.
type FMPConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"` // "debug", "info", "warn", "error"
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./configs/config.yaml (project root)
//  2. ~/.quantfolio/config.yaml (home directory)
//  3. /etc/quantfolio/config.yaml (system)
//
// Environment variables override config file values.
// Format: QUANTFOLIO_<SECTION>_<KEY>, e.g., QUANTFOLIO_PROVIDERS_FMP_API_KEY
func Load() (*Config, error) {
	// A local .env feeds the env bindings below. Absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(filepath.Join(homeDir(), ".quantfolio"))
	v.AddConfigPath("/etc/quantfolio")

	// Environment variable settings
	v.SetEnvPrefix("QUANTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("QUANTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.baseline_year", "2023")
	v.SetDefault("analysis.workers", 10)
	v.SetDefault("analysis.universe_file", "data/universe.csv")

	// Portfolio defaults (the historical window simulations draw on)
	v.SetDefault("portfolio.currency", "USD")
	v.SetDefault("portfolio.rebalancing", "month")
	v.SetDefault("portfolio.first_month", "2003-09")
	v.SetDefault("portfolio.last_month", "2024-02")
	v.SetDefault("portfolio.start_value", 10000)

	// Simulation defaults
	v.SetDefault("simulation.default_trials", 5)
	v.SetDefault("simulation.default_length", "5y")
	v.SetDefault("simulation.default_stocks", 15)

	// Store defaults
	v.SetDefault("store.dir", "data")

	// Provider defaults
	v.SetDefault("providers.default", "yfinance")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", true)
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("QUANTFOLIO_PROVIDERS_FMP_API_KEY"); key != "" {
		cfg.Providers.FMP.APIKey = key
	}
	if cfg.Providers.FMP.APIKey == "" {
		// Legacy plain name, kept for .env files written for the FMP docs.
		cfg.Providers.FMP.APIKey = os.Getenv("FMP_API_KEY")
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
