package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	envVars := []string{
		"QUANTFOLIO_PROVIDERS_FMP_API_KEY", "FMP_API_KEY",
		"QUANTFOLIO_ANALYSIS_BASELINE_YEAR", "QUANTFOLIO_LOGGING_LEVEL",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Analysis defaults
	if cfg.Analysis.BaselineYear != "2023" {
		t.Errorf("Analysis.BaselineYear: got %q, want %q", cfg.Analysis.BaselineYear, "2023")
	}
	if cfg.Analysis.Workers != 10 {
		t.Errorf("Analysis.Workers: got %d, want 10", cfg.Analysis.Workers)
	}
	if cfg.Analysis.UniverseFile != "data/universe.csv" {
		t.Errorf("Analysis.UniverseFile: got %q", cfg.Analysis.UniverseFile)
	}

	// Portfolio defaults
	if cfg.Portfolio.Currency != "USD" {
		t.Errorf("Portfolio.Currency: got %q, want %q", cfg.Portfolio.Currency, "USD")
	}
	if cfg.Portfolio.Rebalancing != "month" {
		t.Errorf("Portfolio.Rebalancing: got %q, want %q", cfg.Portfolio.Rebalancing, "month")
	}
	if cfg.Portfolio.FirstMonth != "2003-09" {
		t.Errorf("Portfolio.FirstMonth: got %q, want %q", cfg.Portfolio.FirstMonth, "2003-09")
	}
	if cfg.Portfolio.LastMonth != "2024-02" {
		t.Errorf("Portfolio.LastMonth: got %q, want %q", cfg.Portfolio.LastMonth, "2024-02")
	}
	if cfg.Portfolio.StartValue != 10000 {
		t.Errorf("Portfolio.StartValue: got %f, want 10000", cfg.Portfolio.StartValue)
	}

	// Simulation defaults
	if cfg.Simulation.DefaultTrials != 5 {
		t.Errorf("Simulation.DefaultTrials: got %d, want 5", cfg.Simulation.DefaultTrials)
	}
	if cfg.Simulation.DefaultLength != "5y" {
		t.Errorf("Simulation.DefaultLength: got %q, want %q", cfg.Simulation.DefaultLength, "5y")
	}
	if cfg.Simulation.DefaultStocks != 15 {
		t.Errorf("Simulation.DefaultStocks: got %d, want 15", cfg.Simulation.DefaultStocks)
	}

	// Store defaults
	if cfg.Store.Dir != "data" {
		t.Errorf("Store.Dir: got %q, want %q", cfg.Store.Dir, "data")
	}

	// Provider defaults
	if cfg.Providers.Default != "yfinance" {
		t.Errorf("Providers.Default: got %q, want %q", cfg.Providers.Default, "yfinance")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if !cfg.Logging.Pretty {
		t.Error("Logging.Pretty: got false, want true")
	}
}

// ── Environment overrides ──

func TestLoadEnvOverrides(t *testing.T) {
	os.Setenv("QUANTFOLIO_ANALYSIS_BASELINE_YEAR", "2021")
	os.Setenv("QUANTFOLIO_LOGGING_LEVEL", "debug")
	defer os.Unsetenv("QUANTFOLIO_ANALYSIS_BASELINE_YEAR")
	defer os.Unsetenv("QUANTFOLIO_LOGGING_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Analysis.BaselineYear != "2021" {
		t.Errorf("Analysis.BaselineYear: got %q, want env override %q", cfg.Analysis.BaselineYear, "2021")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want env override %q", cfg.Logging.Level, "debug")
	}
}

func TestFMPKeyFromEnv(t *testing.T) {
	os.Unsetenv("QUANTFOLIO_PROVIDERS_FMP_API_KEY")
	os.Setenv("FMP_API_KEY", "legacy-key-1234567")
	defer os.Unsetenv("FMP_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Providers.FMP.APIKey != "legacy-key-1234567" {
		t.Errorf("Providers.FMP.APIKey: got %q, want legacy env value", cfg.Providers.FMP.APIKey)
	}

	// The prefixed name wins over the legacy one.
	os.Setenv("QUANTFOLIO_PROVIDERS_FMP_API_KEY", "prefixed-key-7654321")
	defer os.Unsetenv("QUANTFOLIO_PROVIDERS_FMP_API_KEY")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Providers.FMP.APIKey != "prefixed-key-7654321" {
		t.Errorf("Providers.FMP.APIKey: got %q, want prefixed env value", cfg.Providers.FMP.APIKey)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
analysis:
  baseline_year: "2020"
  workers: 4
portfolio:
  first_month: "2010-01"
  last_month: "2020-12"
logging:
  level: warn
  pretty: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Analysis.BaselineYear != "2020" {
		t.Errorf("Analysis.BaselineYear: got %q, want %q", cfg.Analysis.BaselineYear, "2020")
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Analysis.Workers: got %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Portfolio.FirstMonth != "2010-01" {
		t.Errorf("Portfolio.FirstMonth: got %q, want %q", cfg.Portfolio.FirstMonth, "2010-01")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "warn")
	}
	// Untouched sections keep their defaults.
	if cfg.Simulation.DefaultTrials != 5 {
		t.Errorf("Simulation.DefaultTrials: got %d, want default 5", cfg.Simulation.DefaultTrials)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFromFile() with a missing file should error")
	}
}

// ── API key status ──

func TestCheckAPIKeys(t *testing.T) {
	os.Unsetenv("QUANTFOLIO_PROVIDERS_FMP_API_KEY")
	os.Unsetenv("FMP_API_KEY")

	cfg := &Config{}
	keys := CheckAPIKeys(cfg)
	if len(keys) != 1 {
		t.Fatalf("CheckAPIKeys: got %d entries, want 1", len(keys))
	}
	if keys[0].IsSet || keys[0].Source != KeySourceNone {
		t.Errorf("unset key reported as %+v", keys[0])
	}

	cfg.Providers.FMP.APIKey = "abcdefghijklm"
	keys = CheckAPIKeys(cfg)
	if !keys[0].IsSet || keys[0].Source != KeySourceConfig {
		t.Errorf("config key reported as %+v", keys[0])
	}
	if keys[0].Masked != "abc...klm" {
		t.Errorf("Masked: got %q, want %q", keys[0].Masked, "abc...klm")
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"short", "***"},
		{"12345678", "***"},
		{"abcdefghijkl", "abc...jkl"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
