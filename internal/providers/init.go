// Package providers initializes and registers all concrete data providers
// with the global provider registry.
package providers

import (
	"os"

	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/internal/providers/fmp"
	"github.com/seenimoa/quantfolio/internal/providers/stockanalysis"
	"github.com/seenimoa/quantfolio/internal/providers/yfinance"
)

// RegisterAll creates and registers all available providers with the
// global registry. Providers that require API keys will only be registered
// if their environment variable is set.
func RegisterAll() error {
	return RegisterAllTo(provider.Global())
}

// RegisterAllTo registers all available providers to the given registry.
// Registration order sets fallback priority: Yahoo Finance first, FMP when
// a key is configured, then the stockanalysis scraper as a last resort.
func RegisterAllTo(reg *provider.Registry) error {
	// --- YFinance (free, no API key) ---
	yf := yfinance.New()
	if err := yf.Init(nil); err != nil {
		return err
	}
	if err := reg.Register(yf); err != nil {
		return err
	}

	// --- FMP (requires API key) ---
	if apiKey := fmpAPIKey(); apiKey != "" {
		fp := fmp.New()
		if err := fp.Init(map[string]string{"api_key": apiKey}); err != nil {
			return err
		}
		if err := reg.Register(fp); err != nil {
			return err
		}
	}

	// --- StockAnalysis (free, scraped) ---
	sa := stockanalysis.New()
	if err := sa.Init(nil); err != nil {
		return err
	}
	if err := reg.Register(sa); err != nil {
		return err
	}

	return nil
}

// fmpAPIKey looks up the FMP key. The prefixed name wins over the legacy
// plain name.
func fmpAPIKey() string {
	if v := os.Getenv("QUANTFOLIO_PROVIDERS_FMP_API_KEY"); v != "" {
		return v
	}
	return os.Getenv("FMP_API_KEY")
}
