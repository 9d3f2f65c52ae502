// Package yfinance implements the Yahoo Finance data provider.
// It wraps Yahoo Finance's public APIs (v8 chart, v10 quoteSummary, and the
// fundamentals-timeseries endpoint) into the standard provider/fetcher
// framework.
//
// Yahoo Finance is a free, no-API-key provider and is the default source
// for prices, statements, and share statistics.
package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/seenimoa/quantfolio/internal/infra"
	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/utils"
)

const providerName = "yfinance"

// Provider implements provider.Provider for Yahoo Finance.
type Provider struct {
	provider.BaseProvider
}

// New creates a new YFinance provider and registers all fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Yahoo Finance - free global financial data",
			"https://finance.yahoo.com",
			nil, // no credentials required
		),
	}

	// --- Equity / Price ---
	p.RegisterFetcher(newEquityHistoricalFetcher())
	p.RegisterFetcher(newEquityInfoFetcher())

	// --- Equity / Fundamentals ---
	p.RegisterFetcher(newIncomeStatementFetcher())
	p.RegisterFetcher(newBalanceSheetFetcher())
	p.RegisterFetcher(newCashFlowStatementFetcher())
	p.RegisterFetcher(newShareStatisticsFetcher())

	return p
}

// Ping checks connectivity to Yahoo Finance.
func (p *Provider) Ping(ctx context.Context) error {
	url := "https://query1.finance.yahoo.com/v8/finance/chart/AAPL?range=1d&interval=1d"
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return fmt.Errorf("yfinance ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fetchJSON performs a GET request and decodes the response into dest.
func fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// toYFTicker converts a symbol to Yahoo Finance format. Class shares use a
// dash on Yahoo ("BRK.B" -> "BRK-B"); index symbols pass through.
func toYFTicker(symbol string) string {
	if strings.HasPrefix(symbol, "^") {
		return symbol
	}
	symbol = utils.NormalizeTicker(symbol)
	return strings.ReplaceAll(symbol, ".", "-")
}

// fromYFTicker converts a Yahoo Finance ticker back to canonical form.
func fromYFTicker(yfTicker string) string {
	if strings.HasPrefix(yfTicker, "^") {
		return yfTicker
	}
	return strings.ReplaceAll(yfTicker, "-", ".")
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// newResult creates a FetchResult with the current timestamp.
func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}

// newCachedResult creates a FetchResult marked as cached.
func newCachedResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
		Cached:    true,
	}
}
