// Package stockanalysis implements a statements provider that scrapes
// stockanalysis.com financial pages. It is a free fallback source for
// annual statement tables when an API provider has no data for a ticker.
package stockanalysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/quantfolio/internal/infra"
	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/utils"
)

const (
	providerName = "stockanalysis"
	saBaseURL    = "https://stockanalysis.com"
)

// Provider implements provider.Provider for stockanalysis.com.
type Provider struct {
	provider.BaseProvider
}

// New creates a new stockanalysis provider and registers all fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"StockAnalysis - scraped annual financial statements",
			"https://stockanalysis.com",
			nil, // no credentials required
		),
	}

	// --- Equity / Fundamentals ---
	p.RegisterFetcher(newIncomeStatementFetcher())
	p.RegisterFetcher(newBalanceSheetFetcher())
	p.RegisterFetcher(newCashFlowStatementFetcher())

	return p
}

// Ping checks connectivity to stockanalysis.com.
func (p *Provider) Ping(ctx context.Context) error {
	url := saBaseURL + "/stocks/AAPL/financials/"
	body, _, err := infra.DoGet(ctx, url, htmlHeaders())
	if err != nil {
		return fmt.Errorf("stockanalysis ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func htmlHeaders() map[string]string {
	return map[string]string{"Accept": "text/html"}
}

// toSATicker converts a symbol to stockanalysis.com URL form: lower case,
// class shares keep their dot ("brk.b").
func toSATicker(symbol string) string {
	return strings.ToLower(utils.NormalizeTicker(symbol))
}

// fetchDocument downloads and parses an HTML page.
func fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, _, err := infra.DoGet(ctx, url, htmlHeaders())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// newResult creates a FetchResult.
func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}

// newCachedResult creates a cached FetchResult.
func newCachedResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
		Cached:    true,
	}
}
