package fmp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// --- EquityHistorical fetcher ---

type equityHistoricalFetcher struct {
	provider.BaseFetcher
}

func newEquityHistoricalFetcher() *equityHistoricalFetcher {
	return &equityHistoricalFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelEquityHistorical,
			"Historical adjusted-close price data from Financial Modeling Prep",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamStartDate, provider.ParamEndDate},
			15*time.Minute, 5, time.Second,
		),
	}
}

func (f *equityHistoricalFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	apiKey := params["_fmp_api_key"]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	startDate, endDate := defaultDateRange(params)
	path := fmt.Sprintf("/historical-price-full/%s?from=%s&to=%s", symbol, startDate, endDate)

	var resp fmpHistoricalPrice
	if err := fetchFMPJSON(ctx, path, apiKey, &resp); err != nil {
		return nil, fmt.Errorf("fmp historical %s: %w", symbol, err)
	}

	points := parsePricePoints(resp.Historical)
	f.CacheSetTTL(cacheKey, points, 15*time.Minute)
	return newResult(points), nil
}

// parsePricePoints converts FMP bars to adjusted-close points in
// chronological order.
func parsePricePoints(entries []fmpHistoricalEntry) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(entries))
	for _, h := range entries {
		t, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		price := h.AdjClose
		if price == 0 {
			price = h.Close
		}
		if price == 0 {
			continue
		}
		points = append(points, models.PricePoint{Date: t, AdjClose: price})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// --- EquityInfo fetcher ---

type equityInfoFetcher struct {
	provider.BaseFetcher
}

func newEquityInfoFetcher() *equityInfoFetcher {
	return &equityInfoFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelEquityInfo,
			"Company profile from Financial Modeling Prep",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *equityInfoFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	apiKey := params["_fmp_api_key"]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/profile/%s", symbol)
	var profiles []fmpProfile
	if err := fetchFMPJSON(ctx, path, apiKey, &profiles); err != nil {
		return nil, fmt.Errorf("fmp profile %s: %w", symbol, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile for %s", symbol)
	}

	p := profiles[0]
	profile := &models.EquityProfile{
		Ticker:   p.Symbol,
		Name:     p.CompanyName,
		Industry: p.Industry,
		Sector:   p.Sector,
		Currency: p.Currency,
	}

	f.CacheSetTTL(cacheKey, profile, 1*time.Hour)
	return newResult(profile), nil
}
