package yfinance

import (
	"context"
	"fmt"
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
			"Historical adjusted-close price data from Yahoo Finance",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamStartDate, provider.ParamEndDate, provider.ParamInterval},
			15*time.Minute, 5, time.Second,
		),
	}
}

func (f *equityHistoricalFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	// Parse date range.
	startDate, endDate := defaultDateRange(params)

	interval := params[provider.ParamInterval]
	if interval == "" {
		interval = "1d"
	}

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&events=div%%2Csplit",
		yfTicker, startDate.Unix(), endDate.Unix(), interval,
	)

	var resp yfChartResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", yfTicker, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yfinance chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data for %s", symbol)
	}

	points := parsePricePoints(resp.Chart.Result[0])
	f.CacheSetTTL(cacheKey, points, 15*time.Minute)
	return newResult(points), nil
}

// --- EquityInfo fetcher ---

type equityInfoFetcher struct {
	provider.BaseFetcher
}

func newEquityInfoFetcher() *equityInfoFetcher {
	return &equityInfoFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelEquityInfo,
			"Company profile and summary info from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *equityInfoFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	modules := "assetProfile,price"
	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=%s",
		yfTicker, modules,
	)

	var resp yfQuoteSummaryResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance info %s: %w", yfTicker, err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no info for %s", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	info := buildEquityProfile(yfTicker, r)

	f.CacheSetTTL(cacheKey, info, 1*time.Hour)
	return newResult(info), nil
}

// buildEquityProfile assembles an EquityProfile from a quoteSummary response.
func buildEquityProfile(yfTicker string, r yfQuoteSummaryResult) *models.EquityProfile {
	info := &models.EquityProfile{
		Ticker: fromYFTicker(yfTicker),
	}

	if r.AssetProfile != nil {
		ap := r.AssetProfile
		info.Sector = ap.Sector
		info.Industry = ap.Industry
	}

	if r.Price != nil {
		info.Name = coalesce(r.Price.LongName, r.Price.ShortName)
		info.Currency = r.Price.Currency
	}

	return info
}

// --- Helpers ---

// parsePricePoints converts YF chart data to adjusted-close points.
// Adjusted close is preferred; the raw close fills in when the adjclose
// indicator is missing. Bars with neither are dropped.
func parsePricePoints(result yfChartResult) []models.PricePoint {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	var adjCloses []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		var price float64
		switch {
		case i < len(adjCloses) && adjCloses[i] != nil:
			price = *adjCloses[i]
		case i < len(q.Close) && q.Close[i] != nil:
			price = *q.Close[i]
		default:
			continue
		}
		points = append(points, models.PricePoint{
			Date:     time.Unix(ts, 0).UTC(),
			AdjClose: price,
		})
	}
	return points
}

// defaultDateRange parses start_date/end_date from params or uses defaults.
func defaultDateRange(params provider.QueryParams) (time.Time, time.Time) {
	now := time.Now()
	endDate := now
	startDate := now.AddDate(-1, 0, 0) // default: 1 year

	if s := params[provider.ParamStartDate]; s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			startDate = t
		}
	}
	if s := params[provider.ParamEndDate]; s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			endDate = t
		}
	}
	return startDate, endDate
}
