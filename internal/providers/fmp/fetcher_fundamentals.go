package fmp

import (
	"context"
	"fmt"
	"time"

	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// --- IncomeStatement fetcher ---

type incomeStatementFetcher struct {
	provider.BaseFetcher
}

func newIncomeStatementFetcher() *incomeStatementFetcher {
	return &incomeStatementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelIncomeStatement,
			"Annual income statement line items from Financial Modeling Prep",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamLimit},
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *incomeStatementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	apiKey := params["_fmp_api_key"]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/income-statement/%s?limit=%s", symbol, statementLimit(params))

	var results []fmpIncomeStatement
	if err := fetchFMPJSON(ctx, path, apiKey, &results); err != nil {
		return nil, fmt.Errorf("fmp income statement %s: %w", symbol, err)
	}

	// Results arrive newest first, so the period order matches.
	st := models.NewStatement()
	for _, r := range results {
		year := fiscalYearLabel(r.CalendarYear, r.Date)
		if year == "" {
			continue
		}
		st.Set(models.RowNetIncome, year, r.NetIncome)
		st.Set(models.RowTotalRevenue, year, r.Revenue)
		st.Set(models.RowCostOfRevenue, year, r.CostOfRevenue)
		st.Set(models.RowDilutedEPS, year, r.EPSDiluted)
		st.Set(models.RowEBIT, year, r.OperatingIncome)
		st.Set(models.RowInterestExpense, year, r.InterestExpense)
	}

	f.CacheSetTTL(cacheKey, st, 1*time.Hour)
	return newResult(st), nil
}

// --- BalanceSheet fetcher ---

type balanceSheetFetcher struct {
	provider.BaseFetcher
}

func newBalanceSheetFetcher() *balanceSheetFetcher {
	return &balanceSheetFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelBalanceSheet,
			"Annual balance sheet line items from Financial Modeling Prep",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamLimit},
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *balanceSheetFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	apiKey := params["_fmp_api_key"]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/balance-sheet-statement/%s?limit=%s", symbol, statementLimit(params))

	var results []fmpBalanceSheet
	if err := fetchFMPJSON(ctx, path, apiKey, &results); err != nil {
		return nil, fmt.Errorf("fmp balance sheet %s: %w", symbol, err)
	}

	st := models.NewStatement()
	for _, r := range results {
		year := fiscalYearLabel(r.CalendarYear, r.Date)
		if year == "" {
			continue
		}
		st.Set(models.RowTotalAssets, year, r.TotalAssets)
		st.Set(models.RowStockholdersEquity, year, r.TotalStockholdersEquity)
		st.Set(models.RowCurrentAssets, year, r.TotalCurrentAssets)
		st.Set(models.RowCurrentLiabilities, year, r.TotalCurrentLiabilities)
		st.Set(models.RowInventory, year, r.Inventory)
		st.Set(models.RowCashAndEquivalents, year, r.CashAndCashEquivalents)
		st.Set(models.RowAccountsReceivable, year, r.NetReceivables)
		st.Set(models.RowTotalLiabilities, year, r.TotalLiabilities)
	}

	f.CacheSetTTL(cacheKey, st, 1*time.Hour)
	return newResult(st), nil
}

// --- CashFlowStatement fetcher ---

type cashFlowStatementFetcher struct {
	provider.BaseFetcher
}

func newCashFlowStatementFetcher() *cashFlowStatementFetcher {
	return &cashFlowStatementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCashFlowStatement,
			"Annual cash flow statement line items from Financial Modeling Prep",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamLimit},
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *cashFlowStatementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	apiKey := params["_fmp_api_key"]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/cash-flow-statement/%s?limit=%s", symbol, statementLimit(params))

	var results []fmpCashFlow
	if err := fetchFMPJSON(ctx, path, apiKey, &results); err != nil {
		return nil, fmt.Errorf("fmp cash flow %s: %w", symbol, err)
	}

	st := models.NewStatement()
	for _, r := range results {
		year := fiscalYearLabel(r.CalendarYear, r.Date)
		if year == "" {
			continue
		}
		// Kept negative as reported: dividends are a cash outflow.
		st.Set(models.RowCashDividendsPaid, year, r.DividendsPaid)
	}

	f.CacheSetTTL(cacheKey, st, 1*time.Hour)
	return newResult(st), nil
}

// --- ShareStatistics fetcher ---

type shareStatisticsFetcher struct {
	provider.BaseFetcher
}

func newShareStatisticsFetcher() *shareStatisticsFetcher {
	return &shareStatisticsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelShareStatistics,
			"Share float statistics from Financial Modeling Prep",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *shareStatisticsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	apiKey := params["_fmp_api_key"]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/shares_float?symbol=%s", symbol)
	var results []fmpShareFloat
	if err := fetchFMPJSON(ctx, path, apiKey, &results); err != nil {
		return nil, fmt.Errorf("fmp share float %s: %w", symbol, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no share float for %s", symbol)
	}

	r := results[0]
	stats := &models.ShareStats{
		Ticker:            symbol,
		SharesOutstanding: r.OutstandingShares,
		FloatShares:       r.FloatShares,
	}

	f.CacheSetTTL(cacheKey, stats, 1*time.Hour)
	return newResult(stats), nil
}

// statementLimit returns the requested statement count, defaulting to ten
// fiscal years.
func statementLimit(params provider.QueryParams) string {
	if limit := params[provider.ParamLimit]; limit != "" {
		return limit
	}
	return "10"
}
