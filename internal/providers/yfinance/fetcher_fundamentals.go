package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// timeseriesRow pairs a canonical statement row label with the Yahoo
// fundamentals-timeseries type that reports it.
type timeseriesRow struct {
	Row  string
	Type string
}

// Row order here is the row order of the assembled statement.
var incomeRows = []timeseriesRow{
	{models.RowNetIncome, "annualNetIncome"},
	{models.RowTotalRevenue, "annualTotalRevenue"},
	{models.RowCostOfRevenue, "annualCostOfRevenue"},
	{models.RowDilutedEPS, "annualDilutedEPS"},
	{models.RowEBIT, "annualEBIT"},
	{models.RowInterestExpense, "annualInterestExpense"},
}

var balanceRows = []timeseriesRow{
	{models.RowTotalAssets, "annualTotalAssets"},
	{models.RowStockholdersEquity, "annualStockholdersEquity"},
	{models.RowCurrentAssets, "annualCurrentAssets"},
	{models.RowCurrentLiabilities, "annualCurrentLiabilities"},
	{models.RowInventory, "annualInventory"},
	{models.RowCashAndEquivalents, "annualCashAndCashEquivalents"},
	{models.RowAccountsReceivable, "annualAccountsReceivable"},
	{models.RowTotalLiabilities, "annualTotalLiabilitiesNetMinorityInterest"},
}

var cashflowRows = []timeseriesRow{
	{models.RowCashDividendsPaid, "annualCashDividendsPaid"},
}

// --- IncomeStatement fetcher ---

type incomeStatementFetcher struct {
	provider.BaseFetcher
}

func newIncomeStatementFetcher() *incomeStatementFetcher {
	return &incomeStatementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelIncomeStatement,
			"Annual income statement line items from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *incomeStatementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return fetchStatementResult(ctx, &f.BaseFetcher, params, incomeRows)
}

// --- BalanceSheet fetcher ---

type balanceSheetFetcher struct {
	provider.BaseFetcher
}

func newBalanceSheetFetcher() *balanceSheetFetcher {
	return &balanceSheetFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelBalanceSheet,
			"Annual balance sheet line items from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *balanceSheetFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return fetchStatementResult(ctx, &f.BaseFetcher, params, balanceRows)
}

// --- CashFlowStatement fetcher ---

type cashFlowStatementFetcher struct {
	provider.BaseFetcher
}

func newCashFlowStatementFetcher() *cashFlowStatementFetcher {
	return &cashFlowStatementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCashFlowStatement,
			"Annual cash flow statement line items from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *cashFlowStatementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return fetchStatementResult(ctx, &f.BaseFetcher, params, cashflowRows)
}

// --- ShareStatistics fetcher ---

type shareStatisticsFetcher struct {
	provider.BaseFetcher
}

func newShareStatisticsFetcher() *shareStatisticsFetcher {
	return &shareStatisticsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelShareStatistics,
			"Share count statistics from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *shareStatisticsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics",
		yfTicker,
	)

	var resp yfQuoteSummaryResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance share statistics %s: %w", yfTicker, err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 || resp.QuoteSummary.Result[0].DefaultKeyStatistics == nil {
		return nil, fmt.Errorf("no share statistics for %s", symbol)
	}

	ks := resp.QuoteSummary.Result[0].DefaultKeyStatistics
	stats := &models.ShareStats{
		Ticker:            fromYFTicker(yfTicker),
		SharesOutstanding: ks.SharesOutstanding.Raw,
		FloatShares:       ks.FloatShares.Raw,
	}

	f.CacheSetTTL(cacheKey, stats, 1*time.Hour)
	return newResult(stats), nil
}

// --- Helpers ---

// fetchStatementResult is the shared fetch path for the three statement
// fetchers: cache, rate limit, timeseries request, table assembly.
func fetchStatementResult(ctx context.Context, base *provider.BaseFetcher, params provider.QueryParams, rows []timeseriesRow) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	cacheKey := provider.CacheKey(base.ModelType(), params)
	if cached, ok := base.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	if err := base.RateLimit(ctx); err != nil {
		return nil, err
	}

	observations, err := fetchTimeseries(ctx, yfTicker, rows)
	if err != nil {
		return nil, fmt.Errorf("yfinance %s %s: %w", base.ModelType(), yfTicker, err)
	}

	st := buildStatement(rows, observations)
	base.CacheSetTTL(cacheKey, st, 1*time.Hour)
	return newResult(st), nil
}

// fetchTimeseries requests the given fundamentals-timeseries types and
// groups the observations by type name.
func fetchTimeseries(ctx context.Context, yfTicker string, rows []timeseriesRow) (map[string][]yfFundamentalObs, error) {
	types := make([]string, len(rows))
	for i, r := range rows {
		types[i] = r.Type
	}

	now := time.Now()
	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries/%s?symbol=%s&type=%s&period1=%d&period2=%d",
		yfTicker, yfTicker, strings.Join(types, ","),
		now.AddDate(-10, 0, 0).Unix(), now.Unix(),
	)

	var resp yfTimeseriesResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Timeseries.Error != nil {
		return nil, fmt.Errorf("yfinance timeseries error: %s", resp.Timeseries.Error.Description)
	}

	out := make(map[string][]yfFundamentalObs, len(types))
	for _, raw := range resp.Timeseries.Result {
		var meta yfTimeseriesMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		typeName := meta.Meta.Type[0]

		var entry map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		obsRaw, ok := entry[typeName]
		if !ok {
			continue
		}
		// Years without a report come through as nulls; they decode to
		// zero observations and are dropped during assembly.
		var obs []yfFundamentalObs
		if err := json.Unmarshal(obsRaw, &obs); err != nil {
			continue
		}
		out[typeName] = append(out[typeName], obs...)
	}
	return out, nil
}

// buildStatement assembles a row-labeled statement table from grouped
// observations. Rows follow the mapping order; periods are fiscal years,
// newest first.
func buildStatement(rows []timeseriesRow, observations map[string][]yfFundamentalObs) *models.Statement {
	seen := make(map[string]bool)
	var periods []string
	for _, r := range rows {
		for _, obs := range observations[r.Type] {
			if y := fiscalYear(obs); y != "" && !seen[y] {
				seen[y] = true
				periods = append(periods, y)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	st := models.NewStatement()
	for _, r := range rows {
		byYear := make(map[string]float64)
		for _, obs := range observations[r.Type] {
			if y := fiscalYear(obs); y != "" {
				byYear[y] = obs.ReportedValue.Raw
			}
		}
		for _, p := range periods {
			if v, ok := byYear[p]; ok {
				st.Set(r.Row, p, v)
			}
		}
	}
	return st
}

// fiscalYear labels an annual observation by the year of its report date.
func fiscalYear(obs yfFundamentalObs) string {
	if obs.PeriodType != "" && obs.PeriodType != "12M" {
		return ""
	}
	if len(obs.AsOfDate) < 4 {
		return ""
	}
	return obs.AsOfDate[:4]
}
