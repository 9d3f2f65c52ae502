package stockanalysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// saRow maps a site row label to a canonical statement row. A label
// matches when it contains every substring in match; rules are checked in
// order and the first match wins. An empty row discards the site row,
// which keeps broader rules below from claiming it.
type saRow struct {
	row   string
	match []string
	scale float64
}

// Statement pages report absolute values in millions; per-share rows are
// reported as-is.
const saMillions = 1e6

var incomeRules = []saRow{
	{models.RowCostOfRevenue, []string{"Cost of Revenue"}, saMillions},
	{"", []string{"Revenue Growth"}, 0},
	{models.RowTotalRevenue, []string{"Revenue"}, saMillions},
	{"", []string{"Net Income Growth"}, 0},
	{models.RowNetIncome, []string{"Net Income"}, saMillions},
	{models.RowDilutedEPS, []string{"EPS (Diluted)"}, 1},
	{models.RowEBIT, []string{"Operating Income"}, saMillions},
	{models.RowInterestExpense, []string{"Interest Expense"}, saMillions},
}

var balanceRules = []saRow{
	{models.RowCurrentAssets, []string{"Total Current Assets"}, saMillions},
	{models.RowCurrentLiabilities, []string{"Total Current Liabilities"}, saMillions},
	{"", []string{"Total Liabilities and Equity"}, 0},
	{models.RowTotalLiabilities, []string{"Total Liabilities"}, saMillions},
	{models.RowTotalAssets, []string{"Total Assets"}, saMillions},
	{"", []string{"Cash & Short-Term Investments"}, 0},
	{models.RowCashAndEquivalents, []string{"Cash & Cash Equivalents"}, saMillions},
	{models.RowCashAndEquivalents, []string{"Cash & Equivalents"}, saMillions},
	{models.RowAccountsReceivable, []string{"Receivables"}, saMillions},
	{models.RowInventory, []string{"Inventory"}, saMillions},
	{models.RowStockholdersEquity, []string{"Shareholders", "Equity"}, saMillions},
}

var cashflowRules = []saRow{
	{models.RowCashDividendsPaid, []string{"Dividends Paid"}, saMillions},
}

// --- IncomeStatement fetcher ---

type incomeStatementFetcher struct {
	provider.BaseFetcher
}

func newIncomeStatementFetcher() *incomeStatementFetcher {
	return &incomeStatementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelIncomeStatement,
			"Annual income statement scraped from stockanalysis.com",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 1, time.Second,
		),
	}
}

func (f *incomeStatementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return fetchStatementResult(ctx, &f.BaseFetcher, params, "", incomeRules)
}

// --- BalanceSheet fetcher ---

type balanceSheetFetcher struct {
	provider.BaseFetcher
}

func newBalanceSheetFetcher() *balanceSheetFetcher {
	return &balanceSheetFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelBalanceSheet,
			"Annual balance sheet scraped from stockanalysis.com",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 1, time.Second,
		),
	}
}

func (f *balanceSheetFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return fetchStatementResult(ctx, &f.BaseFetcher, params, "balance-sheet/", balanceRules)
}

// --- CashFlowStatement fetcher ---

type cashFlowStatementFetcher struct {
	provider.BaseFetcher
}

func newCashFlowStatementFetcher() *cashFlowStatementFetcher {
	return &cashFlowStatementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCashFlowStatement,
			"Annual cash flow statement scraped from stockanalysis.com",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 1, time.Second,
		),
	}
}

func (f *cashFlowStatementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return fetchStatementResult(ctx, &f.BaseFetcher, params, "cash-flow-statement/", cashflowRules)
}

// --- Helpers ---

// fetchStatementResult is the shared fetch path for the statement
// fetchers: cache, rate limit, page download, table parse.
func fetchStatementResult(ctx context.Context, base *provider.BaseFetcher, params provider.QueryParams, page string, rules []saRow) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	saTicker := toSATicker(symbol)

	cacheKey := provider.CacheKey(base.ModelType(), params)
	if cached, ok := base.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}

	if err := base.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/stocks/%s/financials/%s", saBaseURL, saTicker, page)
	doc, err := fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("stockanalysis %s %s: %w", base.ModelType(), saTicker, err)
	}

	st := parseStatementTable(doc, rules)
	base.CacheSetTTL(cacheKey, st, 1*time.Hour)
	return newResult(st), nil
}

// parseStatementTable converts the page's financials table into a
// row-labeled statement. Columns run newest first; non-year columns such
// as TTM are skipped.
func parseStatementTable(doc *goquery.Document, rules []saRow) *models.Statement {
	st := models.NewStatement()

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return st
	}

	var periods []string
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		if i > 0 { // skip row label column
			periods = append(periods, parseFiscalPeriod(th.Text()))
		}
	})

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("td:first-child").Text())
		rule, ok := matchRow(rules, label)
		if !ok || rule.row == "" {
			return
		}
		row.Find("td").Each(func(i int, cell *goquery.Selection) {
			if i == 0 || i-1 >= len(periods) {
				return
			}
			period := periods[i-1]
			if period == "" {
				return
			}
			if v, ok := parseStatementNumber(cell.Text()); ok {
				st.Set(rule.row, period, v*rule.scale)
			}
		})
	})

	return st
}

// matchRow finds the first rule whose substrings all appear in the label.
func matchRow(rules []saRow, label string) (saRow, bool) {
	for _, r := range rules {
		matched := true
		for _, m := range r.match {
			if !strings.Contains(label, m) {
				matched = false
				break
			}
		}
		if matched {
			return r, true
		}
	}
	return saRow{}, false
}

// parseFiscalPeriod extracts a four-digit fiscal year from a column
// header such as "FY 2023". Non-year columns return "".
func parseFiscalPeriod(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if len(last) != 4 {
		return ""
	}
	if _, err := strconv.Atoi(last); err != nil {
		return ""
	}
	return last
}

// parseStatementNumber parses a table cell value. Parenthesized values
// are negative; dashes and other placeholders report no value.
func parseStatementNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		val = -val
	}
	return val, true
}
