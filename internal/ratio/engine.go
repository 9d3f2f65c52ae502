package ratio

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/seenimoa/quantfolio/pkg/models"
	"github.com/seenimoa/quantfolio/pkg/utils"
)

// Source provides the statement tables and market snapshot the engine
// reads. Implemented by the market data service.
type Source interface {
	Statements(ctx context.Context, ticker string) (*models.StatementSet, error)
	Asset(ctx context.Context, ticker string) (*models.AssetSnapshot, error)
}

// Engine computes the ratio set for single tickers.
type Engine struct {
	source       Source
	baselineYear string
	log          zerolog.Logger
}

// NewEngine returns an engine reading from source. baselineYear is the
// fiscal-year column ratios are computed over; the turnover ratios also
// read the year before it.
func NewEngine(source Source, baselineYear string, log zerolog.Logger) *Engine {
	return &Engine{source: source, baselineYear: baselineYear, log: log}
}

// ComputeRatios fetches the ticker's statements and market snapshot and
// derives every named ratio. A failed or empty statement fetch aborts
// with an error; everything after that degrades per ratio. A panic
// mid-computation is logged and the ratios accumulated so far are
// returned.
func (e *Engine) ComputeRatios(ctx context.Context, ticker string) (ratios *models.RatioSet, err error) {
	symbol := utils.NormalizeTicker(ticker)
	log := e.log.With().Str("ticker", symbol).Logger()

	stmts, err := e.source.Statements(ctx, symbol)
	if err != nil {
		return nil, err
	}

	asset, assetErr := e.source.Asset(ctx, symbol)
	if assetErr != nil {
		log.Warn().Err(assetErr).Msg("market data unavailable")
		asset = &models.AssetSnapshot{Ticker: symbol}
	}

	ratios = models.NewRatioSet(symbol)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("ratio computation aborted, returning partial result")
		}
	}()

	year := e.baselineYear
	prior := priorYear(year)
	income, balance, cashflow := stmts.Income, stmts.Balance, stmts.CashFlow

	// Profitability.
	netIncome := ExtractValue(log, income, models.RowNetIncome, year)
	revenue := ExtractValue(log, income, models.RowTotalRevenue, year)
	cogs := ExtractValue(log, income, models.RowCostOfRevenue, year)
	ratios.Set(models.RatioNetProfitMargin, SafeDiv(netIncome, revenue))
	ratios.Set(models.RatioGrossProfitMargin, SafeDiv(sub(revenue, cogs), revenue))

	totalAssets := ExtractValue(log, balance, models.RowTotalAssets, year)
	equity := ExtractValue(log, balance, models.RowStockholdersEquity, year)
	ratios.Set(models.RatioROA, SafeDiv(netIncome, totalAssets))
	ratios.Set(models.RatioROE, SafeDiv(netIncome, equity))

	// Liquidity.
	currentAssets := ExtractValue(log, balance, models.RowCurrentAssets, year)
	currentLiabilities := ExtractValue(log, balance, models.RowCurrentLiabilities, year)
	inventory := ExtractValue(log, balance, models.RowInventory, year)
	cash := ExtractValue(log, balance, models.RowCashAndEquivalents, year)
	ratios.Set(models.RatioCurrentRatio, SafeDiv(currentAssets, currentLiabilities))
	ratios.Set(models.RatioQuickRatio, SafeDiv(sub(currentAssets, inventory), currentLiabilities))
	ratios.Set(models.RatioCashRatio, SafeDiv(cash, currentLiabilities))

	// Efficiency. Turnovers divide by the average balance across the
	// baseline and prior fiscal years.
	priorInventory := ExtractValue(log, balance, models.RowInventory, prior)
	ratios.Set(models.RatioInventoryTurnover, SafeDiv(cogs, avg(inventory, priorInventory)))
	receivables := ExtractValue(log, balance, models.RowAccountsReceivable, year)
	priorReceivables := ExtractValue(log, balance, models.RowAccountsReceivable, prior)
	ratios.Set(models.RatioReceivablesTurnover, SafeDiv(revenue, avg(receivables, priorReceivables)))
	ratios.Set(models.RatioAssetTurnover, SafeDiv(revenue, totalAssets))

	// Market value.
	marketPrice := asset.LatestPrice()
	if !marketPrice.Valid {
		log.Warn().Msg("market price unavailable")
	}
	dilutedEPS := ExtractValue(log, income, models.RowDilutedEPS, year)
	ratios.Set(models.RatioPE, SafeDiv(marketPrice, dilutedEPS))

	shares := models.Null()
	if asset.SharesOutstanding > 0 {
		shares = models.Float(asset.SharesOutstanding)
	} else {
		log.Warn().Msg("shares outstanding unavailable")
	}
	bookValuePerShare := SafeDiv(equity, shares)
	ratios.Set(models.RatioPB, SafeDiv(marketPrice, bookValuePerShare))

	// Dividends paid stay negative as reported, so the yield comes out
	// negative for dividend payers.
	dividendsPaid := ExtractValue(log, cashflow, models.RowCashDividendsPaid, year)
	dividendsPerShare := SafeDiv(dividendsPaid, shares)
	ratios.Set(models.RatioDividendYield, SafeDiv(dividendsPerShare, marketPrice))

	// Leverage.
	totalLiabilities := ExtractValue(log, balance, models.RowTotalLiabilities, year)
	ratios.Set(models.RatioDebtToEquity, SafeDiv(totalLiabilities, equity))
	ratios.Set(models.RatioDebtRatio, SafeDiv(totalLiabilities, totalAssets))

	ebit := ExtractValue(log, income, models.RowEBIT, year)
	interestExpense := ExtractValue(log, income, models.RowInterestExpense, year)
	ratios.Set(models.RatioInterestCoverage, SafeDiv(ebit, interestExpense))

	return ratios, nil
}

// priorYear returns the label of the fiscal year before the given one,
// or "" when the label is not a plain year. Lookups under "" miss, so a
// non-numeric baseline only costs the averaged turnover ratios.
func priorYear(label string) string {
	y, err := strconv.Atoi(label)
	if err != nil {
		return ""
	}
	return strconv.Itoa(y - 1)
}
