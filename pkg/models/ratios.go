package models

// Ratio names, in canonical computation and display order.
const (
	RatioNetProfitMargin     = "net_profit_margin"
	RatioGrossProfitMargin   = "gross_profit_margin"
	RatioROA                 = "roa"
	RatioROE                 = "roe"
	RatioCurrentRatio        = "current_ratio"
	RatioQuickRatio          = "quick_ratio"
	RatioCashRatio           = "cash_ratio"
	RatioInventoryTurnover   = "inventory_turnover"
	RatioReceivablesTurnover = "accounts_receivable_turnover"
	RatioAssetTurnover       = "asset_turnover"
	RatioPE                  = "pe_ratio"
	RatioPB                  = "pb_ratio"
	RatioDividendYield       = "dividend_yield"
	RatioDebtToEquity        = "debt_to_equity"
	RatioDebtRatio           = "debt_ratio"
	RatioInterestCoverage    = "interest_coverage_ratio"
)

// RatioNames lists every ratio in canonical order. Display surfaces and the
// universe CSV iterate this, never the map.
var RatioNames = []string{
	RatioNetProfitMargin,
	RatioGrossProfitMargin,
	RatioROA,
	RatioROE,
	RatioCurrentRatio,
	RatioQuickRatio,
	RatioCashRatio,
	RatioInventoryTurnover,
	RatioReceivablesTurnover,
	RatioAssetTurnover,
	RatioPE,
	RatioPB,
	RatioDividendYield,
	RatioDebtToEquity,
	RatioDebtRatio,
	RatioInterestCoverage,
}

// RatioSet holds one ticker's computed ratios keyed by ratio name.
type RatioSet struct {
	Ticker  string               `json:"ticker"`
	Elapsed float64              `json:"elapsed,omitempty"` // wall-clock seconds
	Values  map[string]NullFloat `json:"values"`
}

// NewRatioSet returns an empty ratio set for ticker.
func NewRatioSet(ticker string) *RatioSet {
	return &RatioSet{
		Ticker: ticker,
		Values: make(map[string]NullFloat, len(RatioNames)),
	}
}

// Set records a named ratio.
func (r *RatioSet) Set(name string, v NullFloat) { r.Values[name] = v }

// Get returns the named ratio, or the missing marker when never computed.
func (r *RatioSet) Get(name string) NullFloat { return r.Values[name] }
