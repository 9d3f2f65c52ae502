package models

// Composite factor score columns, in canonical order.
const (
	FactorProfitability = "profitability"
	FactorLiquidity     = "liquidity"
	FactorEfficiency    = "efficiency"
	FactorMarketValue   = "market_value"
	FactorLeverage      = "leverage"
)

// FactorNames lists the factor score columns in canonical order.
var FactorNames = []string{
	FactorProfitability,
	FactorLiquidity,
	FactorEfficiency,
	FactorMarketValue,
	FactorLeverage,
}

// Company is one row of the research universe: identity, the computed
// ratio columns, factor scores, risk and cluster assignment.
type Company struct {
	Ticker   string
	Industry string
	Ratios   map[string]NullFloat
	Factors  map[string]NullFloat
	Risk     NullFloat
	Cluster  int // -1 until assigned
}

// NewCompany returns a company with empty ratio and factor columns.
func NewCompany(ticker string) *Company {
	return &Company{
		Ticker:  ticker,
		Ratios:  make(map[string]NullFloat, len(RatioNames)),
		Factors: make(map[string]NullFloat, len(FactorNames)),
		Cluster: -1,
	}
}
