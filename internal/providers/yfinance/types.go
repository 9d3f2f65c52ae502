package yfinance

import "encoding/json"

// --- Yahoo Finance API response types ---

// yfChartResponse wraps the v8 chart API response.
type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	InstrumentType     string  `json:"instrumentType"`
	ExchangeName       string  `json:"exchangeName"`
}

type yfIndicators struct {
	Quote    []yfOHLCV    `json:"quote"`
	AdjClose []yfAdjClose `json:"adjclose"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

// yfQuoteSummaryResponse wraps the v10 quoteSummary API response.
type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	// Profile module
	AssetProfile *yfAssetProfile `json:"assetProfile"`

	// Key stats module
	DefaultKeyStatistics *yfDefaultKeyStatistics `json:"defaultKeyStatistics"`

	// Price module
	Price *yfPrice `json:"price"`
}

type yfFinVal struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type yfAssetProfile struct {
	Industry            string `json:"industry"`
	Sector              string `json:"sector"`
	FullTimeEmployees   int64  `json:"fullTimeEmployees"`
	LongBusinessSummary string `json:"longBusinessSummary"`
	City                string `json:"city"`
	State               string `json:"state"`
	Country             string `json:"country"`
	Website             string `json:"website"`
}

type yfDefaultKeyStatistics struct {
	EnterpriseValue   yfFinVal `json:"enterpriseValue"`
	FloatShares       yfFinVal `json:"floatShares"`
	SharesOutstanding yfFinVal `json:"sharesOutstanding"`
	Beta              yfFinVal `json:"beta"`
	BookValue         yfFinVal `json:"bookValue"`
	PriceToBook       yfFinVal `json:"priceToBook"`
	TrailingEps       yfFinVal `json:"trailingEps"`
	ForwardEps        yfFinVal `json:"forwardEps"`
}

type yfPrice struct {
	Symbol             string   `json:"symbol"`
	ShortName          string   `json:"shortName"`
	LongName           string   `json:"longName"`
	Currency           string   `json:"currency"`
	RegularMarketPrice yfFinVal `json:"regularMarketPrice"`
}

// yfTimeseriesResponse wraps the fundamentals-timeseries API response.
// Each result entry carries its observations under a key equal to the
// requested type name (e.g. "annualNetIncome"), so entries decode in two
// steps via RawMessage.
type yfTimeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *yfError          `json:"error"`
	} `json:"timeseries"`
}

// yfTimeseriesMeta identifies which type a result entry holds.
type yfTimeseriesMeta struct {
	Meta struct {
		Symbol []string `json:"symbol"`
		Type   []string `json:"type"`
	} `json:"meta"`
}

// yfFundamentalObs is a single reported line-item observation.
type yfFundamentalObs struct {
	AsOfDate      string   `json:"asOfDate"`   // e.g. "2023-12-31"
	PeriodType    string   `json:"periodType"` // "12M" for annual
	CurrencyCode  string   `json:"currencyCode"`
	ReportedValue yfFinVal `json:"reportedValue"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
