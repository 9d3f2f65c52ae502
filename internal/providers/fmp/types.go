package fmp

// --- FMP API response types ---

// fmpHistoricalPrice represents historical OHLCV data from FMP.
// Entries arrive newest first.
type fmpHistoricalPrice struct {
	Historical []fmpHistoricalEntry `json:"historical"`
	Symbol     string               `json:"symbol"`
}

type fmpHistoricalEntry struct {
	Date             string  `json:"date"`
	Open             float64 `json:"open"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	Close            float64 `json:"close"`
	AdjClose         float64 `json:"adjClose"`
	Volume           int64   `json:"volume"`
	UnadjustedVolume int64   `json:"unadjustedVolume"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	VWAP             float64 `json:"vwap"`
}

// fmpProfile represents company profile from FMP.
type fmpProfile struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Beta              float64 `json:"beta"`
	MktCap            float64 `json:"mktCap"`
	CompanyName       string  `json:"companyName"`
	Currency          string  `json:"currency"`
	Exchange          string  `json:"exchange"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Industry          string  `json:"industry"`
	Sector            string  `json:"sector"`
	Country           string  `json:"country"`
	Website           string  `json:"website"`
	Description       string  `json:"description"`
	IsETF             bool    `json:"isEtf"`
	IsActivelyTrading bool    `json:"isActivelyTrading"`
}

// fmpIncomeStatement represents an annual income statement from FMP.
type fmpIncomeStatement struct {
	Date             string  `json:"date"`
	Symbol           string  `json:"symbol"`
	CalendarYear     string  `json:"calendarYear"`
	Period           string  `json:"period"` // "FY" for annual
	Revenue          float64 `json:"revenue"`
	CostOfRevenue    float64 `json:"costOfRevenue"`
	GrossProfit      float64 `json:"grossProfit"`
	OperatingIncome  float64 `json:"operatingIncome"`
	InterestExpense  float64 `json:"interestExpense"`
	IncomeBeforeTax  float64 `json:"incomeBeforeTax"`
	IncomeTaxExpense float64 `json:"incomeTaxExpense"`
	NetIncome        float64 `json:"netIncome"`
	EPS              float64 `json:"eps"`
	EPSDiluted       float64 `json:"epsdiluted"`
}

// fmpBalanceSheet represents an annual balance sheet from FMP.
type fmpBalanceSheet struct {
	Date                    string  `json:"date"`
	Symbol                  string  `json:"symbol"`
	CalendarYear            string  `json:"calendarYear"`
	Period                  string  `json:"period"`
	CashAndCashEquivalents  float64 `json:"cashAndCashEquivalents"`
	NetReceivables          float64 `json:"netReceivables"`
	Inventory               float64 `json:"inventory"`
	TotalCurrentAssets      float64 `json:"totalCurrentAssets"`
	TotalAssets             float64 `json:"totalAssets"`
	TotalCurrentLiabilities float64 `json:"totalCurrentLiabilities"`
	TotalLiabilities        float64 `json:"totalLiabilities"`
	TotalStockholdersEquity float64 `json:"totalStockholdersEquity"`
}

// fmpCashFlow represents an annual cash flow statement from FMP.
type fmpCashFlow struct {
	Date          string  `json:"date"`
	Symbol        string  `json:"symbol"`
	CalendarYear  string  `json:"calendarYear"`
	Period        string  `json:"period"`
	DividendsPaid float64 `json:"dividendsPaid"` // negative: cash outflow
}

// fmpShareFloat represents share statistics.
type fmpShareFloat struct {
	Symbol            string  `json:"symbol"`
	FreeFloat         float64 `json:"freeFloat"`
	FloatShares       float64 `json:"floatShares"`
	OutstandingShares float64 `json:"outstandingShares"`
	Date              string  `json:"date"`
}
