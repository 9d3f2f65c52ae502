package models

import "time"

// PricePoint is a single adjusted-close observation.
type PricePoint struct {
	Date     time.Time `json:"date"`
	AdjClose float64   `json:"adj_close"`
}

// AssetSnapshot is the market-side view of one ticker used by the ratio
// engine: recent adjusted closes plus share statistics and profile
// metadata. Prices ascend by date.
type AssetSnapshot struct {
	Ticker            string       `json:"ticker"`
	Prices            []PricePoint `json:"prices,omitempty"`
	SharesOutstanding float64      `json:"shares_outstanding,omitempty"` // 0 when unknown
	Industry          string       `json:"industry,omitempty"`
	Sector            string       `json:"sector,omitempty"`
}

// LatestPrice returns the most recent adjusted close, missing when the
// price history is empty.
func (a *AssetSnapshot) LatestPrice() NullFloat {
	if a == nil || len(a.Prices) == 0 {
		return Null()
	}
	return Float(a.Prices[len(a.Prices)-1].AdjClose)
}

// ShareStats holds share-count statistics for one ticker.
type ShareStats struct {
	Ticker            string  `json:"ticker"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	FloatShares       float64 `json:"float_shares,omitempty"`
}

// EquityProfile is descriptive company metadata from a provider.
type EquityProfile struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name,omitempty"`
	Industry string `json:"industry,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Currency string `json:"currency,omitempty"`
}
