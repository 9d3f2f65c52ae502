package utils

import (
	"strings"
)

// assetNamespace is the namespace suffix the portfolio layer uses for US
// exchange listings, e.g. "GOOGL.US".
const assetNamespace = ".US"

// NormalizeTicker normalizes a user-input ticker: uppercasing, whitespace,
// a leading $ (common in chat and screeners), and any exchange namespace
// suffix are all stripped.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	ticker = strings.TrimPrefix(ticker, "$")
	ticker = strings.TrimSuffix(ticker, assetNamespace)
	return ticker
}

// ToAssetSymbol converts a plain ticker to the namespaced form the
// portfolio layer tracks assets under, e.g. "GOOGL" -> "GOOGL.US".
func ToAssetSymbol(ticker string) string {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return ""
	}
	return ticker + assetNamespace
}

// FromAssetSymbol strips the exchange namespace from an asset symbol.
func FromAssetSymbol(symbol string) string {
	return strings.TrimSuffix(strings.TrimSpace(symbol), assetNamespace)
}
