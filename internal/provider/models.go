package provider

// ModelType represents a standard data model type, matching OpenBB's standard_models.
// Each ModelType maps to a specific data structure in pkg/models/.
type ModelType string

// --- Equity / Price ---
const (
	ModelEquityHistorical ModelType = "EquityHistorical"
	ModelEquityInfo       ModelType = "EquityInfo"
)

// --- Equity / Fundamentals ---
const (
	ModelIncomeStatement   ModelType = "IncomeStatement"
	ModelBalanceSheet      ModelType = "BalanceSheet"
	ModelCashFlowStatement ModelType = "CashFlowStatement"
	ModelShareStatistics   ModelType = "ShareStatistics"
)

// AllModels returns all defined model types. Useful for iteration and validation.
func AllModels() []ModelType {
	return []ModelType{
		// Equity / Price
		ModelEquityHistorical, ModelEquityInfo,
		// Equity / Fundamentals
		ModelIncomeStatement, ModelBalanceSheet,
		ModelCashFlowStatement, ModelShareStatistics,
	}
}

// ModelCategory returns a coarse grouping for a model type, used by status
// and coverage listings.
func ModelCategory(m ModelType) string {
	switch m {
	case ModelEquityHistorical, ModelEquityInfo:
		return "Equity / Price"
	case ModelIncomeStatement, ModelBalanceSheet, ModelCashFlowStatement, ModelShareStatistics:
		return "Equity / Fundamentals"
	default:
		return "Other"
	}
}
