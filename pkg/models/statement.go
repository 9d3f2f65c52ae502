package models

// Row labels shared by the statement providers. Every provider normalizes
// its native line-item names to these so the ratio engine can address cells
// uniformly.
const (
	RowNetIncome          = "Net Income"
	RowTotalRevenue       = "Total Revenue"
	RowCostOfRevenue      = "Cost Of Revenue"
	RowDilutedEPS         = "Diluted EPS"
	RowEBIT               = "EBIT"
	RowInterestExpense    = "Interest Expense"
	RowTotalAssets        = "Total Assets"
	RowStockholdersEquity = "Stockholders Equity"
	RowCurrentAssets      = "Current Assets"
	RowCurrentLiabilities = "Current Liabilities"
	RowInventory          = "Inventory"
	RowCashAndEquivalents = "Cash And Cash Equivalents"
	RowAccountsReceivable = "Accounts Receivable"
	RowTotalLiabilities   = "Total Liabilities Net Minority Interest"
	RowCashDividendsPaid  = "Cash Dividends Paid"
)

// Statement is one financial statement as a row-labeled table: line items
// as rows, fiscal periods as columns. Cells may be absent; lookups report
// presence instead of failing.
type Statement struct {
	rows    []string
	periods []string
	cells   map[string]map[string]float64
}

// NewStatement returns an empty statement.
func NewStatement() *Statement {
	return &Statement{cells: make(map[string]map[string]float64)}
}

// Set records a cell, adding the row and period on first sight. Rows and
// periods keep their first-seen order.
func (s *Statement) Set(row, period string, v float64) {
	if _, ok := s.cells[row]; !ok {
		s.rows = append(s.rows, row)
		s.cells[row] = make(map[string]float64)
	}
	if !s.HasPeriod(period) {
		s.periods = append(s.periods, period)
	}
	s.cells[row][period] = v
}

// Value returns the cell at (row, period). Safe on a nil statement.
func (s *Statement) Value(row, period string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	byPeriod, ok := s.cells[row]
	if !ok {
		return 0, false
	}
	v, ok := byPeriod[period]
	return v, ok
}

// Rows returns the row labels in first-seen order.
func (s *Statement) Rows() []string {
	out := make([]string, len(s.rows))
	copy(out, s.rows)
	return out
}

// Periods returns the period labels in first-seen order.
func (s *Statement) Periods() []string {
	out := make([]string, len(s.periods))
	copy(out, s.periods)
	return out
}

// HasPeriod reports whether the period column exists.
func (s *Statement) HasPeriod(p string) bool {
	for _, q := range s.periods {
		if q == p {
			return true
		}
	}
	return false
}

// Empty reports whether the table has no rows or no periods.
func (s *Statement) Empty() bool {
	return s == nil || len(s.rows) == 0 || len(s.periods) == 0
}

// RenamePeriod relabels a period column. A no-op when the label is absent.
func (s *Statement) RenamePeriod(old, new string) {
	for i, p := range s.periods {
		if p != old {
			continue
		}
		s.periods[i] = new
		for _, byPeriod := range s.cells {
			if v, ok := byPeriod[old]; ok {
				delete(byPeriod, old)
				byPeriod[new] = v
			}
		}
		return
	}
}

// StatementSet bundles the three core statements for one ticker.
type StatementSet struct {
	Ticker   string
	Income   *Statement
	Balance  *Statement
	CashFlow *Statement
}

// Complete reports whether all three statements are present and non-empty.
func (s *StatementSet) Complete() bool {
	return s != nil && !s.Income.Empty() && !s.Balance.Empty() && !s.CashFlow.Empty()
}
