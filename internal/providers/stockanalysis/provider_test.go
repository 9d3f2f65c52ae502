package stockanalysis

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/models"
)

func TestProviderInfo(t *testing.T) {
	p := New()
	info := p.Info()
	if info.Name != "stockanalysis" {
		t.Errorf("expected name stockanalysis, got %s", info.Name)
	}
	if len(info.Credentials) != 0 {
		t.Errorf("stockanalysis should have no credentials, got %d", len(info.Credentials))
	}
}

func TestProviderSupportedModels(t *testing.T) {
	p := New()
	supported := p.SupportedModels()

	expected := []provider.ModelType{
		provider.ModelIncomeStatement,
		provider.ModelBalanceSheet,
		provider.ModelCashFlowStatement,
	}

	if len(supported) != len(expected) {
		t.Errorf("expected %d supported models, got %d", len(expected), len(supported))
	}

	modelSet := make(map[provider.ModelType]bool)
	for _, m := range supported {
		modelSet[m] = true
	}
	for _, m := range expected {
		if !modelSet[m] {
			t.Errorf("missing expected model: %s", m)
		}
	}
}

func TestFetcherRequiredParams(t *testing.T) {
	p := New()
	for _, m := range p.SupportedModels() {
		f := p.Fetcher(m)
		if f == nil {
			t.Errorf("no fetcher for %s", m)
			continue
		}
		required := f.RequiredParams()
		if len(required) != 1 || required[0] != "symbol" {
			t.Errorf("%s: unexpected required params %v", m, required)
		}
	}
}

func TestHelperToSATicker(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AAPL", "aapl"},
		{"BRK.B", "brk.b"},
		{"GOOGL.US", "googl"},
	}
	for _, tt := range tests {
		if got := toSATicker(tt.in); got != tt.want {
			t.Errorf("toSATicker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

const incomePageHTML = `
<html><body>
<table>
  <thead>
    <tr><th>Fiscal Year</th><th>TTM</th><th>FY 2023</th><th>FY 2022</th></tr>
  </thead>
  <tbody>
    <tr><td>Revenue</td><td>390,100</td><td>383,285</td><td>394,328</td></tr>
    <tr><td>Revenue Growth (YoY)</td><td>1.8%</td><td>-2.8%</td><td>7.8%</td></tr>
    <tr><td>Cost of Revenue</td><td>212,000</td><td>214,137</td><td>223,546</td></tr>
    <tr><td>Operating Income</td><td>118,000</td><td>114,301</td><td>119,437</td></tr>
    <tr><td>Interest Expense / Income</td><td>-</td><td>183</td><td>106</td></tr>
    <tr><td>Net Income</td><td>98,000</td><td>96,995</td><td>99,803</td></tr>
    <tr><td>Net Income Growth</td><td>1.0%</td><td>-2.8%</td><td>5.4%</td></tr>
    <tr><td>EPS (Basic)</td><td>6.30</td><td>6.16</td><td>6.15</td></tr>
    <tr><td>EPS (Diluted)</td><td>6.27</td><td>6.13</td><td>6.11</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseIncomeTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(incomePageHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	st := parseStatementTable(doc, incomeRules)

	// TTM column has no fiscal year, so only 2023 and 2022 survive.
	periods := st.Periods()
	if len(periods) != 2 || periods[0] != "2023" || periods[1] != "2022" {
		t.Fatalf("expected periods [2023 2022], got %v", periods)
	}

	if v, ok := st.Value(models.RowTotalRevenue, "2023"); !ok || v != 383285*1e6 {
		t.Errorf("Revenue 2023 = %v (ok=%v), want 383285e6", v, ok)
	}
	if v, ok := st.Value(models.RowCostOfRevenue, "2022"); !ok || v != 223546*1e6 {
		t.Errorf("CostOfRevenue 2022 = %v (ok=%v), want 223546e6", v, ok)
	}
	if v, ok := st.Value(models.RowNetIncome, "2023"); !ok || v != 96995*1e6 {
		t.Errorf("NetIncome 2023 = %v (ok=%v), want 96995e6", v, ok)
	}

	// Per-share rows are not scaled to millions.
	if v, ok := st.Value(models.RowDilutedEPS, "2023"); !ok || v != 6.13 {
		t.Errorf("DilutedEPS 2023 = %v (ok=%v), want 6.13", v, ok)
	}

	// Growth rows map to no canonical row.
	for _, row := range st.Rows() {
		if strings.Contains(row, "Growth") {
			t.Errorf("growth row leaked into statement: %s", row)
		}
	}
}

const balancePageHTML = `
<html><body>
<table>
  <thead>
    <tr><th>Fiscal Year</th><th>FY 2023</th><th>FY 2022</th></tr>
  </thead>
  <tbody>
    <tr><td>Cash &amp; Equivalents</td><td>29,965</td><td>23,646</td></tr>
    <tr><td>Cash &amp; Short-Term Investments</td><td>61,555</td><td>48,304</td></tr>
    <tr><td>Receivables</td><td>60,985</td><td>60,932</td></tr>
    <tr><td>Inventory</td><td>6,331</td><td>4,946</td></tr>
    <tr><td>Total Current Assets</td><td>143,566</td><td>135,405</td></tr>
    <tr><td>Total Assets</td><td>352,583</td><td>352,755</td></tr>
    <tr><td>Total Current Liabilities</td><td>145,308</td><td>153,982</td></tr>
    <tr><td>Total Liabilities</td><td>290,437</td><td>302,083</td></tr>
    <tr><td>Shareholders' Equity</td><td>62,146</td><td>50,672</td></tr>
    <tr><td>Total Liabilities and Equity</td><td>352,583</td><td>352,755</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseBalanceTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(balancePageHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	st := parseStatementTable(doc, balanceRules)

	if v, ok := st.Value(models.RowTotalAssets, "2023"); !ok || v != 352583*1e6 {
		t.Errorf("TotalAssets 2023 = %v (ok=%v)", v, ok)
	}
	if v, ok := st.Value(models.RowTotalLiabilities, "2023"); !ok || v != 290437*1e6 {
		t.Errorf("TotalLiabilities 2023 = %v (ok=%v)", v, ok)
	}
	if v, ok := st.Value(models.RowStockholdersEquity, "2022"); !ok || v != 50672*1e6 {
		t.Errorf("StockholdersEquity 2022 = %v (ok=%v)", v, ok)
	}
	if v, ok := st.Value(models.RowCashAndEquivalents, "2023"); !ok || v != 29965*1e6 {
		t.Errorf("CashAndEquivalents 2023 = %v (ok=%v)", v, ok)
	}

	// The liabilities+equity total must not overwrite Total Liabilities,
	// and the cash+investments aggregate must not overwrite cash.
	if v, _ := st.Value(models.RowTotalLiabilities, "2022"); v != 302083*1e6 {
		t.Errorf("TotalLiabilities 2022 = %v, want 302083e6", v)
	}
	if v, _ := st.Value(models.RowCashAndEquivalents, "2022"); v != 23646*1e6 {
		t.Errorf("CashAndEquivalents 2022 = %v, want 23646e6", v)
	}
}

const cashflowPageHTML = `
<html><body>
<table>
  <thead>
    <tr><th>Fiscal Year</th><th>FY 2023</th><th>FY 2022</th></tr>
  </thead>
  <tbody>
    <tr><td>Net Income</td><td>96,995</td><td>99,803</td></tr>
    <tr><td>Dividends Paid</td><td>(15,025)</td><td>(14,841)</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseCashFlowTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cashflowPageHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	st := parseStatementTable(doc, cashflowRules)

	// Parenthesized outflow stays negative.
	if v, ok := st.Value(models.RowCashDividendsPaid, "2023"); !ok || v != -15025*1e6 {
		t.Errorf("CashDividendsPaid 2023 = %v (ok=%v), want -15025e6", v, ok)
	}

	rows := st.Rows()
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %v", rows)
	}
}

func TestParseFiscalPeriod(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"FY 2023", "2023"},
		{"2022", "2022"},
		{" FY 2021 ", "2021"},
		{"TTM", ""},
		{"Current", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseFiscalPeriod(tt.in); got != tt.want {
			t.Errorf("parseFiscalPeriod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStatementNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"383,285", 383285, true},
		{"(15,025)", -15025, true},
		{"6.13", 6.13, true},
		{"-2.8%", -2.8, true},
		{"$1,000", 1000, true},
		{"-", 0, false},
		{"n/a", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseStatementNumber(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseStatementNumber(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
