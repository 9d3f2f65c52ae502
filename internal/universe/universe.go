// Package universe holds the research universe: the per-ticker table of
// computed ratios, factor scores, risk, and cluster labels, plus the
// named ticker-selection policies the simulation driver draws portfolios
// with.
package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// Fixed (non-ratio, non-factor) universe CSV columns.
const (
	colTicker   = "ticker"
	colIndustry = "Industry"
	colRisk     = "risk"
	colCluster  = "cluster"
)

// Universe is the ordered set of companies under analysis.
type Universe struct {
	Companies []*models.Company
}

// Tickers returns the ticker column in universe order.
func (u *Universe) Tickers() []string {
	out := make([]string, len(u.Companies))
	for i, c := range u.Companies {
		out[i] = c.Ticker
	}
	return out
}

// Find returns the company with the given ticker, if present.
func (u *Universe) Find(ticker string) (*models.Company, bool) {
	for _, c := range u.Companies {
		if c.Ticker == ticker {
			return c, true
		}
	}
	return nil, false
}

// header is the canonical CSV column order: identity, ratios, factors,
// risk, cluster.
func header() []string {
	cols := []string{colTicker, colIndustry}
	cols = append(cols, models.RatioNames...)
	cols = append(cols, models.FactorNames...)
	return append(cols, colRisk, colCluster)
}

// Load reads a universe CSV. Columns are matched by header name, so files
// carrying only a subset (e.g. ticker and Industry before the ratio batch
// has run) load fine; absent cells stay null.
func Load(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("universe: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("universe: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("universe: %s has no header row", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	if _, ok := col[colTicker]; !ok {
		return nil, fmt.Errorf("universe: %s has no %q column", path, colTicker)
	}

	cell := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	u := &Universe{Companies: make([]*models.Company, 0, len(records)-1)}
	for _, row := range records[1:] {
		ticker := cell(row, colTicker)
		if ticker == "" {
			continue
		}
		c := models.NewCompany(ticker)
		c.Industry = cell(row, colIndustry)
		for _, name := range models.RatioNames {
			c.Ratios[name] = parseNull(cell(row, name))
		}
		for _, name := range models.FactorNames {
			c.Factors[name] = parseNull(cell(row, name))
		}
		c.Risk = parseNull(cell(row, colRisk))
		if s := cell(row, colCluster); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("universe: %s: bad cluster %q for %s", path, s, ticker)
			}
			c.Cluster = n
		}
		u.Companies = append(u.Companies, c)
	}
	return u, nil
}

// Save writes the universe CSV with the full canonical header. Null cells
// are written empty, unassigned clusters too.
func (u *Universe) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("universe: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header()); err != nil {
		return fmt.Errorf("universe: write %s: %w", path, err)
	}
	for _, c := range u.Companies {
		row := []string{c.Ticker, c.Industry}
		for _, name := range models.RatioNames {
			row = append(row, formatNull(c.Ratios[name]))
		}
		for _, name := range models.FactorNames {
			row = append(row, formatNull(c.Factors[name]))
		}
		row = append(row, formatNull(c.Risk))
		if c.Cluster >= 0 {
			row = append(row, strconv.Itoa(c.Cluster))
		} else {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("universe: write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("universe: write %s: %w", path, err)
	}
	return nil
}

// ApplyRatios merges a batch of computed ratio sets into the universe by
// ticker. Tickers without a universe row are ignored.
func (u *Universe) ApplyRatios(sets []*models.RatioSet) {
	for _, set := range sets {
		c, ok := u.Find(set.Ticker)
		if !ok {
			continue
		}
		for name, v := range set.Values {
			c.Ratios[name] = v
		}
	}
}

func parseNull(s string) models.NullFloat {
	if s == "" {
		return models.Null()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Null()
	}
	return models.Float(v)
}

func formatNull(n models.NullFloat) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}
