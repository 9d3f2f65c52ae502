// Package portfolio builds equal-weight, monthly-rebalanced portfolios
// over historical month-end closes: realized wealth index, annualized
// risk, and forward Monte Carlo wealth paths.
package portfolio

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// RebalanceMonthly is the only rebalancing cadence the engine
// implements: weights reset to target at every month boundary.
const RebalanceMonthly = "month"

// initialWealth anchors every realized wealth index.
const initialWealth = 1000

// PriceSource supplies month-end adjusted closes. Implemented by the
// market data service.
type PriceSource interface {
	MonthlyCloses(ctx context.Context, ticker string, first, last models.Month) (*models.MonthlySeries, error)
}

// Config describes the construction window and cadence.
type Config struct {
	Currency    string
	Rebalancing string // "" means monthly
	FirstMonth  models.Month
	LastMonth   models.Month
}

// Portfolio is an equal-weight basket over the effective window: the
// requested window clipped to every asset's available range.
type Portfolio struct {
	Tickers []string
	Weights []float64
	First   models.Month
	Last    models.Month

	returns *models.MonthlySeries
	wealth  *models.MonthlySeries
}

// Build fetches each asset's monthly closes and composes the portfolio
// return and wealth series. The window is clipped to the intersection of
// all assets' coverage; fewer than two common months is an error, as is
// a missing close inside the effective window.
func Build(ctx context.Context, prices PriceSource, tickers []string, cfg Config) (*Portfolio, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("portfolio: no tickers")
	}
	if cfg.Rebalancing != "" && cfg.Rebalancing != RebalanceMonthly {
		return nil, fmt.Errorf("portfolio: unsupported rebalancing cadence %q", cfg.Rebalancing)
	}

	series := make([]*models.MonthlySeries, len(tickers))
	for i, ticker := range tickers {
		s, err := prices.MonthlyCloses(ctx, ticker, cfg.FirstMonth, cfg.LastMonth)
		if err != nil {
			return nil, fmt.Errorf("portfolio: %w", err)
		}
		series[i] = s
	}

	first, last := cfg.FirstMonth, cfg.LastMonth
	for _, s := range series {
		if f, _ := s.First(); f.After(first) {
			first = f
		}
		if l, _ := s.Last(); l.Before(last) {
			last = l
		}
	}
	if !first.Before(last) {
		return nil, fmt.Errorf("portfolio: window %s..%s leaves no overlap across %d assets",
			cfg.FirstMonth, cfg.LastMonth, len(tickers))
	}

	weight := 1 / float64(len(tickers))
	weights := make([]float64, len(tickers))
	for i := range weights {
		weights[i] = weight
	}

	span := last.Sub(first)
	returns := models.NewMonthlySeries(span)
	for k := 1; k <= span; k++ {
		month, prev := first.AddMonths(k), first.AddMonths(k-1)
		var r float64
		for i, s := range series {
			p1, ok1 := s.Value(month)
			p0, ok0 := s.Value(prev)
			if !ok0 || !ok1 {
				return nil, fmt.Errorf("portfolio: %s has no close inside %s..%s", tickers[i], first, last)
			}
			if p0 <= 0 {
				return nil, fmt.Errorf("portfolio: %s has a non-positive close at %s", tickers[i], prev)
			}
			r += weight * (p1/p0 - 1)
		}
		if err := returns.Append(month, r); err != nil {
			return nil, err
		}
	}

	wealth := models.NewMonthlySeries(span + 1)
	_ = wealth.Append(first, initialWealth)
	w := float64(initialWealth)
	for k := 0; k < returns.Len(); k++ {
		month, r := returns.At(k)
		w *= 1 + r
		_ = wealth.Append(month, w)
	}

	return &Portfolio{
		Tickers: tickers,
		Weights: weights,
		First:   first,
		Last:    last,
		returns: returns,
		wealth:  wealth,
	}, nil
}

// WealthIndex returns the realized wealth index, anchored at 1000 on the
// first effective month. Callers must treat it as read-only.
func (p *Portfolio) WealthIndex() *models.MonthlySeries { return p.wealth }

// Returns returns the monthly portfolio return series.
func (p *Portfolio) Returns() *models.MonthlySeries { return p.returns }

// Risk is the annualized volatility of monthly returns.
func (p *Portfolio) Risk() float64 {
	return stat.StdDev(p.returns.Values(), nil) * math.Sqrt(12)
}
