package factor

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seenimoa/quantfolio/internal/portfolio"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// pipelinePrices serves a per-ticker monthly close series; tickers
// without one fail the fetch.
type pipelinePrices struct {
	series map[string]*models.MonthlySeries
}

func (p *pipelinePrices) MonthlyCloses(ctx context.Context, ticker string, first, last models.Month) (*models.MonthlySeries, error) {
	s, ok := p.series[ticker]
	if !ok {
		return nil, fmt.Errorf("no prices for %s", ticker)
	}
	return s, nil
}

// growthSeries builds n monthly closes growing at a constant rate.
func growthSeries(t *testing.T, first models.Month, n int, rate float64) *models.MonthlySeries {
	t.Helper()
	s := models.NewMonthlySeries(n)
	for i := 0; i < n; i++ {
		if err := s.Append(first.AddMonths(i), 100*math.Pow(1+rate, float64(i))); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestPipelineRun(t *testing.T) {
	u := factorTestUniverse(10)

	first, err := models.ParseMonth("2020-01")
	if err != nil {
		t.Fatal(err)
	}
	prices := &pipelinePrices{series: make(map[string]*models.MonthlySeries)}
	for i, c := range u.Companies {
		if c.Ticker == "T9" {
			continue // this one's fetch fails
		}
		prices.series[c.Ticker] = growthSeries(t, first, 25, 0.005*float64(i+1))
	}

	p := &Pipeline{
		Prices:   prices,
		Window:   portfolio.Config{FirstMonth: first, LastMonth: first.AddMonths(24)},
		Method:   MethodKMeans,
		Clusters: 3,
		Seed:     42,
		Log:      zerolog.Nop(),
	}
	if err := p.Run(context.Background(), u); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i, c := range u.Companies {
		if c.Cluster < 0 || c.Cluster >= 3 {
			t.Errorf("company %d cluster = %d, want [0,3)", i, c.Cluster)
		}
		for _, name := range models.FactorNames {
			if !c.Factors[name].Valid {
				t.Errorf("company %d factor %s left null", i, name)
			}
		}
	}

	// Constant-growth closes have zero return volatility.
	if r := u.Companies[0].Risk; !r.Valid || !closeEnough(r.Float64, 0) {
		t.Errorf("T0 risk = %v, want a valid ~0", r)
	}
	if u.Companies[9].Risk.Valid {
		t.Error("T9 risk should stay null after a failed fetch")
	}
}

func TestPipelineRejectsEmptyUniverse(t *testing.T) {
	p := &Pipeline{Method: MethodKMeans, Clusters: 2, Log: zerolog.Nop()}
	if err := p.Run(context.Background(), factorTestUniverse(0)); err == nil {
		t.Error("empty universe should error")
	}
}

func TestPipelineUnknownMethod(t *testing.T) {
	u := factorTestUniverse(6)
	prices := &pipelinePrices{series: make(map[string]*models.MonthlySeries)}

	p := &Pipeline{Prices: prices, Method: "spectral", Clusters: 2, Log: zerolog.Nop()}
	if err := p.Run(context.Background(), u); err == nil {
		t.Error("unknown clustering method should error")
	}
}

func closeEnough(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
