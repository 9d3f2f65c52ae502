package factor

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/quantfolio/internal/portfolio"
	"github.com/seenimoa/quantfolio/internal/universe"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// projectionComponents is the dimensionality the factor space is reduced
// to before clustering.
const projectionComponents = 2

// Pipeline annotates a universe with factor scores, cluster labels, and
// per-ticker risk.
type Pipeline struct {
	Prices   portfolio.PriceSource
	Window   portfolio.Config
	Method   string // kmeans or dendrogram
	Clusters int
	Seed     int64
	Log      zerolog.Logger
}

// Run computes composites over the ratio columns, projects them, assigns
// cluster labels, and fills the risk column from each ticker's monthly
// closes. A ticker without usable price history keeps a null risk; the
// selection policies skip those rows.
func (p *Pipeline) Run(ctx context.Context, u *universe.Universe) error {
	if len(u.Companies) == 0 {
		return fmt.Errorf("factor: empty universe")
	}

	Composites(u)

	projected, err := Project(Matrix(u), projectionComponents)
	if err != nil {
		return err
	}
	labels, err := Cluster(projected, p.Method, p.Clusters, p.Seed)
	if err != nil {
		return err
	}
	for i, c := range u.Companies {
		c.Cluster = labels[i]
	}

	for _, c := range u.Companies {
		risk, err := p.annualizedRisk(ctx, c.Ticker)
		if err != nil {
			p.Log.Warn().Str("ticker", c.Ticker).Err(err).Msg("risk unavailable")
			c.Risk = models.Null()
			continue
		}
		c.Risk = models.Float(risk)
	}
	return nil
}

// annualizedRisk is the annualized volatility of a ticker's monthly
// returns over the configured window.
func (p *Pipeline) annualizedRisk(ctx context.Context, ticker string) (float64, error) {
	closes, err := p.Prices.MonthlyCloses(ctx, ticker, p.Window.FirstMonth, p.Window.LastMonth)
	if err != nil {
		return 0, err
	}
	if closes.Len() < 3 {
		return 0, fmt.Errorf("%d monthly closes are too few for a volatility estimate", closes.Len())
	}

	rets := make([]float64, 0, closes.Len()-1)
	for i := 1; i < closes.Len(); i++ {
		_, prev := closes.At(i - 1)
		_, cur := closes.At(i)
		if prev <= 0 {
			return 0, fmt.Errorf("non-positive close in the window")
		}
		rets = append(rets, cur/prev-1)
	}
	return stat.StdDev(rets, nil) * math.Sqrt(12), nil
}
