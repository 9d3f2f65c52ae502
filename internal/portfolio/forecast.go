package portfolio

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// Distribution names a monthly-return model for forward simulation.
type Distribution string

const (
	// DistNormal draws monthly returns from a normal distribution fit
	// to the realized series.
	DistNormal Distribution = "norm"
	// DistLogNormal draws monthly growth factors from a lognormal fit
	// to the realized growth factors.
	DistLogNormal Distribution = "lognorm"
)

// ForecastWealth simulates one forward wealth path of 12·years monthly
// steps, anchored at the last realized wealth value. The returned series
// has 12·years+1 points, the anchor first. A nil src falls back to the
// process-wide generator.
func (p *Portfolio) ForecastWealth(years int, dist Distribution, src rand.Source) (*models.MonthlySeries, error) {
	if years <= 0 {
		return nil, fmt.Errorf("portfolio: forecast horizon %d years", years)
	}
	rets := p.returns.Values()
	if len(rets) < 2 {
		return nil, fmt.Errorf("portfolio: %d monthly returns are too few to fit a distribution", len(rets))
	}

	months := 12 * years
	anchorMonth, anchorWealth := p.wealth.Last()
	path := models.NewMonthlySeries(months + 1)
	_ = path.Append(anchorMonth, anchorWealth)

	switch dist {
	case DistNormal:
		normal := distuv.Normal{
			Mu:    stat.Mean(rets, nil),
			Sigma: stat.StdDev(rets, nil),
			Src:   src,
		}
		w := anchorWealth
		for k := 1; k <= months; k++ {
			w *= 1 + normal.Rand()
			_ = path.Append(anchorMonth.AddMonths(k), w)
		}
	case DistLogNormal:
		logs := make([]float64, len(rets))
		for i, r := range rets {
			g := 1 + r
			if g <= 0 {
				return nil, fmt.Errorf("portfolio: monthly return %.4f leaves no positive growth factor to fit", r)
			}
			logs[i] = math.Log(g)
		}
		lognormal := distuv.LogNormal{
			Mu:    stat.Mean(logs, nil),
			Sigma: stat.StdDev(logs, nil),
			Src:   src,
		}
		w := anchorWealth
		for k := 1; k <= months; k++ {
			w *= lognormal.Rand()
			_ = path.Append(anchorMonth.AddMonths(k), w)
		}
	default:
		return nil, fmt.Errorf("portfolio: unknown distribution %q", dist)
	}

	return path, nil
}
