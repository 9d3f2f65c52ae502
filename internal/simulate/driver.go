package simulate

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/seenimoa/quantfolio/internal/portfolio"
	"github.com/seenimoa/quantfolio/internal/universe"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// lockedSource is a mutex-guarded random source safe for concurrent
// trials. Window choice and forecast paths share it process-wide, so a
// trial's portfolio composition (seeded per trial) and its randomness
// here are deliberately not jointly reproducible from one number.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// Driver runs single simulation trials against a universe and a price
// source.
type Driver struct {
	Universe   *universe.Universe
	Prices     portfolio.PriceSource
	Portfolio  portfolio.Config
	StartValue float64 // reporting basis for result values
	Log        zerolog.Logger

	src *lockedSource
	rng *rand.Rand
}

// NewDriver builds a driver. seed fixes the shared random source used
// for forecast paths and bootstrap window starts.
func NewDriver(u *universe.Universe, prices portfolio.PriceSource, cfg portfolio.Config, startValue float64, seed int64, log zerolog.Logger) *Driver {
	src := &lockedSource{src: rand.NewPCG(uint64(seed), 1)}
	return &Driver{
		Universe:   u,
		Prices:     prices,
		Portfolio:  cfg,
		StartValue: startValue,
		Log:        log,
		src:        src,
		rng:        rand.New(src),
	}
}

// buildPortfolio selects tickers for the trial and constructs the
// equal-weight portfolio. The selection seed is the trial index, so a
// given trial always holds the same basket.
func (d *Driver) buildPortfolio(ctx context.Context, policy string, sampleSize int, trial int) (*portfolio.Portfolio, error) {
	tickers, err := universe.Select(d.Universe, policy, sampleSize, int64(trial))
	if err != nil {
		return nil, err
	}
	return portfolio.Build(ctx, d.Prices, tickers, d.Portfolio)
}

// SimulateReturn runs one Monte Carlo trial: a single normal-model
// forward path. Horizons under a year simulate a full one-year path and
// read the value at the proportional month; longer horizons run whole
// years and read the final value. Forecast trials carry no year-over-year
// breakdown.
func (d *Driver) SimulateReturn(ctx context.Context, trial int, policy string, sampleSize int, length string) (*models.SimulationResult, error) {
	years, err := ParseLength(length)
	if err != nil {
		return nil, err
	}
	pf, err := d.buildPortfolio(ctx, policy, sampleSize, trial)
	if err != nil {
		return nil, err
	}

	var startVal, endVal float64
	if years < 1 {
		path, err := pf.ForecastWealth(1, portfolio.DistNormal, d.src)
		if err != nil {
			return nil, err
		}
		_, startVal = path.At(0)
		_, endVal = path.At(int(years * 12))
	} else {
		path, err := pf.ForecastWealth(int(math.Ceil(years)), portfolio.DistNormal, d.src)
		if err != nil {
			return nil, err
		}
		_, startVal = path.At(0)
		_, endVal = path.Last()
	}

	growth := endVal / startVal
	return &models.SimulationResult{
		StartValue:    d.StartValue,
		EndValue:      d.StartValue * growth,
		OverallReturn: growth - 1,
		AnnualReturn:  math.Pow(growth, 1/years) - 1,
		YoYReturns:    map[string]models.NullFloat{},
	}, nil
}

// SimulateBootstrap runs one historical-resampling trial: a uniformly
// random contiguous window of floor(years*12) months from the realized
// wealth index. A window the series cannot hold is a configuration
// error and propagates.
func (d *Driver) SimulateBootstrap(ctx context.Context, trial int, policy string, sampleSize int, length string) (*models.SimulationResult, error) {
	years, err := ParseLength(length)
	if err != nil {
		return nil, err
	}
	pf, err := d.buildPortfolio(ctx, policy, sampleSize, trial)
	if err != nil {
		return nil, err
	}

	wealth := pf.WealthIndex()
	totalMonths := int(years * 12)
	maxStart := wealth.Len() - totalMonths - 1
	if maxStart < 0 {
		return nil, fmt.Errorf("bootstrap window of %d months exceeds the %d-month wealth index", totalMonths, wealth.Len())
	}
	startPos := d.rng.IntN(maxStart + 1)

	start, startVal := wealth.At(startPos)
	end, endVal := wealth.At(startPos + totalMonths)
	overall, annual, yoy, err := ExtractReturn(wealth, start, end)
	if err != nil {
		return nil, err
	}

	growth := endVal / startVal
	return &models.SimulationResult{
		StartValue:    d.StartValue,
		EndValue:      d.StartValue * growth,
		OverallReturn: overall,
		AnnualReturn:  annual,
		YoYReturns:    yoy,
	}, nil
}
