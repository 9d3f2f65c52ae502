package simulate

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/quantfolio/internal/store"
	"github.com/seenimoa/quantfolio/pkg/models"
)

// RunParams describe one simulation run.
type RunParams struct {
	Policy string
	Type   models.SimulationType
	Trials int
	Length string
	Stocks int
}

// PortfolioName is the store key a run persists under.
func PortfolioName(policy, length string, stocks int) string {
	return fmt.Sprintf("%s_%s_%ds_portfolio", strings.ToLower(policy), length, stocks)
}

// Runner fans trials out over the available CPUs and persists the
// collected results.
type Runner struct {
	Driver *Driver
	Store  *store.Store
	Log    zerolog.Logger
}

// Run executes all trials concurrently. Results come back ordered by
// trial index. The first trial failure cancels the remaining trials and
// propagates: a broken trial means a broken configuration, so nothing is
// saved.
func (r *Runner) Run(ctx context.Context, p RunParams) ([]models.SimulationResult, error) {
	if p.Trials <= 0 {
		return nil, fmt.Errorf("simulate: %d trials", p.Trials)
	}
	runID := uuid.NewString()
	log := r.Log.With().
		Str("run_id", runID).
		Str("policy", p.Policy).
		Str("type", string(p.Type)).
		Logger()
	start := time.Now()

	results := make([]models.SimulationResult, p.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < p.Trials; i++ {
		g.Go(func() error {
			var (
				res *models.SimulationResult
				err error
			)
			switch p.Type {
			case models.SimulationMonteCarlo:
				res, err = r.Driver.SimulateReturn(gctx, i, p.Policy, p.Stocks, p.Length)
			case models.SimulationBootstrap:
				res, err = r.Driver.SimulateBootstrap(gctx, i, p.Policy, p.Stocks, p.Length)
			default:
				err = fmt.Errorf("unknown simulation type %q", p.Type)
			}
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := PortfolioName(p.Policy, p.Length, p.Stocks)
	if r.Store != nil {
		if err := r.Store.Save(name, results, p.Type, runID); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("trials", p.Trials).
		Str("portfolio", name).
		Float64("elapsed_sec", time.Since(start).Seconds()).
		Msg("simulation run complete")
	return results, nil
}
