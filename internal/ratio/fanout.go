package ratio

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// DefaultWorkers bounds batch concurrency when the caller passes no
// worker count.
const DefaultWorkers = 10

// BatchResult aggregates a fan-out run: the successful ratio sets plus
// the tickers that failed. No ordering is guaranteed.
type BatchResult struct {
	Results  []*models.RatioSet
	Failures []string
}

// ProcessTickers computes ratios for every ticker on a bounded worker
// pool. One ticker's failure is recorded and never aborts its siblings.
func (e *Engine) ProcessTickers(ctx context.Context, tickers []string, workers int) *BatchResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	type outcome struct {
		set *models.RatioSet
		err error
	}
	outcomes := make([]outcome, len(tickers))

	// Plain group, not WithContext: a failed ticker must not cancel the
	// rest of the batch. Each task writes its own slot; Wait is the
	// barrier.
	var g errgroup.Group
	g.SetLimit(workers)
	for i, ticker := range tickers {
		g.Go(func() error {
			start := time.Now()
			set, err := e.ComputeRatios(ctx, ticker)
			elapsed := time.Since(start)
			if err != nil {
				e.log.Error().Str("ticker", ticker).Err(err).
					Float64("elapsed_sec", elapsed.Seconds()).Msg("ratio computation failed")
				outcomes[i] = outcome{err: err}
				return nil
			}
			set.Elapsed = elapsed.Seconds()
			e.log.Info().Str("ticker", ticker).
				Float64("elapsed_sec", elapsed.Seconds()).Msg("ratios computed")
			outcomes[i] = outcome{set: set}
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{}
	for i, o := range outcomes {
		if o.err != nil {
			res.Failures = append(res.Failures, tickers[i])
			continue
		}
		res.Results = append(res.Results, o.set)
	}
	return res
}
