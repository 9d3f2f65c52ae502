// Package marketdata is the facade between the provider registry and the
// analysis engines. It fetches provider payloads and shapes them into the
// statement sets, asset snapshots, and monthly close series the rest of
// the system consumes.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/pkg/models"
	"github.com/seenimoa/quantfolio/pkg/utils"
)

// Service fetches market data through the provider registry, with
// provider fallback on every call.
type Service struct {
	registry *provider.Registry
	log      zerolog.Logger
}

// NewService creates a market data service over the given registry.
func NewService(reg *provider.Registry, log zerolog.Logger) *Service {
	return &Service{registry: reg, log: log}
}

// ErrMissingStatements indicates a ticker without a usable statement
// table. Ratio analysis cannot proceed for such a ticker.
type ErrMissingStatements struct {
	Ticker    string
	Statement string
}

func (e *ErrMissingStatements) Error() string {
	return fmt.Sprintf("financial statements not available for %s: empty %s", e.Ticker, e.Statement)
}

// Statements fetches the three annual statements concurrently. All three
// must come back non-empty.
func (s *Service) Statements(ctx context.Context, ticker string) (*models.StatementSet, error) {
	symbol := utils.NormalizeTicker(ticker)

	set := &models.StatementSet{Ticker: symbol}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st, err := s.fetchStatement(gctx, provider.ModelIncomeStatement, symbol)
		if err != nil {
			return err
		}
		set.Income = st
		return nil
	})
	g.Go(func() error {
		st, err := s.fetchStatement(gctx, provider.ModelBalanceSheet, symbol)
		if err != nil {
			return err
		}
		set.Balance = st
		return nil
	})
	g.Go(func() error {
		st, err := s.fetchStatement(gctx, provider.ModelCashFlowStatement, symbol)
		if err != nil {
			return err
		}
		set.CashFlow = st
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Income statements from some sources carry an unnamed label column.
	set.Income.RenamePeriod("", "Account")

	return set, nil
}

// fetchStatement retrieves one statement model with provider fallback and
// rejects empty tables.
func (s *Service) fetchStatement(ctx context.Context, model provider.ModelType, symbol string) (*models.Statement, error) {
	res, err := s.registry.FetchWithFallback(ctx, model, provider.QueryParams{
		provider.ParamSymbol: symbol,
	})
	if err != nil {
		return nil, fmt.Errorf("%s for %s: %w", model, symbol, err)
	}
	st, ok := res.Data.(*models.Statement)
	if !ok {
		return nil, fmt.Errorf("unexpected %s payload %T for %s", model, res.Data, symbol)
	}
	if st.Empty() {
		return nil, &ErrMissingStatements{Ticker: symbol, Statement: string(model)}
	}
	return st, nil
}

// Asset assembles the market-side snapshot for one ticker: recent monthly
// adjusted closes, share count, and profile metadata. Each piece degrades
// independently; a missing share count or price history becomes a null in
// the downstream ratios rather than a failure here.
func (s *Service) Asset(ctx context.Context, ticker string) (*models.AssetSnapshot, error) {
	symbol := utils.NormalizeTicker(ticker)

	snapshot := &models.AssetSnapshot{Ticker: symbol}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := s.registry.FetchWithFallback(gctx, provider.ModelEquityInfo, provider.QueryParams{
			provider.ParamSymbol: symbol,
		})
		if err != nil {
			s.log.Warn().Str("ticker", symbol).Err(err).Msg("company profile unavailable")
			return nil
		}
		if info, ok := res.Data.(*models.EquityProfile); ok {
			snapshot.Industry = info.Industry
			snapshot.Sector = info.Sector
		}
		return nil
	})

	g.Go(func() error {
		res, err := s.registry.FetchWithFallback(gctx, provider.ModelShareStatistics, provider.QueryParams{
			provider.ParamSymbol: symbol,
		})
		if err != nil {
			s.log.Warn().Str("ticker", symbol).Err(err).Msg("share statistics unavailable")
			return nil
		}
		if stats, ok := res.Data.(*models.ShareStats); ok {
			snapshot.SharesOutstanding = stats.SharesOutstanding
		}
		return nil
	})

	g.Go(func() error {
		now := time.Now().UTC()
		points, err := s.fetchMonthlyPoints(gctx, symbol, now.AddDate(-1, 0, 0), now)
		if err != nil {
			s.log.Warn().Str("ticker", symbol).Err(err).Msg("price history unavailable")
			return nil
		}
		snapshot.Prices = points
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// MonthlyCloses returns the month-end adjusted close series for the
// window [first, last].
func (s *Service) MonthlyCloses(ctx context.Context, ticker string, first, last models.Month) (*models.MonthlySeries, error) {
	symbol := utils.NormalizeTicker(ticker)

	points, err := s.fetchMonthlyPoints(ctx, symbol, first.Time(), last.AddMonths(1).Time())
	if err != nil {
		return nil, err
	}

	series := monthEndSeries(points, first, last)
	if series.Len() == 0 {
		return nil, fmt.Errorf("no monthly closes for %s in %s..%s", symbol, first, last)
	}
	return series, nil
}

// fetchMonthlyPoints pulls adjusted closes at monthly resolution.
func (s *Service) fetchMonthlyPoints(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	res, err := s.registry.FetchWithFallback(ctx, provider.ModelEquityHistorical, provider.QueryParams{
		provider.ParamSymbol:    symbol,
		provider.ParamStartDate: start.Format("2006-01-02"),
		provider.ParamEndDate:   end.Format("2006-01-02"),
		provider.ParamInterval:  "1mo",
	})
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", symbol, err)
	}
	points, ok := res.Data.([]models.PricePoint)
	if !ok {
		return nil, fmt.Errorf("unexpected price payload %T for %s", res.Data, symbol)
	}
	return points, nil
}

// monthEndSeries collapses price points to one close per month, keeping
// the latest observation inside each month, restricted to [first, last].
func monthEndSeries(points []models.PricePoint, first, last models.Month) *models.MonthlySeries {
	byMonth := make(map[models.Month]float64)
	for _, p := range points {
		m := models.MonthOf(p.Date)
		if m.Before(first) || m.After(last) {
			continue
		}
		byMonth[m] = p.AdjClose // points ascend, so the last one wins
	}

	months := make([]models.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	series := models.NewMonthlySeries(len(months))
	for _, m := range months {
		_ = series.Append(m, byMonth[m]) // months are sorted and unique
	}
	return series
}
