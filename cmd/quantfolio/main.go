// quantfolio — single-analyst portfolio research CLI
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/quantfolio/internal/config"
	"github.com/seenimoa/quantfolio/internal/factor"
	"github.com/seenimoa/quantfolio/internal/marketdata"
	"github.com/seenimoa/quantfolio/internal/portfolio"
	"github.com/seenimoa/quantfolio/internal/provider"
	"github.com/seenimoa/quantfolio/internal/providers"
	"github.com/seenimoa/quantfolio/internal/ratio"
	"github.com/seenimoa/quantfolio/internal/simulate"
	"github.com/seenimoa/quantfolio/internal/store"
	"github.com/seenimoa/quantfolio/internal/universe"
	"github.com/seenimoa/quantfolio/pkg/logger"
	"github.com/seenimoa/quantfolio/pkg/models"
	"github.com/seenimoa/quantfolio/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set by the root PersistentPreRunE.
var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quantfolio",
	Short: "quantfolio — fundamental ratio analysis and portfolio simulation",
	Long: `quantfolio computes fundamental ratio profiles for a research universe,
condenses them into factor scores and clusters, and simulates the
forward returns of policy-selected portfolios via Monte Carlo forecasts
or historical bootstrap resampling.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		log = logger.New(logger.Config{Level: level, Pretty: cfg.Logging.Pretty})
		logger.SetGlobalLogger(log)

		if err := providers.RegisterAll(); err != nil {
			return fmt.Errorf("failed to register providers: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ratiosCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(factorsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(statusCmd)
}

// marketService builds the provider-backed market data facade.
func marketService() *marketdata.Service {
	return marketdata.NewService(provider.Global(), log)
}

// portfolioConfig converts the configured construction window.
func portfolioConfig() (portfolio.Config, error) {
	first, err := models.ParseMonth(cfg.Portfolio.FirstMonth)
	if err != nil {
		return portfolio.Config{}, fmt.Errorf("portfolio.first_month: %w", err)
	}
	last, err := models.ParseMonth(cfg.Portfolio.LastMonth)
	if err != nil {
		return portfolio.Config{}, fmt.Errorf("portfolio.last_month: %w", err)
	}
	return portfolio.Config{
		Currency:    cfg.Portfolio.Currency,
		Rebalancing: cfg.Portfolio.Rebalancing,
		FirstMonth:  first,
		LastMonth:   last,
	}, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quantfolio %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Ratios Command ---

var ratiosCmd = &cobra.Command{
	Use:   "ratios [ticker]",
	Short: "Compute the fundamental ratio profile for one ticker",
	Long: `Fetch the ticker's annual statements and market snapshot, and derive
the sixteen fundamental ratios over the configured baseline fiscal year.
Ratios a statement cannot support print as NA.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := "GOOGL"
		if len(args) == 1 {
			ticker = args[0]
		}
		ticker = utils.NormalizeTicker(ticker)

		engine := ratio.NewEngine(marketService(), cfg.Analysis.BaselineYear, log)
		set, err := engine.ComputeRatios(cmd.Context(), ticker)
		if err != nil {
			return err
		}

		fmt.Printf("%s — fiscal year %s\n", set.Ticker, cfg.Analysis.BaselineYear)
		for _, name := range models.RatioNames {
			fmt.Printf("  %-30s %s\n", name+":", set.Get(name))
		}
		return nil
	},
}

// --- Batch Command ---

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compute ratios for the whole universe and save the CSV",
	Long: `Fan ratio computation out over every ticker of the universe file on a
bounded worker pool. Each ticker's results merge back into the universe
CSV; failed tickers are reported and their rows left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		universeFile, _ := cmd.Flags().GetString("universe")
		if universeFile == "" {
			universeFile = cfg.Analysis.UniverseFile
		}
		u, err := universe.Load(universeFile)
		if err != nil {
			return err
		}

		engine := ratio.NewEngine(marketService(), cfg.Analysis.BaselineYear, log)
		batch := engine.ProcessTickers(cmd.Context(), u.Tickers(), cfg.Analysis.Workers)

		u.ApplyRatios(batch.Results)
		if err := u.Save(universeFile); err != nil {
			return err
		}

		fmt.Printf("Processed %d tickers: %d succeeded, %d failed\n",
			len(u.Companies), len(batch.Results), len(batch.Failures))
		for _, ticker := range batch.Failures {
			fmt.Printf("  failed: %s\n", ticker)
		}
		fmt.Printf("Universe written to %s\n", universeFile)
		return nil
	},
}

func init() {
	batchCmd.Flags().String("universe", "", "universe CSV path (default: analysis.universe_file)")
}

// --- Factors Command ---

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Compute factor scores, clusters, and risk for the universe",
	Long: `Condense the universe's ratio columns into five composite factor
scores, project them to two principal components, cluster the
projection, and fill the risk column from each ticker's monthly closes.
The annotated universe is written back to the CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		universeFile, _ := cmd.Flags().GetString("universe")
		if universeFile == "" {
			universeFile = cfg.Analysis.UniverseFile
		}
		method, _ := cmd.Flags().GetString("method")
		clusters, _ := cmd.Flags().GetInt("clusters")
		seed, _ := cmd.Flags().GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		u, err := universe.Load(universeFile)
		if err != nil {
			return err
		}
		window, err := portfolioConfig()
		if err != nil {
			return err
		}

		p := &factor.Pipeline{
			Prices:   marketService(),
			Window:   window,
			Method:   method,
			Clusters: clusters,
			Seed:     seed,
			Log:      log,
		}
		if err := p.Run(cmd.Context(), u); err != nil {
			return err
		}
		if err := u.Save(universeFile); err != nil {
			return err
		}

		fmt.Printf("Annotated %d companies (%s, %d clusters)\n", len(u.Companies), method, clusters)
		fmt.Printf("Universe written to %s\n", universeFile)
		return nil
	},
}

func init() {
	factorsCmd.Flags().String("universe", "", "universe CSV path (default: analysis.universe_file)")
	factorsCmd.Flags().String("method", factor.MethodKMeans, "clustering method (kmeans, dendrogram)")
	factorsCmd.Flags().Int("clusters", 5, "number of clusters")
	factorsCmd.Flags().Int64("seed", 0, "clustering seed (0 = time-based)")
}

// --- Simulate Command ---

var simulateCmd = &cobra.Command{
	Use:   "simulate [policy]",
	Short: "Run return simulations for a policy-selected portfolio",
	Long: `Select a portfolio from the universe under the given policy and
simulate its return over the requested horizon, either as Monte Carlo
forward paths or as bootstrap windows resampled from the realized wealth
index. Results are persisted to the store under a name derived from the
policy, horizon, and portfolio size.

Policies: ` + strings.Join(universe.PolicyNames(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy := args[0]
		trials, _ := cmd.Flags().GetInt("num_simulations")
		if !cmd.Flags().Changed("num_simulations") {
			trials = cfg.Simulation.DefaultTrials
		}
		length, _ := cmd.Flags().GetString("simulation_length")
		if !cmd.Flags().Changed("simulation_length") {
			length = cfg.Simulation.DefaultLength
		}
		stocks, _ := cmd.Flags().GetInt("num_stocks")
		if !cmd.Flags().Changed("num_stocks") {
			stocks = cfg.Simulation.DefaultStocks
		}
		simType, _ := cmd.Flags().GetString("simulation_type")
		seed, _ := cmd.Flags().GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		st, err := models.ParseSimulationType(simType)
		if err != nil {
			return err
		}
		u, err := universe.Load(cfg.Analysis.UniverseFile)
		if err != nil {
			return err
		}
		window, err := portfolioConfig()
		if err != nil {
			return err
		}

		driver := simulate.NewDriver(u, marketService(), window, cfg.Portfolio.StartValue, seed, log)
		runner := &simulate.Runner{
			Driver: driver,
			Store:  store.New(cfg.Store.Dir),
			Log:    log,
		}
		results, err := runner.Run(cmd.Context(), simulate.RunParams{
			Policy: policy,
			Type:   st,
			Trials: trials,
			Length: length,
			Stocks: stocks,
		})
		if err != nil {
			return err
		}

		name := simulate.PortfolioName(policy, length, stocks)
		fmt.Printf("%s — %d %s trials over %s\n", name, trials, st, length)
		printResults(results)
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int("num_simulations", 5, "number of trials")
	simulateCmd.Flags().String("simulation_type", string(models.SimulationMonteCarlo), "monte_carlo or bootstrap")
	simulateCmd.Flags().String("simulation_length", "5y", "horizon ("+strings.Join(simulate.Lengths, ", ")+")")
	simulateCmd.Flags().Int("num_stocks", 15, "portfolio size")
	simulateCmd.Flags().Int64("seed", 0, "simulation seed (0 = time-based)")
}

// printResults renders one line per trial.
func printResults(results []models.SimulationResult) {
	for i, res := range results {
		fmt.Printf("  trial %2d: %10.2f → %10.2f  overall %+7.2f%%  annual %+7.2f%%\n",
			i, res.StartValue, res.EndValue, res.OverallReturn*100, res.AnnualReturn*100)
	}
}

// --- Results Command ---

var resultsCmd = &cobra.Command{
	Use:   "results [name]",
	Short: "Show persisted simulation results",
	Long: `List persisted result sets for a simulation type, or show one named
set. Names follow <policy>_<length>_<stocks>s_portfolio.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simType, _ := cmd.Flags().GetString("simulation_type")
		full, _ := cmd.Flags().GetBool("full")

		st, err := models.ParseSimulationType(simType)
		if err != nil {
			return err
		}
		s := store.New(cfg.Store.Dir)

		if len(args) == 1 {
			entry, ok, err := s.Retrieve(args[0], st)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no %s results named %q", st, args[0])
			}
			printEntry(args[0], entry, full)
			return nil
		}

		all, err := s.RetrieveAll(st)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Printf("No %s results stored under %s\n", st, cfg.Store.Dir)
			return nil
		}
		for _, name := range sortedKeys(all) {
			printEntry(name, all[name], full)
		}
		return nil
	},
}

func init() {
	resultsCmd.Flags().String("simulation_type", string(models.SimulationMonteCarlo), "monte_carlo or bootstrap")
	resultsCmd.Flags().Bool("full", false, "print every trial, including year-over-year returns")
}

func printEntry(name string, entry store.Entry, full bool) {
	fmt.Printf("%s  (%d trials, updated %s)\n", name, len(entry.Data), entry.LastUpdated)
	if !full {
		return
	}
	printResults(entry.Data)
	for i, res := range entry.Data {
		for _, year := range sortedKeys(res.YoYReturns) {
			fmt.Printf("    trial %2d yoy %s: %s\n", i, year, res.YoYReturns[year])
		}
	}
}

// sortedKeys returns a map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  quantfolio — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:        %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Baseline Year:  %s\n", cfg.Analysis.BaselineYear)
		fmt.Printf("    Universe File:  %s\n", cfg.Analysis.UniverseFile)
		fmt.Printf("    Window:         %s .. %s (%s)\n",
			cfg.Portfolio.FirstMonth, cfg.Portfolio.LastMonth, cfg.Portfolio.Currency)
		fmt.Printf("    Store:          %s\n", cfg.Store.Dir)
		fmt.Println()

		fmt.Printf("  Providers (default: %s):\n", cfg.Providers.Default)
		for _, info := range provider.Global().List() {
			fmt.Printf("    %-15s %d models\n", info.Name, len(info.Models))
		}
		fmt.Println()

		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
