package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/hbarrett/happidex/internal/clean"
	cfgpkg "github.com/hbarrett/happidex/internal/config"
	"github.com/hbarrett/happidex/internal/dataset"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/insight"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "happidex",
	Short: "happidex: analyze World Happiness Report data",
	Long: `happidex loads World Happiness Report tables, cleans them, computes
descriptive statistics and a configurable composite happiness index, and
renders reports, charts, insights, and a local web dashboard.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.happidex/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// dataPath resolves the input file: an explicit argument wins, then the
// configured data_path.
func dataPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg != nil {
		return cfg.DataPath
	}
	return ""
}

// loadAndClean runs the standard ingestion pipeline: load, validate,
// standardize names, impute missing values, drop duplicates.
func loadAndClean(path string) (dataframe.DataFrame, clean.Summary, error) {
	df, err := dataset.Load(path)
	if err != nil {
		return dataframe.DataFrame{}, clean.Summary{}, err
	}
	summary := clean.Validate(df)
	slog.Debug("loaded dataset", "path", path, "rows", summary.Rows, "missing", summary.TotalMissing())

	strategy := clean.StrategyMean
	if cfg != nil && cfg.ImputeStrategy != "" {
		strategy = clean.Strategy(cfg.ImputeStrategy)
	}
	df = clean.Regions(clean.Countries(df))
	df, err = clean.Impute(df, strategy)
	if err != nil {
		return dataframe.DataFrame{}, summary, err
	}
	return clean.Dedupe(df), summary, nil
}

// indexConfig builds the composite index configuration from the loaded
// global config, falling back to the built-in indicators and uniform
// weights.
func indexConfig() index.Config {
	var ic index.Config
	if cfg != nil && len(cfg.Indicators) > 0 {
		ic = index.NewConfig(cfg.Indicators...)
	} else {
		ic = index.NewConfig(index.DefaultIndicators()...)
	}
	if cfg != nil && len(cfg.Weights) > 0 {
		// Config-file keys come back lowercased, so resolve them against
		// the indicator columns before applying.
		w, err := index.ResolveWeights(cfg.Weights, ic.Indicators)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: ignoring configured weights: %v\n", err)
			return ic
		}
		ic = ic.SetWeights(w)
	}
	return ic
}

func thresholds() insight.Thresholds {
	th := insight.DefaultThresholds()
	if cfg == nil {
		return th
	}
	if cfg.GDPThreshold > 0 {
		th.GDP = cfg.GDPThreshold
	}
	if cfg.HappinessThreshold > 0 {
		th.Happiness = cfg.HappinessThreshold
	}
	if cfg.GenerosityThreshold > 0 {
		th.Generosity = cfg.GenerosityThreshold
	}
	return th
}

func topN() int {
	if cfg != nil && cfg.TopN > 0 {
		return cfg.TopN
	}
	return 10
}
