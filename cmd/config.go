package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/hbarrett/happidex/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set happidex configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("data_path: %s\n", cfg.DataPath)
		fmt.Printf("reports_dir: %s\n", cfg.ReportsDir)
		if len(cfg.Indicators) > 0 {
			fmt.Printf("indicators: %s\n", strings.Join(cfg.Indicators, ", "))
		}
		for k, v := range cfg.Weights {
			fmt.Printf("weight %s: %.3f\n", k, v)
		}
		fmt.Printf("top_n: %d\n", cfg.TopN)
		fmt.Printf("gdp_threshold: %.3f\n", cfg.GDPThreshold)
		fmt.Printf("happiness_threshold: %.3f\n", cfg.HappinessThreshold)
		fmt.Printf("generosity_threshold: %.3f\n", cfg.GenerosityThreshold)
		fmt.Printf("impute_strategy: %s\n", cfg.ImputeStrategy)
		fmt.Printf("serve_addr: %s\n", cfg.ServeAddr)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_path":
			cfg.DataPath = val
		case "reports_dir":
			cfg.ReportsDir = val
		case "top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_n: %v", val)
			}
			cfg.TopN = i
		case "gdp_threshold":
			f, err := parsePositiveFloat(val)
			if err != nil {
				return fmt.Errorf("invalid gdp_threshold: %w", err)
			}
			cfg.GDPThreshold = f
		case "happiness_threshold":
			f, err := parsePositiveFloat(val)
			if err != nil {
				return fmt.Errorf("invalid happiness_threshold: %w", err)
			}
			cfg.HappinessThreshold = f
		case "generosity_threshold":
			f, err := parsePositiveFloat(val)
			if err != nil {
				return fmt.Errorf("invalid generosity_threshold: %w", err)
			}
			cfg.GenerosityThreshold = f
		case "impute_strategy":
			switch val {
			case "mean", "median", "zero", "drop":
				cfg.ImputeStrategy = val
			default:
				return fmt.Errorf("invalid impute_strategy: %s (use mean|median|zero|drop)", val)
			}
		case "serve_addr":
			cfg.ServeAddr = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func parsePositiveFloat(val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", val)
	}
	return f, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
