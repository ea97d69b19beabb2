package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hbarrett/happidex/internal/dataset"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/report"
)

var (
	idxIndicators  []string
	idxWeightSpec  string
	idxWeightsFile string
	idxOutputPath  string
	idxFormat      string
	idxLimit       int
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Compute the composite happiness index and compare it to the original",
	Long: `Normalizes the configured indicators to [0,1], combines them with the
given weights, scales the result to a 0-10 index, and ranks countries.
Weights may name indicators by full column name or any unambiguous
fragment, e.g. gdp=0.5,health=0.5.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dataPath(args)
		if path == "" {
			return fmt.Errorf("no input file given and no data_path configured")
		}
		df, _, err := loadAndClean(path)
		if err != nil {
			return err
		}

		ic := indexConfig()
		if len(idxIndicators) > 0 {
			ic = index.NewConfig(idxIndicators...)
		}
		weights, err := resolveWeights(ic.Indicators)
		if err != nil {
			return err
		}
		if weights != nil {
			ic = ic.SetWeights(weights)
		}

		df = index.Run(df, ic)

		switch idxFormat {
		case "csv":
			if idxOutputPath == "" {
				return df.WriteCSV(os.Stdout)
			}
			if err := dataset.WriteCSV(df, idxOutputPath); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote indexed dataset to %s\n", idxOutputPath)
			return nil
		case "md", "":
			table, err := index.Compare(df)
			if err != nil {
				return err
			}
			stats := index.Statistics(df)
			rep := report.New(path)
			rep.Comparison = &table
			rep.Stats = &stats
			rep.MaxComparisonRows = idxLimit
			if idxOutputPath != "" {
				if err := rep.Write(idxOutputPath); err != nil {
					return err
				}
				fmt.Printf("✓ Wrote index comparison to %s\n", idxOutputPath)
				return nil
			}
			fmt.Println(rep.Markdown())
			return nil
		default:
			return fmt.Errorf("unsupported --format: %s (use 'md'|'csv')", idxFormat)
		}
	},
}

// resolveWeights merges --weights-file and --weights, the flag winning on
// conflicts. Returns nil when neither is set.
func resolveWeights(indicators []string) (map[string]float64, error) {
	var out map[string]float64
	if idxWeightsFile != "" {
		b, err := os.ReadFile(idxWeightsFile)
		if err != nil {
			return nil, fmt.Errorf("read weights file: %w", err)
		}
		raw := make(map[string]float64)
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("parse weights file: %w", err)
		}
		out, err = index.ResolveWeights(raw, indicators)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", idxWeightsFile, err)
		}
	}
	if idxWeightSpec != "" {
		parsed, err := index.ParseWeights(idxWeightSpec, indicators)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = parsed
		} else {
			for k, v := range parsed {
				out[k] = v
			}
		}
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringSliceVar(&idxIndicators, "indicators", nil, "indicator columns to combine (default: the six report factors)")
	indexCmd.Flags().StringVarP(&idxWeightSpec, "weights", "w", "", "weights as key=value,... (keys match indicator names)")
	indexCmd.Flags().StringVar(&idxWeightsFile, "weights-file", "", "YAML file mapping indicators to weights")
	indexCmd.Flags().StringVarP(&idxOutputPath, "output", "o", "", "optional output path")
	indexCmd.Flags().StringVar(&idxFormat, "format", "md", "output format: 'md' comparison report or 'csv' full table")
	indexCmd.Flags().IntVar(&idxLimit, "limit", 0, "cap the comparison table rows (0 = all)")
}
