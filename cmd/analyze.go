package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/dataset"
	"github.com/hbarrett/happidex/internal/report"
)

var (
	anaOutputPath string
	anaTopN       int
	anaCorr       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Clean the dataset and summarize scores, regions, and correlations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dataPath(args)
		if path == "" {
			return fmt.Errorf("no input file given and no data_path configured")
		}
		df, summary, err := loadAndClean(path)
		if err != nil {
			return err
		}
		n := anaTopN
		if n <= 0 {
			n = topN()
		}

		rep := report.New(path)
		rep.Validation = &summary
		if rep.Top, err = analyze.TopCountries(df, n); err != nil {
			return err
		}
		rep.Bottom, _ = analyze.BottomCountries(df, n)
		rep.Regional, _ = analyze.RegionalSummary(df)

		if anaCorr {
			corr := make(map[string]float64)
			for _, col := range dataset.NumericColumns(df) {
				if col == dataset.ColScore || col == dataset.ColRank {
					continue
				}
				if r, _, err := analyze.CorrelationWithScore(df, col); err == nil {
					corr[col] = r
				}
			}
			rep.ScoreCorr = corr
		}

		md := rep.Markdown()
		if anaOutputPath != "" {
			if err := rep.Write(anaOutputPath); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	analyzeCmd.Flags().IntVar(&anaTopN, "top", 0, "number of countries in the top/bottom tables (default from config)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "include Pearson correlations with the happiness score")
}
