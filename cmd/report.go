package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/chart"
	"github.com/hbarrett/happidex/internal/dataset"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/insight"
	"github.com/hbarrett/happidex/internal/report"
)

var (
	repOutDir    string
	repCleanPath string
	repNoCharts  bool
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Run the full pipeline and write a markdown report with charts",
	Long: `Runs the whole analysis in one pass: cleans the dataset, computes
descriptive statistics and the composite index, generates insights,
renders charts, and writes everything under the reports directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dataPath(args)
		if path == "" {
			return fmt.Errorf("no input file given and no data_path configured")
		}
		df, summary, err := loadAndClean(path)
		if err != nil {
			return err
		}

		outDir := repOutDir
		if outDir == "" {
			outDir = "reports"
			if cfg != nil && cfg.ReportsDir != "" {
				outDir = cfg.ReportsDir
			}
		}

		// Persist the cleaned table next to the raw one unless told otherwise.
		cleanPath := repCleanPath
		if cleanPath == "" {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			cleanPath = filepath.Join("data", "processed", base+"_cleaned.csv")
		}
		if err := dataset.WriteCSV(df, cleanPath); err != nil {
			return err
		}
		fmt.Printf("✓ Saved cleaned dataset to %s\n", cleanPath)

		df = index.Run(df, indexConfig())

		rep := report.New(path)
		rep.Validation = &summary
		n := topN()
		if rep.Top, err = analyze.TopCountries(df, n); err != nil {
			return err
		}
		rep.Bottom, _ = analyze.BottomCountries(df, n)
		rep.Regional, _ = analyze.RegionalSummary(df)

		corr := make(map[string]float64)
		for _, col := range index.DefaultIndicators() {
			if !dataset.HasColumn(df, col) {
				continue
			}
			if r, _, err := analyze.CorrelationWithScore(df, col); err == nil {
				corr[col] = r
			}
		}
		rep.ScoreCorr = corr

		table, err := index.Compare(df)
		if err != nil {
			return err
		}
		stats := index.Statistics(df)
		rep.Comparison = &table
		rep.Stats = &stats
		rep.MaxComparisonRows = n

		rep.Findings = insight.All(df, thresholds(), insight.IQR)

		reportPath := filepath.Join(outDir, "happiness_report.md")
		if err := rep.Write(reportPath); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote report to %s\n", reportPath)

		insightsPath := filepath.Join(outDir, "insights.txt")
		if err := insight.Save(rep.Findings, insightsPath); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote insights to %s\n", insightsPath)

		if !repNoCharts {
			chartsDir := filepath.Join(outDir, "charts")
			if err := chart.WriteAll(df, chartsDir, n); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote charts to %s\n", chartsDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutDir, "out", "o", "", "output directory (default from config reports_dir)")
	reportCmd.Flags().StringVar(&repCleanPath, "cleaned", "", "where to save the cleaned CSV (default data/processed/<name>_cleaned.csv)")
	reportCmd.Flags().BoolVar(&repNoCharts, "no-charts", false, "skip chart rendering")
}
