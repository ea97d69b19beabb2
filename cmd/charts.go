package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hbarrett/happidex/internal/chart"
)

var (
	chartOutDir string
	chartTopN   int
)

var chartsCmd = &cobra.Command{
	Use:   "charts [file]",
	Short: "Render the analysis charts as PNG files",
	Long: `Renders the country comparison, regional averages, GDP scatter,
correlation heatmap, and top/bottom comparison charts. Charts whose
source columns are missing from the dataset are skipped.`,
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
		n := chartTopN
		if n <= 0 {
			n = topN()
		}
		dir := chartOutDir
		if dir == "" {
			if cfg != nil && cfg.ReportsDir != "" {
				dir = filepath.Join(cfg.ReportsDir, "charts")
			} else {
				dir = "charts"
			}
		}
		if err := chart.WriteAll(df, dir, n); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote charts to %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVarP(&chartOutDir, "out", "o", "", "output directory (default <reports_dir>/charts)")
	chartsCmd.Flags().IntVar(&chartTopN, "top", 0, "countries per bar chart (default from config)")
}
