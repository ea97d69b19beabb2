package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbarrett/happidex/internal/insight"
)

var (
	insOutputPath string
	insMethod     string
)

var insightsCmd = &cobra.Command{
	Use:   "insights [file]",
	Short: "Generate rule-based findings from the dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dataPath(args)
		if path == "" {
			return fmt.Errorf("no input file given and no data_path configured")
		}
		df, _, err := loadAndClean(path)
		if err != nil {
			return err
		}

		method := insight.OutlierMethod(insMethod)
		switch method {
		case insight.IQR, insight.ZScore, "":
		default:
			return fmt.Errorf("unsupported --outliers: %s (use 'iqr'|'zscore')", insMethod)
		}
		findings := insight.All(df, thresholds(), method)

		if insOutputPath != "" {
			if err := insight.Save(findings, insOutputPath); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %d insights to %s\n", len(findings), insOutputPath)
			return nil
		}
		for i, f := range findings {
			fmt.Printf("%d. %s\n", i+1, f.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write insights as numbered text")
	insightsCmd.Flags().StringVar(&insMethod, "outliers", string(insight.IQR), "outlier method: 'iqr' or 'zscore'")
}
