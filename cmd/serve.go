package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hbarrett/happidex/internal/dashboard"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve the interactive dashboard over HTTP",
	Long: `Loads and cleans the dataset once, then serves an HTML dashboard with
overview tables, charts, insights, and a composite index page whose
weights can be adjusted per request.`,
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

		addr := serveAddr
		if addr == "" {
			addr = "127.0.0.1:8080"
			if cfg != nil && cfg.ServeAddr != "" {
				addr = cfg.ServeAddr
			}
		}

		srv := dashboard.New(dashboard.Config{
			Addr:       addr,
			Logger:     slog.Default(),
			Data:       df,
			Index:      indexConfig(),
			Thresholds: thresholds(),
			TopN:       topN(),
			Source:     path,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config serve_addr)")
}
