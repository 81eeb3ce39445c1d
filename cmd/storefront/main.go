// cmd/storefront/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/telemetry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	shutdown telemetry.ShutdownFunc

	setupTelemetry = telemetry.Setup
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Fashion storefront catalog and cart",
	Long: `storefront serves a product catalog backed by a remote store API with a
static fallback document, and keeps a shopping cart in a durable slot.

Run "storefront serve" to expose the catalog and cart over HTTP, or use the
products, categories and cart commands directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		shutdown, err = setupTelemetry(cmd.Context(), cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "storefront.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd, productsCmd, categoriesCmd, cartCmd, configCmd)
}

// execute runs the command tree and releases telemetry and the logger whether or
// not the command succeeded. Cobra skips post-run hooks after a RunE error.
func execute(args []string) error {
	defer cleanup()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func cleanup() {
	if shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
		shutdown = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func main() {
	if err := execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
