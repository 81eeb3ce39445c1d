// cmd/chaos/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"storefront/internal/app"
	"storefront/internal/chaos"
	"storefront/internal/clients"
	"storefront/internal/config"
	"storefront/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
	latency    time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "chaos",
	Short:        "Run catalog fallback chaos experiments",
	SilenceUsage: true,
	RunE:         runGameDay,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "storefront.yaml", "Path to the configuration file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().DurationVar(&latency, "latency", 0, "Injected remote latency (default: twice the catalog timeout)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGameDay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	faults := chaos.NewFaultTransport(nil)
	target := chaos.Target{
		Source:   app.NewCatalogSource(cfg.Catalog, faults, logger),
		Fallback: clients.NewStaticClient(cfg.Catalog.Fallback, nil),
		Faults:   faults,
	}

	slow := latency
	if slow == 0 {
		slow = 2 * cfg.Catalog.TimeoutDuration()
	}

	engine := chaos.NewEngine(logger)
	engine.RegisterExperiments(target, slow)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalog Game Day - %s\n", time.Now().Format(time.RFC1123))

	failed := 0
	for _, result := range engine.RunAll(cmd.Context()) {
		printResult(cmd, result)
		if !result.HypothesisHeld {
			failed++
		}
	}
	logger.Info("game day complete",
		zap.Int("experiments", len(engine.Experiments())),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("%d experiment(s) failed", failed)
	}
	return nil
}

func printResult(cmd *cobra.Command, r chaos.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n%s\n", r.ExperimentName, strings.Repeat("=", len(r.ExperimentName)))
	fmt.Fprintf(out, "Duration: %v\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Steady state valid: %v\n", r.SteadyStateValid)
	fmt.Fprintf(out, "Hypothesis held: %v\n", r.HypothesisHeld)

	for _, v := range r.Violations {
		fmt.Fprintf(out, "  violation: %s expected %.2f, got %.2f\n", v.MetricName, v.Expected, v.Actual)
	}
	for _, msg := range r.FailedAssertions {
		fmt.Fprintf(out, "  failed: %s\n", msg)
	}
	for _, e := range r.ErrorEvents {
		fmt.Fprintf(out, "  error [%s]: %s\n", e.Component, e.Error)
	}
}
