package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/timelane-go/internal/config"
	"github.com/AntonStoeckl/timelane-go/internal/demo"
	"github.com/AntonStoeckl/timelane-go/internal/logging"
	"github.com/AntonStoeckl/timelane-go/timelane"
)

var rootCmd = &cobra.Command{
	Use:   "timelane-demo",
	Short: "timelane-demo reports reactive lanes to timelane sinks",
	Long: `timelane-demo subscribes a set of demo lanes and writes their timelane records to stdout,
Redis streams, Postgres, Prometheus and OpenTelemetry, as configured.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file, TIMELANE_* variables override it")
}

// setup loads and validates the config and creates the logger on stderr.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if err = cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}

	return cfg, logger, nil
}

func workloadOptions(cfg config.Config, logger *slog.Logger) (demo.WorkloadOptions, error) {
	filter, err := cfg.Filter()
	if err != nil {
		return demo.WorkloadOptions{}, err
	}

	return demo.WorkloadOptions{
		Values:   10,
		Interval: 50 * time.Millisecond,
		Filter:   filter,
		Source:   cfg.Lane.Source,
		Registry: timelane.NewRegistry(),
		Logger:   logger,
		Faults: func(err error) {
			logger.Warn("lane fault", "error", err.Error())
		},
	}, nil
}
