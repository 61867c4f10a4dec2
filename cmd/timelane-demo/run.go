package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/timelane-go/internal/config"
	"github.com/AntonStoeckl/timelane-go/internal/demo"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo workload once",
	Long: `Runs every demo lane once against the configured sinks, drains the buffered sinks and
prints the run id, which tail accepts as --run-id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		options, err := workloadOptions(cfg, logger)
		if err != nil {
			return err
		}

		options.Values, _ = cmd.Flags().GetInt("values")
		options.Interval, _ = cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stack, err := demo.Build(ctx, cfg, logger, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		runErr := demo.RunWorkload(ctx, stack.Sink, options)

		if cfg.Metrics.Backend == config.MetricsOTel {
			if err = stack.Telemetry.LogMetrics(ctx); err != nil {
				logger.Error("collecting metrics failed", "error", err.Error())
			}
		}

		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err = stack.Close(closeCtx); err != nil {
			return err
		}

		if runErr != nil {
			return runErr
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "run id: %s\n", stack.RunID)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("values", 10, "Number of values the numbers lane emits")
	runCmd.Flags().Duration("interval", 50*time.Millisecond, "Interval between ticks of the ticks lane")
}
