package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/timelane-go/internal/config"
	"github.com/AntonStoeckl/timelane-go/internal/demo"
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print stored timelane records",
	Long:  `Reads the records stored in Redis or Postgres and prints one "<signpost> <message>" line per record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		from, _ := cmd.Flags().GetString("from")
		lane, _ := cmd.Flags().GetString("lane")
		limit, _ := cmd.Flags().GetInt("limit")
		rawRunID, _ := cmd.Flags().GetString("run-id")

		q := demo.Query{From: from, Lane: lane, Limit: limit}
		if rawRunID != "" {
			if q.RunID, err = uuid.Parse(rawRunID); err != nil {
				return err
			}
		}

		// only the store to read from is opened, and nothing is reported to the other sinks
		cfg.Stdout = false
		cfg.Tracing.Enabled = false
		cfg.Metrics.Backend = config.MetricsNone
		cfg.Redis.Enabled = cfg.Redis.Enabled && from == demo.StoreRedis
		cfg.Postgres.Enabled = cfg.Postgres.Enabled && from == demo.StorePostgres

		stack, err := demo.Build(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() { _ = stack.Close(context.Background()) }()

		entries, err := stack.Read(cmd.Context(), q)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", entry.Signpost, entry.Message)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().String("from", demo.StoreRedis, "Record store to read: redis or postgres")
	tailCmd.Flags().String("run-id", "", "Only records of this run")
	tailCmd.Flags().String("lane", "", "Only records of this lane")
	tailCmd.Flags().Int("limit", 0, "Maximum number of records, 0 reads all")
}
