package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/timelane-go/internal/demo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo HTTP server",
	Long:  `Serves health, Prometheus metrics, stored records and on-demand workload runs over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		options, err := workloadOptions(cfg, logger)
		if err != nil {
			return err
		}

		stack, err := demo.Build(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           demo.NewRouter(stack, options, logger),
			ReadHeaderTimeout: cfg.Server.ShutdownTimeout,
		}

		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("timelane demo server listening", "addr", srv.Addr, "run_id", stack.RunID.String())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		var serveErr error

		select {
		case serveErr = <-serverErrors:
			if errors.Is(serveErr, http.ErrServerClosed) {
				serveErr = nil
			}

		case sig := <-shutdown:
			logger.Info("timelane demo server shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err = srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout.String(), "error", err.Error())
				serveErr = errors.Join(err, srv.Close())
			}
		}

		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return errors.Join(serveErr, stack.Close(closeCtx))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on, overrides server.addr")
}
