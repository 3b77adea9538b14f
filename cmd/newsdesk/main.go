package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsDesk/internal/app"
	"NewsDesk/internal/config"
	"NewsDesk/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "News curation for an accounting-firm audience",
	Long: "newsdesk collects Korean news candidates, filters and judges them,\n" +
		"resolves duplicates, and delivers a ranked digest.",
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one curation pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, logger, err := buildApplication(ctx)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.RunOnce(ctx); err != nil {
			logger.Error("curation run failed", "error", err)
			return err
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with scheduled curation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, logger, err := buildApplication(ctx)
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Serve(ctx); err != nil {
			logger.Error("server stopped", "error", err)
			return err
		}
		return nil
	},
}

func buildApplication(ctx context.Context) (*app.Application, *slog.Logger, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize application: %w", err)
	}
	return application, logger, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
