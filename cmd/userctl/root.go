package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"frontuser/internal/app"
	"frontuser/internal/config"
	appctx "frontuser/internal/core/context"
	"frontuser/pkg/logger"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "userctl",
		Short:         "Inspect, seed and audit frontuser accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newWhoamiCmd(), newSeedCmd(), newEventsCmd())
	return rootCmd
}

// openApp loads configuration from the persistent flags and wires the
// application. The returned context carries the CLI logger.
func openApp(cmd *cobra.Command) (context.Context, *app.App, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Config{
		Level:       logLevel,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	ctx := logger.WithLogger(cmd.Context(), log)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())
	application, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, application, nil
}
