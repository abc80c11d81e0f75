// Command ished runs the recording server as a long-lived daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ishe/internal/config"
	"ishe/internal/logging"
	"ishe/internal/preflight"
	"ishe/internal/server"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "ished",
		Short:         "Serve recordings over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if check := preflight.CheckDirectoryAccess("Recordings directory", cfg.Paths.RecordingsDir); !check.Passed {
		logger.Error("preflight failed", logging.String("check", check.Name), logging.String("detail", check.Detail))
		return fmt.Errorf("%s: %s", check.Name, check.Detail)
	}

	d, err := server.NewDaemon(cfg, logger)
	if err != nil {
		return err
	}
	err = d.Run(ctx)
	if errors.Is(err, server.ErrAlreadyRunning) {
		return fmt.Errorf("%w (lock %s)", err, d.LockPath())
	}
	if err == nil {
		logger.Info("ished shutting down")
	}
	return err
}
