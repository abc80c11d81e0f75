package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ishe/internal/logging"
	"ishe/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recording server in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Paths.APIBind = bind
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			d, err := server.NewDaemon(cfg, logger)
			if err != nil {
				return err
			}
			if err := d.Run(cmd.Context()); err != nil {
				if errors.Is(err, server.ErrAlreadyRunning) {
					return fmt.Errorf("%w (lock %s)", err, d.LockPath())
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the listen address (host:port)")
	return cmd
}
