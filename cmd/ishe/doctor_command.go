package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ishe/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var checkServer bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, dependencies, and server reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, checkServer)

			out := cmd.OutOrStdout()
			writeCheckResults(out, results, isTerminal(out))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%s failed", formatCount(len(failed), "check", "checks"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkServer, "server", false, "Also check the configured server")
	return cmd
}
