package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ishe/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

type configInitOptions struct {
	path      string
	overwrite bool
	stdout    bool
}

func newConfigInitCommand() *cobra.Command {
	var opts configInitOptions

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Long:        "Write the commented sample configuration to ~/.config/ishe/config.toml,\nto --path, or with --stdout to standard output.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.stdout {
				_, err := io.WriteString(out, config.Sample())
				return err
			}

			target, err := configInitTarget(opts.path)
			if err != nil {
				return err
			}
			if !opts.overwrite {
				_, statErr := os.Stat(target)
				switch {
				case statErr == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("inspect %s: %w", target, statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Next: set server.url and api_token, then run ishe doctor --server")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace an existing file")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print the sample instead of writing a file")
	return cmd
}

// configInitTarget expands path, falling back to the default config location.
func configInitTarget(path string) (string, error) {
	if path = strings.TrimSpace(path); path == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(path)
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found, using defaults)"
			}
			lo, hi := cfg.Session.MinValue, cfg.Session.MaxValue
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				[][]string{
					{"Config file", source},
					{"Recordings", cfg.Paths.RecordingsDir},
					{"Listen", cfg.Paths.APIBind},
					{"Server", cfg.Server.URL},
					{"Token set", yesNo(cfg.Server.Token != "")},
					{"Slider range", fmt.Sprintf("%d..%d", lo, hi)},
					{"Cue", cfg.Cue.Backend},
				},
				nil,
				[]string{"Configuration valid", ""},
			))
			return nil
		},
	}
}
