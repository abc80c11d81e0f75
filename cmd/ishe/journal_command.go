package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ishe/internal/api"
	"ishe/internal/journal"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		remote bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent server mutations",
		Long:  "Show recent uploads, deletions, and bundle downloads recorded by the server.\nWithout --remote the local server's journal file is read directly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list api.JournalList
			if remote {
				c, err := ctx.remote()
				if err != nil {
					return err
				}
				entries, err := c.Journal(cmd.Context(), limit)
				if err != nil {
					return err
				}
				list.Entries = entries
			} else {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				store, err := journal.Open(cfg.JournalPath())
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer store.Close()
				entries, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				list = api.FromJournal(entries)
			}

			if asJSON {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list.Entries) == 0 {
				fmt.Fprintln(out, "No journal entries")
				return nil
			}
			fmt.Fprintln(out, renderJournalTable(list.Entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", journal.DefaultLimit, "Maximum entries to show")
	cmd.Flags().BoolVar(&remote, "remote", false, "Read the journal from the server")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderJournalTable(entries []api.JournalEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			formatTimestamp(api.ParseTime(e.CreatedAt)),
			titleCase(e.Action),
			name,
			formatBytes(e.Bytes),
		})
	}
	return renderTable(
		[]string{"ID", "Time", "Action", "Name", "Bytes"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		nil,
	)
}
