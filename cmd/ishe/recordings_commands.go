package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ishe/internal/api"
	"ishe/internal/fileutil"
	"ishe/internal/recordings"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var remote, asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recordings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list api.RecordingList
			if remote {
				c, err := ctx.remote()
				if err != nil {
					return err
				}
				recs, err := c.List(cmd.Context())
				if err != nil {
					return err
				}
				list.Recordings = recs
			} else {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				entries, err := store.Entries(cmd.Context())
				if err != nil {
					return err
				}
				list = api.FromEntries(entries)
			}

			if asJSON {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list.Recordings) == 0 {
				fmt.Fprintln(out, "No recordings")
				return nil
			}
			fmt.Fprintln(out, renderRecordingTable(list.Recordings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "List recordings on the server")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderRecordingTable(recs []api.Recording) string {
	rows := make([][]string, 0, len(recs))
	var total int64
	for _, rec := range recs {
		total += rec.Size
		rows = append(rows, []string{
			rec.Name,
			formatTimestamp(api.ParseTime(rec.StartedAt)),
			formatBytes(rec.Size),
		})
	}
	footer := []string{formatCount(len(recs), "recording", "recordings"), "", formatBytes(total)}
	return renderTable(
		[]string{"Name", "Started", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
		footer,
	)
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:     "delete NAME...",
		Aliases: []string{"rm"},
		Short:   "Delete recordings by name",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var remove func(name string) error
			if remote {
				c, err := ctx.remote()
				if err != nil {
					return err
				}
				remove = func(name string) error { return c.Delete(cmd.Context(), name) }
			} else {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				remove = func(name string) error { return store.Delete(cmd.Context(), name) }
			}

			var errs []error
			for _, name := range args {
				if err := remove(name); err != nil {
					errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
					continue
				}
				fmt.Fprintf(out, "Deleted %s\n", name)
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Delete from the server")
	return cmd
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "upload [FILE...]",
		Short: "Upload recordings to the server",
		Long:  "Upload CSV recordings to the server. Each file is stored under its base name.\nWith --all, every recording in the recordings directory is uploaded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass recording files or --all, not both")
			}
			c, err := ctx.remote()
			if err != nil {
				return err
			}

			type pending struct {
				name string
				read func() ([]byte, error)
			}
			var files []pending
			if all {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				names, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					files = append(files, pending{name: name, read: func() ([]byte, error) { return store.Read(cmd.Context(), name) }})
				}
			} else {
				for _, path := range args {
					files = append(files, pending{name: filepath.Base(path), read: func() ([]byte, error) { return os.ReadFile(path) }})
				}
			}

			out := cmd.OutOrStdout()
			var errs []error
			for _, f := range files {
				data, err := f.read()
				if err == nil {
					err = c.Upload(cmd.Context(), f.name, data)
				}
				if err != nil {
					errs = append(errs, fmt.Errorf("upload %s: %w", f.name, err))
					continue
				}
				fmt.Fprintf(out, "Uploaded %s (%s)\n", f.name, formatBytes(int64(len(data))))
			}
			if all && len(files) == 0 {
				fmt.Fprintln(out, "No recordings to upload")
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Upload every local recording")
	return cmd
}

func newDownloadAllCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var remote bool

	cmd := &cobra.Command{
		Use:   "download-all",
		Short: "Bundle every recording into a ZIP archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data  []byte
				count = -1
			)
			if remote {
				c, err := ctx.remote()
				if err != nil {
					return err
				}
				if data, err = c.Bundle(cmd.Context()); err != nil {
					return err
				}
			} else {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				var names []string
				if data, names, err = store.Bundle(cmd.Context()); err != nil {
					return err
				}
				count = len(names)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = recordings.BundleFileName
			}
			if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
				return fmt.Errorf("write archive: %w", err)
			}
			out := cmd.OutOrStdout()
			if count >= 0 {
				fmt.Fprintf(out, "Wrote %s with %s (%s)\n", target, formatCount(count, "recording", "recordings"), formatBytes(int64(len(data))))
			} else {
				fmt.Fprintf(out, "Wrote %s (%s)\n", target, formatBytes(int64(len(data))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Archive path (default recordings.zip)")
	cmd.Flags().BoolVar(&remote, "remote", false, "Download the archive from the server")
	return cmd
}
