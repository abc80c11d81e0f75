package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatBytes renders a size with thousands separators, switching to KiB/MiB
// once the value is large enough that exact bytes stop being useful.
func formatBytes(n int64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
	)
	switch {
	case n >= mib:
		return printer.Sprintf("%.1f MiB", float64(n)/mib)
	case n >= 10*kib:
		return printer.Sprintf("%.1f KiB", float64(n)/kib)
	default:
		return printer.Sprintf("%d B", n)
	}
}

func formatCount(n int, singular, plural string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, singular)
	}
	return printer.Sprintf("%d %s", n, plural)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
