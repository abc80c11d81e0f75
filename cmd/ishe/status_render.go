package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"ishe/internal/preflight"
)

// checkOutcome grades a preflight result for display. Optional checks that
// fail are warnings, never errors.
type checkOutcome int

const (
	outcomePass checkOutcome = iota
	outcomeWarn
	outcomeFail
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func outcomeOf(r preflight.Result) checkOutcome {
	switch {
	case r.Passed:
		return outcomePass
	case r.Optional:
		return outcomeWarn
	default:
		return outcomeFail
	}
}

func (o checkOutcome) label() string {
	return [...]string{"OK", "WARN", "FAIL"}[o]
}

func (o checkOutcome) color() string {
	return [...]string{ansiGreen, ansiYellow, ansiRed}[o]
}

// renderCheck formats one result as "  [OK]   Name    detail", padding the
// name to width so details line up.
func renderCheck(r preflight.Result, width int, colorize bool) string {
	o := outcomeOf(r)
	tag := fmt.Sprintf("%-6s", "["+o.label()+"]")
	if colorize {
		tag = o.color() + tag + ansiReset
	}
	line := fmt.Sprintf("  %s %-*s", tag, width, r.Name)
	if r.Detail != "" {
		line += "  " + r.Detail
	}
	return strings.TrimRight(line, " ")
}

// writeCheckResults prints every result followed by a tally line.
func writeCheckResults(out io.Writer, results []preflight.Result, colorize bool) {
	width := 0
	for _, r := range results {
		width = max(width, len(r.Name))
	}
	var tally [3]int
	for _, r := range results {
		tally[outcomeOf(r)]++
		fmt.Fprintln(out, renderCheck(r, width, colorize))
	}
	fmt.Fprintf(out, "\n%d passed, %d warnings, %d failed\n", tally[outcomePass], tally[outcomeWarn], tally[outcomeFail])
}

// isTerminal reports whether stream is an interactive terminal. Streams that
// are not files, such as test buffers, never are.
func isTerminal(stream any) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
