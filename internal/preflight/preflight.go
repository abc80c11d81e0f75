package preflight

import (
	"context"

	"ishe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
// The server check is skipped when checkServer is false.
func RunAll(ctx context.Context, cfg *config.Config, checkServer bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Recordings directory", cfg.Paths.RecordingsDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckJournal(ctx, cfg.JournalPath()),
	}

	if cfg.Cue.Backend == config.CueBackendCommand {
		results = append(results, CheckCuePlayer(cfg.Cue))
	}

	if checkServer {
		results = append(results, CheckServer(ctx, cfg.Server.URL, cfg.Server.Token))
	}
	return results
}

// Failed returns the results that failed and are not optional.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
