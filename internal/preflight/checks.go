package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"ishe/internal/client"
	"ishe/internal/config"
	"ishe/internal/journal"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckJournal opens the activity journal and reads its latest entry.
func CheckJournal(ctx context.Context, path string) Result {
	const name = "Activity journal"

	store, err := journal.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	if _, err := store.Recent(ctx, 1); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckServer verifies the recording server is reachable and accepts the token.
func CheckServer(ctx context.Context, baseURL, token string) Result {
	const name = "Recording server"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := client.New(baseURL, token)
	status, err := c.Status(checkCtx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (auth failed: check server.token)", c.BaseURL())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (unreachable: %v)", c.BaseURL(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d recordings)", c.BaseURL(), status.Recordings)}
}

// CheckCuePlayer resolves the configured cue command on PATH. The cue is
// best effort, so a missing player is reported but never fails preflight.
func CheckCuePlayer(cfg config.Cue) Result {
	const name = "Cue player"

	command := strings.TrimSpace(cfg.Command)
	if command == "" {
		return Result{Name: name, Optional: true, Detail: "cue.command not configured"}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%q not found on PATH; sessions start silently", command)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: path}
}
