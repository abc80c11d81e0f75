package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ishe/internal/cue"
	"ishe/internal/logging"
	"ishe/internal/session"
)

const recordHelp = `Enter slider values as integers, one per line. Commands:
  start     begin a new session (after restart)
  end       stop recording and review
  resume    continue recording after end
  save      write the recording to the recordings directory
  upload    send the recording to the server
  restart   discard the session and return to idle
  status    show the session state
  quit      leave without saving`

type recordOptions struct {
	saveOnExit   bool
	uploadOnExit bool
	noCue        bool
}

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var opts recordOptions

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a slider session from standard input",
		Long:  "Start a session and read slider values from standard input.\n\n" + recordHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, ctx, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.saveOnExit, "save", false, "Save the recording locally when input ends")
	cmd.Flags().BoolVar(&opts.uploadOnExit, "upload", false, "Upload the recording when input ends")
	cmd.Flags().BoolVar(&opts.noCue, "no-cue", false, "Skip the audio cue at session start")
	return cmd
}

// recorder binds a session controller to the sinks a recording can go to.
type recorder struct {
	cmd  *cobra.Command
	cctx *commandContext
	ctrl *session.Controller
	out  io.Writer
	errs io.Writer
}

func runRecord(cmd *cobra.Command, cctx *commandContext, opts recordOptions) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	logger := cctx.fileLogger()

	var player cue.Player = cue.Nop{}
	if !opts.noCue {
		player = cue.FromConfig(cfg.Cue)
	}
	rec := &recorder{
		cmd:  cmd,
		cctx: cctx,
		ctrl: session.New(session.Options{
			Player: player,
			Logger: logger,
			Min:    cfg.Session.MinValue,
			Max:    cfg.Session.MaxValue,
		}),
		out:  cmd.OutOrStdout(),
		errs: cmd.ErrOrStderr(),
	}

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	if err := rec.ctrl.Start(runCtx); err != nil {
		return err
	}
	defer rec.ctrl.WaitCue()
	lo, hi := rec.ctrl.Range()
	fmt.Fprintf(rec.out, "Recording started (range %d..%d). Type help for commands.\n", lo, hi)

	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprintf(rec.out, "%s> ", rec.ctrl.State())
		}
		if !scanner.Scan() {
			break
		}
		if runCtx.Err() != nil {
			return runCtx.Err()
		}
		quit, err := rec.handle(runCtx, strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintf(rec.errs, "error: %v\n", err)
			logger.Debug("record command rejected", logging.Error(err))
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return rec.finish(runCtx, opts)
}

// handle applies one input line. It reports true when the user asked to quit.
func (r *recorder) handle(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	if value, err := strconv.Atoi(line); err == nil {
		return false, r.ctrl.Slide(value)
	}
	if _, err := strconv.ParseFloat(line, 64); err == nil {
		return false, fmt.Errorf("%w: slider values are integers, got %q", session.ErrValueOutOfRange, line)
	}

	switch strings.ToLower(line) {
	case "start":
		if err := r.ctrl.Start(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "Recording started")
	case "end":
		if err := r.ctrl.End(); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Recording ended with %s\n", formatCount(r.ctrl.Len(), "sample", "samples"))
	case "resume":
		if err := r.ctrl.Resume(); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "Recording resumed")
	case "save":
		return false, r.save(ctx)
	case "upload":
		return false, r.upload(ctx)
	case "restart":
		_ = r.ctrl.Restart()
		fmt.Fprintln(r.out, "Session discarded; type start to begin again")
	case "status":
		fmt.Fprintf(r.out, "%s, %s\n", r.ctrl.State(), formatCount(r.ctrl.Len(), "sample", "samples"))
	case "help", "?":
		fmt.Fprintln(r.out, recordHelp)
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (type help)", line)
	}
	return false, nil
}

func (r *recorder) save(ctx context.Context) error {
	recording, err := r.ctrl.Recording()
	if err != nil {
		return err
	}
	store, err := r.cctx.openStore()
	if err != nil {
		return err
	}
	if err := store.Save(r.ctrl.Context(ctx), recording.Name, recording.Data); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved %s (%s)\n", recording.Name, formatBytes(int64(len(recording.Data))))
	return nil
}

func (r *recorder) upload(ctx context.Context) error {
	recording, err := r.ctrl.Recording()
	if err != nil {
		return err
	}
	remote, err := r.cctx.remote()
	if err != nil {
		return err
	}
	if err := remote.Upload(r.ctrl.Context(ctx), recording.Name, recording.Data); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Uploaded %s to %s\n", recording.Name, remote.BaseURL())
	return nil
}

// finish runs the sinks requested by flags once input is exhausted.
func (r *recorder) finish(ctx context.Context, opts recordOptions) error {
	if r.ctrl.State() == session.Idle {
		return nil
	}
	var errs []error
	if opts.saveOnExit {
		errs = append(errs, r.save(ctx))
	}
	if opts.uploadOnExit {
		errs = append(errs, r.upload(ctx))
	}
	if !opts.saveOnExit && !opts.uploadOnExit && r.ctrl.Len() > 0 {
		fmt.Fprintf(r.errs, "Discarded %s (use save, or pass --save/--upload)\n", formatCount(r.ctrl.Len(), "sample", "samples"))
	}
	return errors.Join(errs...)
}
