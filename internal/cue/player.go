package cue

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"ishe/internal/config"
	"ishe/internal/logging"
	"ishe/internal/services"
)

// Player plays the session start cue.
type Player interface {
	Play(ctx context.Context) error
}

// PlatformAudioError reports that the host could not play the cue.
type PlatformAudioError struct {
	Backend string
	Err     error
}

func (e *PlatformAudioError) Error() string {
	return fmt.Sprintf("audio cue via %s: %v", e.Backend, e.Err)
}

func (e *PlatformAudioError) Unwrap() error { return e.Err }

func (e *PlatformAudioError) ErrorKind() string { return "audio" }

func (e *PlatformAudioError) Is(target error) bool { return target == services.ErrAudio }

// Nop never makes a sound.
type Nop struct{}

func (Nop) Play(context.Context) error { return nil }

// CommandPlayer pipes a synthesized WAV into an external player's stdin.
type CommandPlayer struct {
	Command string
	Args    []string
	Pattern Pattern

	lookPath func(string) (string, error)
}

// NewCommandPlayer builds a player around command, typically "aplay".
func NewCommandPlayer(command string, args []string) *CommandPlayer {
	return &CommandPlayer{
		Command:  command,
		Args:     append([]string(nil), args...),
		Pattern:  StartPattern,
		lookPath: exec.LookPath,
	}
}

// Play blocks until the player exits.
func (p *CommandPlayer) Play(ctx context.Context) error {
	command := strings.TrimSpace(p.Command)
	if command == "" {
		return &PlatformAudioError{Backend: "command", Err: errors.New("player command not configured")}
	}
	lookPath := p.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	binary, err := lookPath(command)
	if err != nil {
		return &PlatformAudioError{Backend: command, Err: err}
	}

	cmd := exec.CommandContext(ctx, binary, p.Args...)
	cmd.Stdin = bytes.NewReader(Synthesize(p.Pattern))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return &PlatformAudioError{Backend: command, Err: err}
	}
	return nil
}

// FromConfig selects the player named by the [cue] section.
func FromConfig(cfg config.Cue) Player {
	switch cfg.Backend {
	case config.CueBackendNone:
		return Nop{}
	default:
		return NewCommandPlayer(cfg.Command, cfg.Args)
	}
}

// PlayBestEffort plays the cue and logs any failure at WARN. It never fails.
func PlayBestEffort(ctx context.Context, player Player, logger *slog.Logger) {
	if player == nil {
		return
	}
	if err := player.Play(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.WithContext(ctx, logging.NewComponentLogger(logger, "cue")).Warn("audio cue unavailable",
			logging.Error(err),
			logging.String("error_kind", services.Kind(err)),
		)
	}
}
