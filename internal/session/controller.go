package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"ishe/internal/cue"
	"ishe/internal/export"
	"ishe/internal/logging"
	"ishe/internal/samplelog"
	"ishe/internal/services"
)

const (
	DefaultMin = -100
	DefaultMax = 100
)

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Clock  func() time.Time
	Player cue.Player
	Logger *slog.Logger
	Min    int
	Max    int
	// NewID generates session identifiers. Defaults to uuid.NewString.
	NewID func() string
}

// Controller is the session state machine around one sample log.
type Controller struct {
	clock  func() time.Time
	player cue.Player
	logger *slog.Logger
	newID  func() string
	min    int
	max    int

	log   *samplelog.Log
	state State
	id    string
	cues  sync.WaitGroup
}

// New builds an idle controller.
func New(opts Options) *Controller {
	c := &Controller{
		clock:  opts.Clock,
		player: opts.Player,
		logger: logging.NewComponentLogger(opts.Logger, "session"),
		newID:  opts.NewID,
		min:    opts.Min,
		max:    opts.Max,
		log:    samplelog.New(),
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.player == nil {
		c.player = cue.Nop{}
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.min == 0 && c.max == 0 {
		c.min, c.max = DefaultMin, DefaultMax
	}
	c.min = max(c.min, math.MinInt16)
	c.max = min(c.max, math.MaxInt16)
	return c
}

// State reports the current lifecycle state.
func (c *Controller) State() State { return c.state }

// ID returns the identifier of the current session, or "" before Start.
func (c *Controller) ID() string { return c.id }

// Range returns the accepted slider bounds, inclusive.
func (c *Controller) Range() (int, int) { return c.min, c.max }

// StartedAt returns the start time of the current session.
func (c *Controller) StartedAt() time.Time { return c.log.StartedAt() }

// Len reports the number of recorded samples.
func (c *Controller) Len() int { return c.log.Len() }

// Samples returns a copy of the recorded samples in arrival order.
func (c *Controller) Samples() []samplelog.Sample { return c.log.Snapshot() }

// Context annotates ctx with the current session identifier.
func (c *Controller) Context(ctx context.Context) context.Context {
	return services.WithSessionID(ctx, c.id)
}

// Start begins a new session from Idle. The start cue plays in the
// background; its failure is logged and never affects the session.
func (c *Controller) Start(ctx context.Context) error {
	if c.state != Idle {
		return transitionError("start", c.state)
	}
	c.log.Start(c.clock())
	c.id = c.newID()
	c.state = Recording

	ctx = c.Context(ctx)
	logging.WithContext(ctx, c.logger).Info("session started",
		logging.String("started_at", export.NameFor(c.log.StartedAt())),
	)

	c.cues.Go(func() {
		cue.PlayBestEffort(ctx, c.player, c.logger)
	})
	return nil
}

// WaitCue blocks until every start cue played so far has finished,
// including those of sessions discarded by Restart.
func (c *Controller) WaitCue() {
	c.cues.Wait()
}

// Slide records value at the current elapsed time.
func (c *Controller) Slide(value int) error {
	if c.state != Recording {
		return fmt.Errorf("%w (state %s)", ErrNotRecording, c.state)
	}
	if value < c.min || value > c.max {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrValueOutOfRange, value, c.min, c.max)
	}
	c.log.Append(c.log.Elapsed(c.clock()), int16(value))
	return nil
}

// End stops taking samples and moves to Review.
func (c *Controller) End() error {
	if c.state != Recording {
		return transitionError("end", c.state)
	}
	c.state = Review
	c.logger.Info("session ended",
		logging.String(logging.FieldSessionID, c.id),
		logging.Int("samples", c.log.Len()),
	)
	return nil
}

// Resume returns from Review to Recording with the log intact.
func (c *Controller) Resume() error {
	if c.state != Review {
		return transitionError("resume", c.state)
	}
	c.state = Recording
	return nil
}

// Restart discards the samples and returns to Idle.
func (c *Controller) Restart() error {
	if c.state != Idle {
		c.logger.Info("session discarded",
			logging.String(logging.FieldSessionID, c.id),
			logging.Int("samples", c.log.Len()),
		)
	}
	c.log.Clear()
	c.id = ""
	c.state = Idle
	return nil
}

// Recording encodes the current samples, named after the session start.
func (c *Controller) Recording() (export.Recording, error) {
	if c.state == Idle {
		return export.Recording{}, ErrNoSession
	}
	return export.NewRecording(c.log.StartedAt(), c.log.Snapshot()), nil
}
