package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"ishe/internal/config"
	"ishe/internal/journal"
	"ishe/internal/logging"
	"ishe/internal/recordings"
)

// ErrAlreadyRunning is returned when another daemon holds the lock.
var ErrAlreadyRunning = errors.New("another ished instance is already running")

const shutdownTimeout = 5 * time.Second

// Daemon owns the recordings store, the journal, and the HTTP listener, and
// enforces single-instance execution through a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	running  bool
	journal  *journal.Store
	listener net.Listener
	httpSrv  *http.Server
	serveErr chan error
}

// NewDaemon prepares a daemon for cfg. Nothing is opened until Start.
func NewDaemon(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the lock, opens storage, and begins serving.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	if err := d.open(ctx); err != nil {
		d.releaseLocked()
		return err
	}

	d.running = true
	d.logger.Info("ished started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.listener.Addr().String()),
		logging.String("recordings_dir", d.cfg.Paths.RecordingsDir),
	)
	return nil
}

func (d *Daemon) open(ctx context.Context) error {
	store, err := recordings.Open(d.cfg.Paths.RecordingsDir, d.logger)
	if err != nil {
		return err
	}
	jr, err := journal.Open(d.cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	d.journal = jr

	bind := strings.TrimSpace(d.cfg.Paths.APIBind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	d.listener = listener

	srv := New(Options{
		Store:       store,
		Journal:     jr,
		Logger:      d.logger,
		Token:       d.cfg.Paths.APIToken,
		UploadLimit: d.cfg.Server.UploadLimitBytes,
	})
	d.httpSrv = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	d.serveErr = make(chan error, 1)
	go func(hs *http.Server, ln net.Listener, errs chan<- error) {
		err := hs.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errs <- err
	}(d.httpSrv, listener, d.serveErr)
	return nil
}

// Addr returns the bound listener address, or "" when not running.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// LockPath returns the single-instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Stop shuts the listener down gracefully and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	if d.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := d.httpSrv.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("api shutdown incomplete", logging.Error(err))
		}
		cancel()
	}
	d.releaseLocked()
	d.running = false
	d.logger.Info("ished stopped")
}

func (d *Daemon) releaseLocked() {
	if d.listener != nil {
		_ = d.listener.Close()
		d.listener = nil
	}
	d.httpSrv = nil
	if d.journal != nil {
		if err := d.journal.Close(); err != nil {
			d.logger.Warn("close journal failed", logging.Error(err))
		}
		d.journal = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Run starts the daemon and blocks until ctx is cancelled or the listener
// fails.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	serveErr := d.serveErr
	d.mu.Unlock()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			err = fmt.Errorf("api server: %w", err)
		}
	}
	d.Stop()
	return err
}
