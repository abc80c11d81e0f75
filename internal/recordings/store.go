package recordings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"ishe/internal/export"
	"ishe/internal/fileutil"
	"ishe/internal/logging"
	"ishe/internal/services"
)

// LockFileName is the advisory lock file kept inside the recordings root.
const LockFileName = ".ishe.lock"

// BundleFileName is the default name of an archive produced by Bundle.
const BundleFileName = "recordings.zip"

const lockRetryDelay = 25 * time.Millisecond

// Entry describes one stored recording.
type Entry struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	StartedAt time.Time `json:"started_at,omitzero"`
}

// Store reads and mutates recordings under a single root directory.
type Store struct {
	root   string
	logger *slog.Logger

	mu   sync.Mutex
	lock *flock.Flock
}

// Open prepares a store rooted at root, creating the directory if needed.
func Open(root string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, services.Wrap(services.ErrValidation, "open recordings", "root directory is required", nil)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "open recordings", "resolve root", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "open recordings", "create root", err)
	}
	return &Store{
		root:   abs,
		logger: logging.NewComponentLogger(logger, "recordings"),
		lock:   flock.New(filepath.Join(abs, LockFileName)),
	}, nil
}

// Root returns the absolute recordings directory.
func (s *Store) Root() string {
	return s.root
}

// Entries returns every stored recording sorted by name. Names sort in
// start-time order because of their timestamp format.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "list recordings", "read directory", err)
	}
	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() || ValidateName(de.Name()) != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, services.Wrap(services.ErrIO, "list recordings", de.Name(), err)
		}
		entry := Entry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()}
		if started, err := export.ParseName(de.Name()); err == nil {
			entry.StartedAt = started
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// List returns stored recording names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// Read returns the bytes of one recording.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.existing(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, services.Wrap(services.ErrIO, "read recording", name, err)
	}
	return data, nil
}

// Save stores data under name, replacing any existing recording.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	path, err := resolve(s.root, name)
	if err != nil {
		return err
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrIO, "save recording", name, err)
	}
	s.logger.Info("recording saved",
		logging.String(logging.FieldRecording, name),
		logging.Int("bytes", len(data)),
	)
	return nil
}

// Delete removes exactly one recording.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	path, err := s.existing(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return services.Wrap(services.ErrIO, "delete recording", name, err)
	}
	s.logger.Info("recording deleted", logging.String(logging.FieldRecording, name))
	return nil
}

// Bundle archives every stored recording into one ZIP. Any unreadable file
// aborts the bundle.
func (s *Store) Bundle(ctx context.Context) ([]byte, []string, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	names, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	data, err := export.BundleZip(ctx, names, s.Read)
	if err != nil {
		s.logger.Warn("bundle aborted", logging.Error(err))
		return nil, nil, err
	}
	return data, names, nil
}

// existing resolves name and requires a regular file at the result.
func (s *Store) existing(name string) (string, error) {
	path, err := resolve(s.root, name)
	if err != nil {
		return "", err
	}
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", services.Wrap(services.ErrIO, "stat recording", name, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// acquire takes the in-process mutex and the cross-process directory lock.
func (s *Store) acquire(ctx context.Context) (func(), error) {
	s.mu.Lock()
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !ok {
		s.mu.Unlock()
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return nil, services.Wrap(services.ErrIO, "lock recordings", s.lock.Path(), err)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("release recordings lock failed", logging.Error(err))
		}
		s.mu.Unlock()
	}, nil
}
