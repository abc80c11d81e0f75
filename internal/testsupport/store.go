package testsupport

import (
	"testing"

	"ishe/internal/config"
	"ishe/internal/journal"
	"ishe/internal/logging"
	"ishe/internal/recordings"
)

// MustOpenJournal opens the journal at cfg.JournalPath and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenRecordings opens the recordings store rooted at cfg.Paths.RecordingsDir.
func MustOpenRecordings(t testing.TB, cfg *config.Config) *recordings.Store {
	t.Helper()

	store, err := recordings.Open(cfg.Paths.RecordingsDir, logging.NewNop())
	if err != nil {
		t.Fatalf("recordings.Open: %v", err)
	}
	return store
}
