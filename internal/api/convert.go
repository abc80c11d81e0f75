package api

import (
	"time"

	"ishe/internal/journal"
	"ishe/internal/recordings"
)

// FromEntry converts a stored recording to its API representation.
func FromEntry(entry recordings.Entry) Recording {
	return Recording{
		Name:      entry.Name,
		Size:      entry.Size,
		ModTime:   formatTime(entry.ModTime),
		StartedAt: formatTime(entry.StartedAt),
	}
}

// FromEntries converts a listing, preserving order.
func FromEntries(entries []recordings.Entry) RecordingList {
	out := RecordingList{Recordings: make([]Recording, 0, len(entries))}
	for _, entry := range entries {
		out.Recordings = append(out.Recordings, FromEntry(entry))
	}
	return out
}

// FromJournal converts journal rows, preserving order.
func FromJournal(entries []journal.Entry) JournalList {
	out := JournalList{Entries: make([]JournalEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, JournalEntry{
			ID:        e.ID,
			Action:    string(e.Action),
			Name:      e.Name,
			Bytes:     e.Bytes,
			RequestID: e.RequestID,
			CreatedAt: formatTime(e.CreatedAt),
		})
	}
	return out
}

// ParseTime reads a timestamp produced by this package. Empty or malformed
// values yield the zero time.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(dateTimeFormat, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// FormatTime renders t in the API timestamp format, or "" for the zero time.
func FormatTime(t time.Time) string {
	return formatTime(t)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
