package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Status summarizes a running recording server.
type Status struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	StartedAt     string         `json:"startedAt,omitempty"`
	RecordingsDir string         `json:"recordingsDir"`
	Recordings    int            `json:"recordings"`
	TotalBytes    int64          `json:"totalBytes"`
	Activity      map[string]int `json:"activity,omitempty"`
}

// Recording describes one stored recording.
type Recording struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	ModTime   string `json:"modTime,omitempty"`
	StartedAt string `json:"startedAt,omitempty"`
}

// RecordingList is the response body of GET /api/recordings.
type RecordingList struct {
	Recordings []Recording `json:"recordings"`
}

// Names returns the recording names in response order.
func (l RecordingList) Names() []string {
	names := make([]string, len(l.Recordings))
	for i, rec := range l.Recordings {
		names[i] = rec.Name
	}
	return names
}

// JournalEntry is one recorded server mutation.
type JournalEntry struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	Name      string `json:"name,omitempty"`
	Bytes     int64  `json:"bytes"`
	RequestID string `json:"requestId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// JournalList is the response body of GET /api/journal.
type JournalList struct {
	Entries []JournalEntry `json:"entries"`
}

// KindInvalidName marks an Error caused by a rejected recording name, as
// opposed to other validation failures such as a malformed upload body.
const KindInvalidName = "invalid_name"

// Error is the body of every non-2xx JSON response.
type Error struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}
