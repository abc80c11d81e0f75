package export

import (
	"time"

	"ishe/internal/samplelog"
)

// Recording is a named CSV buffer derived from a session's samples. It is
// built on demand and handed to exactly one sink.
type Recording struct {
	Name string
	Data []byte
}

// NewRecording encodes samples for a session started at start.
func NewRecording(start time.Time, samples []samplelog.Sample) Recording {
	return Recording{Name: NameFor(start), Data: ToCSV(samples)}
}
