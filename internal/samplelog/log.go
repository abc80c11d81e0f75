package samplelog

import "time"

// Sample is one slider reading: milliseconds since session start and the
// slider value at that moment.
type Sample struct {
	ElapsedMS int64
	Value     int16
}

// Log is an append-only sequence of samples for one session.
type Log struct {
	startedAt time.Time
	samples   []Sample
}

// New returns an empty log with no start time.
func New() *Log {
	return &Log{}
}

// Start records the session start time and discards any prior samples.
func (l *Log) Start(now time.Time) {
	l.startedAt = now
	l.samples = nil
}

// StartedAt returns the time passed to the most recent Start.
func (l *Log) StartedAt() time.Time {
	return l.startedAt
}

// Elapsed returns whole milliseconds between the session start and now.
func (l *Log) Elapsed(now time.Time) int64 {
	return now.Sub(l.startedAt).Milliseconds()
}

// Append adds one sample at the end of the log.
func (l *Log) Append(elapsedMS int64, value int16) {
	l.samples = append(l.samples, Sample{ElapsedMS: elapsedMS, Value: value})
}

// Clear empties the log. The start time is kept.
func (l *Log) Clear() {
	l.samples = nil
}

// Len reports the number of samples.
func (l *Log) Len() int {
	return len(l.samples)
}

// Snapshot returns a copy of the samples in insertion order.
func (l *Log) Snapshot() []Sample {
	out := make([]Sample, len(l.samples))
	copy(out, l.samples)
	return out
}
