// Package export turns a session's samples into a named CSV recording and
// packages several recordings into one ZIP archive.
//
// Recordings are CSV without a header, one "elapsed,value" line per sample.
// File names encode the session start time in UTC with millisecond
// precision, so sessions started at different milliseconds never collide and
// names sort chronologically.
package export
