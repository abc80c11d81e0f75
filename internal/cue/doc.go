// Package cue synthesizes and plays the short audio cue that marks the start
// of a recording session.
//
// Playback is best effort. A machine without an audio device, or without the
// configured player binary, still records; the failure is logged as a
// PlatformAudioError and the session carries on.
package cue
