// Package client talks to a running ished over its HTTP API. It is what the
// CLI uses for upload, remote listing, remote deletion, and bundle download.
//
// Server error statuses are mapped back onto the recordings sentinels, so
// callers can use errors.Is(err, recordings.ErrInvalidName) regardless of
// whether the store was local or remote.
package client
