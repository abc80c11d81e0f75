// Package api defines the wire-format types shared by the recording server
// and its HTTP client.
//
// DTOs use camelCase JSON tags. Timestamps are RFC3339 with milliseconds in
// UTC. Recording names are passed through unchanged; the server validates
// them before touching storage.
package api
