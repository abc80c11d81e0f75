// Package services defines shared helpers consumed by the recording store,
// the session controller, and the recording server.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap and Kind helpers that let the
//     HTTP layer and the CLI classify failures (validation, not found, io,
//     archive, audio) without string matching.
package services
