// Package preflight provides readiness checks for the filesystem paths,
// external binaries, and recording server that ishe depends on.
//
// The CLI "ishe doctor" command runs RunAll and renders the results. ished
// runs the directory checks at startup and refuses to serve when the
// recordings directory is unusable.
//
// The cue player is optional: a missing player degrades to a silent start
// and is reported as a warning, not a failure.
package preflight
