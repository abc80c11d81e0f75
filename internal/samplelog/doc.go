// Package samplelog holds the ordered (elapsed, value) samples captured during
// one recording session.
//
// A Log is owned by a single session controller and mutated only from that
// controller's event loop; it carries no locks. Snapshot hands out a copy so
// exporters never observe later appends.
package samplelog
