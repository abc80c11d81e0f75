// Package recordings owns the flat directory of recording CSV files that the
// server exposes. Every externally supplied name passes through ValidateName
// before it touches the filesystem, so a request can never reach outside the
// recordings root.
package recordings
