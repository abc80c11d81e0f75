// Package session drives one recording session through its lifecycle:
// Idle, Recording, Review, and back to Idle on restart.
//
// A Controller owns its sample log outright and is meant to be driven from a
// single goroutine, the CLI event loop. It carries no locks.
package session
