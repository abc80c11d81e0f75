// Package main implements the ishe command-line client.
//
// The record command drives a slider session from standard input and saves or
// uploads the finished recording. The remaining commands manage recordings in
// the local recordings directory or, with --remote, on a recording server
// reached over HTTP. serve runs that server in the foreground; ished is the
// standalone daemon build of the same server.
package main
