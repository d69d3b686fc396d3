// Package terminal manages PTY-backed shell sessions.
//
// Each session owns a pseudo-terminal master, the child process started
// on its slave side, and two goroutines: a reader streaming output as
// data events, and a waiter that reaps the process, emits the single
// exit event, and removes the session. Per session, data events arrive
// in read order and the exit event is always last. Events across
// different sessions are not ordered relative to each other.
package terminal
