// Package ws serves the bidirectional session stream: clients send
// spawn/write/resize/kill frames and receive pty:data and pty:exit
// events for every session in the process.
package ws
