// Package main is the entry point for the xTerm backend server.
//
// The backend is the local companion process of the xTerm desktop
// client. It owns the PTY session registry, the host database, and the
// settings store, and exposes them over a small HTTP API plus a
// WebSocket event stream bound to loopback by default.
//
// The server provides:
//   - PTY session spawn, write, resize, and kill
//   - WebSocket streaming of terminal output and exit events
//   - Host persistence with keychain-backed passwords
//   - ssh_config generation and import scanning
//   - WebDAV push and pull sync
//   - Remote host probing over the system ssh client
//
// Configuration comes from environment variables (PORT, HOST,
// CONFIG_DIR, LOG_LEVEL, LOG_DEV, RATE_LIMIT_*, SYNC_SCHEDULE), with
// CLI flags taking precedence.
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
