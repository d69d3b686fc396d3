// Package sshconfig renders saved hosts into a managed OpenSSH config
// file and scans the user's existing ssh configuration for importable
// Host blocks.
package sshconfig
