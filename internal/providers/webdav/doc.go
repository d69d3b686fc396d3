// Package webdav syncs the host database with a WebDAV server.
//
// Pull prefers the portable hosts.json representation and falls back to
// downloading the raw SQLite file, backing up the local database first.
// Push checkpoints the WAL, ensures the remote folder exists and
// uploads both representations.
package webdav
