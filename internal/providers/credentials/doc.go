// Package credentials stores per-host passwords in the operating
// system's credential store instead of on disk.
package credentials
