// Package paths provides standardized filesystem paths for the backend.
//
// All persisted artifacts (hosts database, settings, generated ssh_config)
// live in one per-user configuration directory so the desktop frontend and
// the backend always agree on the layout.
package paths
