// Package settings persists application settings as JSON in the config
// directory, with export and import in JSON, YAML and TOML.
package settings
