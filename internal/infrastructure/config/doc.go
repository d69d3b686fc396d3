// Package config loads backend configuration from environment variables
// using envconfig, with sane defaults for running next to the desktop
// frontend without any environment at all.
package config
