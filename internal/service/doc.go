// Package service implements the provider registry.
//
// Providers expose named tools ("hosts.save", "terminal.spawn") behind a
// uniform Execute contract; the registry routes tool invocations to the
// owning provider and reports aggregate statistics.
package service
