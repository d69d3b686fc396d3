// Package http implements the request/response API: service discovery,
// tool execution and health endpoints.
package http
