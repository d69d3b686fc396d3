// Package events implements the push-event hub between the terminal core
// and WebSocket clients. Every connected frontend window receives every
// event and filters by session id on its side.
package events
