// Package realtime implements the best-effort publish/subscribe channel
// that pushes task events to a user's live connections. It is constructed
// once at startup and injected wherever events are published or consumed;
// there is no ambient global hub.
package realtime
