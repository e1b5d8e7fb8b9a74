// Package notifier contains the notification dispatcher: the component
// that turns task lifecycle events into persisted notifications and
// best-effort realtime pushes. It runs its own worker pool so notification
// side effects never sit on the request path.
package notifier
