// Package service implements the application's business rules on top of
// the store interfaces: task lifecycle and assignment rules, overdue
// derivation, notification read-state, and the emission of task events
// consumed by the notification dispatcher.
package service
