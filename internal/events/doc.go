// Package events provides types and interfaces for the task event pipeline.
//
// Services emit TaskEvent values after a task mutation has been persisted;
// handlers (currently the notification dispatcher) react with side effects.
// The indirection keeps the service layer free of any knowledge about
// notifications or realtime delivery.
package events
