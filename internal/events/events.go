package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
)

// Event type identifiers for task lifecycle events.
const (
	// TypeTaskCreated is emitted after a task has been persisted for the
	// first time.
	TypeTaskCreated = "task.created"

	// TypeTaskReassigned is emitted after an update changed a task's
	// assignee.
	TypeTaskReassigned = "task.reassigned"
)

// TaskEvent describes a task mutation that already happened. The task
// write is the operation of record; consumers of these events perform
// side effects only (notifications, realtime pushes) and their failures
// never reach the originating mutation.
type TaskEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants above.
	Type string `json:"type"`

	// Task is a snapshot of the task at emission time.
	Task *domain.Task `json:"task"`

	// PreviousAssignee is set for TypeTaskReassigned events and holds the
	// assignee the task had before the update.
	PreviousAssignee uuid.UUID `json:"previous_assignee,omitempty"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskCreated builds a TaskEvent for a freshly created task.
func NewTaskCreated(task *domain.Task) *TaskEvent {
	return &TaskEvent{
		ID:        uuid.New(),
		Type:      TypeTaskCreated,
		Task:      task,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTaskReassigned builds a TaskEvent for a task whose assignee changed.
func NewTaskReassigned(task *domain.Task, previousAssignee uuid.UUID) *TaskEvent {
	return &TaskEvent{
		ID:               uuid.New(),
		Type:             TypeTaskReassigned,
		Task:             task,
		PreviousAssignee: previousAssignee,
		CreatedAt:        time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of
// handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
