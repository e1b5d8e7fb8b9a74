package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
)

// TaskFilter narrows a task listing. Zero values mean "not applied".
// The filter is an explicit object so the storage technology stays
// swappable; implementations translate it into their own query form.
type TaskFilter struct {
	// Search matches tasks whose title or description contains the value,
	// case-insensitively.
	Search string

	// Status matches the stored status exactly.
	Status domain.TaskStatus

	// Priority matches the stored priority exactly.
	Priority domain.TaskPriority

	// DueDate matches tasks whose due date falls within that calendar day
	// (UTC). Nil means not applied.
	DueDate *time.Time
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid,
	// and ErrInvalidEntity if a referenced user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListForUser retrieves the tasks visible to userID (created by or
	// assigned to them) that match the filter, ordered by due date
	// ascending. Returns an empty slice if nothing matches.
	ListForUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store. Notifications referencing the
	// task keep their rows; the task reference is nulled by the schema.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
