package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values. TaskStatusOverdue is derived on read and is
// never written to the store by the service layer.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
)

// TaskPriority represents how urgent a task is.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle       = errors.New("task title cannot be empty")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
	ErrEmptyTaskDueDate     = errors.New("task due date cannot be empty")
	ErrEmptyTaskAssignee    = errors.New("task assignee cannot be empty")
	ErrEmptyTaskCreator     = errors.New("task creator cannot be empty")
	ErrInvalidTaskStatus    = errors.New("invalid task status: must be pending, in-progress or completed")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
)

// Task represents a trackable unit of work assigned to a user.
// Status holds the stored state; use EffectiveStatus for the
// overdue-aware view.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     time.Time    `json:"due_date"`
	AssignedTo  uuid.UUID    `json:"assigned_to"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a new Task assigned by creatorID to assigneeID.
// Status and priority are normalized to their lower-case enum values;
// empty values default to pending/medium.
// Returns an error if validation fails.
func NewTask(
	creatorID, assigneeID uuid.UUID,
	title, description string,
	dueDate time.Time,
	status TaskStatus,
	priority TaskPriority,
) (*Task, error) {
	now := time.Now().UTC()

	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      NormalizeStatus(status),
		Priority:    NormalizePriority(priority),
		DueDate:     dueDate,
		AssignedTo:  assigneeID,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// NormalizeStatus lower-cases a status value and applies the pending default
// for the empty string. Unknown values pass through unchanged so Validate
// can reject them.
func NormalizeStatus(status TaskStatus) TaskStatus {
	if status == "" {
		return TaskStatusPending
	}
	return TaskStatus(strings.ToLower(strings.TrimSpace(string(status))))
}

// NormalizePriority lower-cases a priority value and applies the medium
// default for the empty string.
func NormalizePriority(priority TaskPriority) TaskPriority {
	if priority == "" {
		return TaskPriorityMedium
	}
	return TaskPriority(strings.ToLower(strings.TrimSpace(string(priority))))
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.Description == "" {
		return ErrEmptyTaskDescription
	}

	if t.DueDate.IsZero() {
		return ErrEmptyTaskDueDate
	}

	if t.AssignedTo == uuid.Nil {
		return ErrEmptyTaskAssignee
	}

	if t.CreatedBy == uuid.Nil {
		return ErrEmptyTaskCreator
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if !isValidTaskPriority(t.Priority) {
		return ErrInvalidTaskPriority
	}

	return nil
}

// EffectiveStatus returns the status adjusted for overdue derivation:
// a task whose due date has passed and whose stored status is not
// completed reads as overdue. Pure and idempotent; a due date exactly
// equal to now is not overdue.
func (t *Task) EffectiveStatus(now time.Time) TaskStatus {
	if t.Status != TaskStatusCompleted && t.DueDate.Before(now) {
		return TaskStatusOverdue
	}
	return t.Status
}

// VisibleTo reports whether userID may see this task. A task is visible
// to its creator and its assignee only.
func (t *Task) VisibleTo(userID uuid.UUID) bool {
	return t.CreatedBy == userID || t.AssignedTo == userID
}

// isValidTaskStatus checks if the given status may be stored. Overdue is
// deliberately absent: it exists only as a derived view, and the tasks
// table's CHECK constraint enforces the same set.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// isValidTaskPriority checks if the given priority is a valid TaskPriority.
func isValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}
