package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Notification
var (
	ErrEmptyNotificationID      = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationUserID  = errors.New("notification user ID cannot be empty")
	ErrEmptyNotificationMessage = errors.New("notification message cannot be empty")
)

// Notification represents a persisted record informing a user of a task
// event. TaskID is nil for notifications that do not reference a task,
// and becomes nil when the referenced task is deleted.
//
// A notification is immutable after creation except for the IsRead flag,
// which only ever moves from false to true.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Message   string     `json:"message"`
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewNotification creates a new unread Notification for the given recipient.
// taskID may be nil for non-task notifications.
// Returns an error if validation fails.
func NewNotification(userID uuid.UUID, message string, taskID *uuid.UUID) (*Notification, error) {
	notification := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		TaskID:    taskID,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	if err := notification.Validate(); err != nil {
		return nil, err
	}

	return notification, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.UserID == uuid.Nil {
		return ErrEmptyNotificationUserID
	}

	if n.Message == "" {
		return ErrEmptyNotificationMessage
	}

	return nil
}
