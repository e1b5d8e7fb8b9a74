package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies the mutation recorded by an audit entry.
type AuditAction string

// Recorded audit actions
const (
	AuditActionTaskCreate AuditAction = "task.create"
	AuditActionTaskUpdate AuditAction = "task.update"
	AuditActionTaskDelete AuditAction = "task.delete"
)

// Common validation errors for AuditEntry
var (
	ErrEmptyAuditID     = errors.New("audit entry ID cannot be empty")
	ErrEmptyAuditUserID = errors.New("audit entry user ID cannot be empty")
	ErrEmptyAuditAction = errors.New("audit entry action cannot be empty")
	ErrEmptyAuditTarget = errors.New("audit entry target cannot be empty")
)

// AuditEntry records who performed a mutation and on what. Entries are
// write-once; they are recorded best-effort and never block the mutation
// they describe.
type AuditEntry struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	Action     AuditAction `json:"action"`
	TargetID   uuid.UUID   `json:"target_id"`
	TargetType string      `json:"target_type"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewAuditEntry creates a new AuditEntry for the given actor and target.
// Returns an error if validation fails.
func NewAuditEntry(userID uuid.UUID, action AuditAction, targetID uuid.UUID, targetType string) (*AuditEntry, error) {
	entry := &AuditEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		CreatedAt:  time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the AuditEntry has valid data.
func (e *AuditEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyAuditID
	}

	if e.UserID == uuid.Nil {
		return ErrEmptyAuditUserID
	}

	if e.Action == "" {
		return ErrEmptyAuditAction
	}

	if e.TargetID == uuid.Nil || e.TargetType == "" {
		return ErrEmptyAuditTarget
	}

	return nil
}
