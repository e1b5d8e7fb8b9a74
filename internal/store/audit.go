package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
)

// AuditStore defines the interface for audit trail persistence.
// Entries are append-only.
type AuditStore interface {
	// Record saves a new audit entry.
	Record(ctx context.Context, entry *domain.AuditEntry) error

	// ListForTarget retrieves the audit entries for a target, newest first.
	ListForTarget(ctx context.Context, targetID uuid.UUID) ([]*domain.AuditEntry, error)

	// WithTx returns a new AuditStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) AuditStore
}
