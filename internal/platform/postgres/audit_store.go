package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/platform/logger"
	"github.com/taskwire/taskwire-api/internal/store"
)

// PostgresAuditStore implements the store.AuditStore interface using
// PostgreSQL as the storage backend. The audit_log table is append-only.
type PostgresAuditStore struct {
	db store.DBTX
}

// NewPostgresAuditStore creates a new PostgresAuditStore.
func NewPostgresAuditStore(db store.DBTX) *PostgresAuditStore {
	return &PostgresAuditStore{db: db}
}

var _ store.AuditStore = (*PostgresAuditStore)(nil)

// Record implements store.AuditStore.Record.
func (s *PostgresAuditStore) Record(ctx context.Context, entry *domain.AuditEntry) error {
	log := logger.FromContext(ctx)

	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO audit_log (id, user_id, action, target_id, target_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.TargetID,
		entry.TargetType,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert audit entry",
			"entry_id", entry.ID,
			"action", entry.Action,
			"error", err)
		return MapError(err)
	}

	return nil
}

// ListForTarget implements store.AuditStore.ListForTarget, newest first.
func (s *PostgresAuditStore) ListForTarget(
	ctx context.Context,
	targetID uuid.UUID,
) ([]*domain.AuditEntry, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, user_id, action, target_id, target_type, created_at
		FROM audit_log
		WHERE target_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, targetID)
	if err != nil {
		log.Error("failed to query audit entries", "target_id", targetID, "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.TargetID,
			&entry.TargetType,
			&entry.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

// WithTx implements store.AuditStore.WithTx.
func (s *PostgresAuditStore) WithTx(tx *sql.Tx) store.AuditStore {
	return &PostgresAuditStore{db: tx}
}
