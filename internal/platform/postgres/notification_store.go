package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/platform/logger"
	"github.com/taskwire/taskwire-api/internal/store"
)

// PostgresNotificationStore implements the store.NotificationStore
// interface using PostgreSQL as the storage backend.
type PostgresNotificationStore struct {
	db store.DBTX
}

// NewPostgresNotificationStore creates a new PostgresNotificationStore.
func NewPostgresNotificationStore(db store.DBTX) *PostgresNotificationStore {
	return &PostgresNotificationStore{db: db}
}

var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create.
func (s *PostgresNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	log := logger.FromContext(ctx)

	if err := notification.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (id, user_id, message, task_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Message,
		notification.TaskID,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert notification",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.NotificationStore.GetByID.
func (s *PostgresNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	query := `
		SELECT id, user_id, message, task_id, is_read, created_at
		FROM notifications
		WHERE id = $1
	`
	notification, err := scanNotification(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, MapError(err)
	}
	return notification, nil
}

// ListForUser implements store.NotificationStore.ListForUser, newest first.
func (s *PostgresNotificationStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Notification, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, user_id, message, task_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query notifications", "user_id", userID, "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, MapError(err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return notifications, nil
}

// MarkRead implements store.NotificationStore.MarkRead. The user check is
// part of the WHERE clause so a foreign notification is indistinguishable
// from a missing one.
func (s *PostgresNotificationStore) MarkRead(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Notification, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, message, task_id, is_read, created_at
	`
	notification, err := scanNotification(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if IsNotFound(err) {
			return nil, store.ErrNotificationNotFound
		}
		log.Error("failed to mark notification read",
			"notification_id", id,
			"user_id", userID,
			"error", err)
		return nil, MapError(err)
	}
	return notification, nil
}

// MarkAllRead implements store.NotificationStore.MarkAllRead.
func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		log.Error("failed to mark notifications read", "user_id", userID, "error", err)
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return affected, nil
}

// WithTx implements store.NotificationStore.WithTx.
func (s *PostgresNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &PostgresNotificationStore{db: tx}
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var notification domain.Notification
	err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Message,
		&notification.TaskID,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
