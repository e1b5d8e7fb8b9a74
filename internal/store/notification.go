package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
)

// NotificationStore defines the interface for notification data persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns validation errors from the domain Notification if data is
	// invalid.
	Create(ctx context.Context, notification *domain.Notification) error

	// GetByID retrieves a notification by its unique ID.
	// Returns ErrNotificationNotFound if the notification does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// ListForUser retrieves all notifications for the given recipient,
	// ordered by creation time descending.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// MarkRead sets the read flag on a single notification owned by userID.
	// Marking an already-read notification succeeds and returns it
	// unchanged. Returns ErrNotificationNotFound if the notification does
	// not exist or belongs to a different user.
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error)

	// MarkAllRead sets the read flag on every unread notification owned by
	// userID and returns the number of rows affected.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// WithTx returns a new NotificationStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) NotificationStore
}
