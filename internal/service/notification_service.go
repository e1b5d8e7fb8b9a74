package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/platform/logger"
	"github.com/taskwire/taskwire-api/internal/store"
)

// NotificationService provides read and read-state operations over a
// user's notifications. Creation happens only in the dispatcher.
type NotificationService interface {
	// ListForUser returns userID's notifications, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// MarkRead flips the read flag on one notification owned by
	// requesterID. Idempotent: an already-read notification is returned
	// unchanged. Returns store.ErrNotificationNotFound when the
	// notification is absent or owned by someone else.
	MarkRead(ctx context.Context, requesterID, notificationID uuid.UUID) (*domain.Notification, error)

	// MarkAllRead marks every unread notification owned by userID as read
	// and returns how many were affected. A second successive call
	// returns zero.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// notificationServiceImpl implements the NotificationService interface.
type notificationServiceImpl struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notifications store.NotificationStore,
	log *slog.Logger,
) (NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &notificationServiceImpl{
		notifications: notifications,
		logger:        log.With("component", "notification_service"),
	}, nil
}

// ListForUser implements NotificationService.ListForUser.
func (s *notificationServiceImpl) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Notification, error) {
	notifications, err := s.notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, wrapServiceError("notification", "list", err)
	}
	return notifications, nil
}

// MarkRead implements NotificationService.MarkRead.
func (s *notificationServiceImpl) MarkRead(
	ctx context.Context,
	requesterID, notificationID uuid.UUID,
) (*domain.Notification, error) {
	notification, err := s.notifications.MarkRead(ctx, requesterID, notificationID)
	if err != nil {
		return nil, wrapServiceError("notification", "mark_read", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("notification marked read",
		"notification_id", notificationID,
		"user_id", requesterID)

	return notification, nil
}

// MarkAllRead implements NotificationService.MarkAllRead.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, wrapServiceError("notification", "mark_all_read", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("notifications marked read",
		"user_id", userID,
		"affected", affected)

	return affected, nil
}
