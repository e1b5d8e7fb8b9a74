package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/store"
)

// MockNotificationStore implements store.NotificationStore for testing.
type MockNotificationStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, notification *domain.Notification) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListForUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkReadFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error)
	MarkAllReadFn func(ctx context.Context, userID uuid.UUID) (int64, error)

	// Data for default implementation
	mu            sync.Mutex
	Notifications map[uuid.UUID]*domain.Notification

	CreateError error
}

// NewMockNotificationStore creates a new mock store with initialized
// defaults.
func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{
		Notifications: make(map[uuid.UUID]*domain.Notification),
	}
}

// Create implements the NotificationStore interface.
func (m *MockNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, notification)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *notification
	m.Notifications[notification.ID] = &copied
	return nil
}

// GetByID implements the NotificationStore interface.
func (m *MockNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	notification, ok := m.Notifications[id]
	if !ok {
		return nil, store.ErrNotificationNotFound
	}
	copied := *notification
	return &copied, nil
}

// ListForUser implements the NotificationStore interface, ordering by
// creation time descending like the real store.
func (m *MockNotificationStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Notification, 0)
	for _, notification := range m.Notifications {
		if notification.UserID != userID {
			continue
		}
		copied := *notification
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// MarkRead implements the NotificationStore interface.
func (m *MockNotificationStore) MarkRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error) {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	notification, ok := m.Notifications[id]
	if !ok || notification.UserID != userID {
		return nil, store.ErrNotificationNotFound
	}
	notification.IsRead = true
	copied := *notification
	return &copied, nil
}

// MarkAllRead implements the NotificationStore interface.
func (m *MockNotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.MarkAllReadFn != nil {
		return m.MarkAllReadFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var affected int64
	for _, notification := range m.Notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			affected++
		}
	}
	return affected, nil
}

// WithTx implements the NotificationStore interface; the mock ignores
// transactions.
func (m *MockNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return m
}

// ForUser returns the stored notifications for a user, for assertions.
func (m *MockNotificationStore) ForUser(userID uuid.UUID) []*domain.Notification {
	notifications, _ := m.ListForUser(context.Background(), userID)
	return notifications
}
