package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewNotification(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	notification, err := NewNotification(userID, `You have been assigned a new task: "Ship release".`, &taskID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if notification.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if notification.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, notification.UserID)
	}

	if notification.IsRead {
		t.Error("Expected new notification to be unread")
	}

	if notification.TaskID == nil || *notification.TaskID != taskID {
		t.Errorf("Expected task ID %s, got %v", taskID, notification.TaskID)
	}

	if notification.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Nil task reference is allowed
	general, err := NewNotification(userID, "Welcome aboard", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if general.TaskID != nil {
		t.Errorf("Expected nil task ID, got %v", general.TaskID)
	}

	// Invalid input
	if _, err := NewNotification(uuid.Nil, "message", nil); err != ErrEmptyNotificationUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyNotificationUserID, err)
	}

	if _, err := NewNotification(userID, "", nil); err != ErrEmptyNotificationMessage {
		t.Errorf("Expected error %v, got %v", ErrEmptyNotificationMessage, err)
	}
}
