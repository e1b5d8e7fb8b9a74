package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Token  string    `json:"token"`
}

// UserResponse is the wire representation of a user in the directory
// listing. Credentials never appear here.
type UserResponse struct {
	ID    uuid.UUID `json:"userId"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// NewUserListResponse converts a slice of domain users.
func NewUserListResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		})
	}
	return out
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// UpdateTaskRequest defines the payload for partial task updates. Absent
// fields are left untouched; unknown fields are ignored.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	AssignedTo  *string `json:"assignedTo"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// TaskResponse is the wire representation of a task. Status carries the
// derived value, with overdue substituted where applicable.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssignedTo  uuid.UUID `json:"assignedTo"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTaskResponse converts a domain task to its wire representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// NewTaskListResponse converts a slice of domain tasks.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewTaskResponse(task))
	}
	return out
}

// NotificationResponse is the wire representation of a notification.
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Message   string     `json:"message"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewNotificationResponse converts a domain notification.
func NewNotificationResponse(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Message:   notification.Message,
		TaskID:    notification.TaskID,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}

// NewNotificationListResponse converts a slice of domain notifications.
func NewNotificationListResponse(notifications []*domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, NewNotificationResponse(notification))
	}
	return out
}

// MarkAllReadResponse reports how many notifications a read-all sweep touched.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
