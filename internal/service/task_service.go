package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/events"
	"github.com/taskwire/taskwire-api/internal/platform/logger"
	"github.com/taskwire/taskwire-api/internal/store"
)

// CreateTaskInput carries the client-supplied fields for a new task.
// DueDate and AssignedTo arrive as strings and are parsed here so all
// input validation lives in one place.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string // RFC 3339
	AssignedTo  string // user UUID
	Status      string
	Priority    string
}

// TaskPatch lists the mutable task fields for an update. Nil means "leave
// unchanged". The task's ID and creator are not part of the patch and
// therefore cannot be modified; unknown fields in a request body simply
// have nowhere to land.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string // RFC 3339
	AssignedTo  *string // user UUID
}

// TaskService provides task lifecycle operations.
type TaskService interface {
	// Create validates and persists a new task for creatorID, then emits a
	// task.created event. Event emission is best-effort and never fails
	// the creation.
	Create(ctx context.Context, creatorID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// List returns the tasks visible to userID matching the filter,
	// ordered by due date ascending, with overdue derivation applied.
	// The status filter matches the derived status, so overdue is a
	// valid filter value even though it is never stored.
	List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)

	// Update applies a partial update to a task visible to requesterID.
	// If the patch changes the assignee, a task.reassigned event is
	// emitted after the write succeeds.
	Update(ctx context.Context, requesterID, taskID uuid.UUID, patch TaskPatch) (*domain.Task, error)

	// Delete removes a task visible to requesterID. Existing notifications
	// referencing the task are kept (their task reference is nulled).
	Delete(ctx context.Context, requesterID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks   store.TaskStore
	audit   store.AuditStore
	emitter events.EventEmitter
	logger  *slog.Logger
	nowFunc func() time.Time // injectable for testing
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	audit store.AuditStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit store cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		tasks:   tasks,
		audit:   audit,
		emitter: emitter,
		logger:  log.With("component", "task_service"),
		nowFunc: time.Now,
	}, nil
}

// Create implements TaskService.Create.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	creatorID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if input.DueDate == "" {
		return nil, fmt.Errorf("%w: due date is required", domain.ErrValidation)
	}
	if input.AssignedTo == "" {
		return nil, fmt.Errorf("%w: assignee is required", domain.ErrValidation)
	}

	dueDate, err := time.Parse(time.RFC3339, input.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: due date must be RFC 3339", domain.ErrValidation)
	}

	assigneeID, err := uuid.Parse(input.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("%w: assignee must be a valid user ID", domain.ErrValidation)
	}

	task, err := domain.NewTask(
		creatorID, assigneeID,
		input.Title, input.Description,
		dueDate,
		domain.TaskStatus(input.Status),
		domain.TaskPriority(input.Priority),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to persist task",
			"error", err,
			"creator_id", creatorID)
		return nil, wrapServiceError("task", "create", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"creator_id", creatorID,
		"assignee_id", task.AssignedTo)

	s.recordAudit(ctx, creatorID, domain.AuditActionTaskCreate, task.ID)
	s.emit(ctx, events.NewTaskCreated(snapshot(task)))

	return s.withEffectiveStatus(task), nil
}

// List implements TaskService.List.
func (s *taskServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	// Overdue is never stored, so it cannot be pushed down to the store.
	// Fetch unfiltered on status and select on the derived view instead;
	// the same post-derivation check keeps the other status filters from
	// returning tasks that present as overdue.
	requested := filter.Status
	storeFilter := filter
	if requested == domain.TaskStatusOverdue {
		storeFilter.Status = ""
	}

	tasks, err := s.tasks.ListForUser(ctx, userID, storeFilter)
	if err != nil {
		return nil, wrapServiceError("task", "list", err)
	}

	now := s.nowFunc()
	matched := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		task.Status = task.EffectiveStatus(now)
		if requested != "" && task.Status != requested {
			continue
		}
		matched = append(matched, task)
	}
	return matched, nil
}

// Update implements TaskService.Update.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	requesterID, taskID uuid.UUID,
	patch TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, wrapServiceError("task", "update", err)
	}

	// Unowned tasks read as absent rather than forbidden.
	if !task.VisibleTo(requesterID) {
		return nil, store.ErrTaskNotFound
	}

	previousAssignee := task.AssignedTo

	if err := applyPatch(task, patch); err != nil {
		return nil, err
	}

	task.UpdatedAt = s.nowFunc().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		log.Error("failed to update task",
			"error", err,
			"task_id", taskID)
		return nil, wrapServiceError("task", "update", err)
	}

	log.Info("task updated",
		"task_id", task.ID,
		"requester_id", requesterID)

	s.recordAudit(ctx, requesterID, domain.AuditActionTaskUpdate, task.ID)

	if task.AssignedTo != previousAssignee {
		s.emit(ctx, events.NewTaskReassigned(snapshot(task), previousAssignee))
	}

	return s.withEffectiveStatus(task), nil
}

// Delete implements TaskService.Delete.
func (s *taskServiceImpl) Delete(ctx context.Context, requesterID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return wrapServiceError("task", "delete", err)
	}

	if !task.VisibleTo(requesterID) {
		return store.ErrTaskNotFound
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		log.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return wrapServiceError("task", "delete", err)
	}

	log.Info("task deleted",
		"task_id", taskID,
		"requester_id", requesterID)

	s.recordAudit(ctx, requesterID, domain.AuditActionTaskDelete, taskID)

	// Deletion emits no dispatcher event.
	return nil
}

// applyPatch mutates task in place with the fields present in patch,
// validating each one. ID and creator are untouchable by construction.
func applyPatch(task *domain.Task, patch TaskPatch) error {
	if patch.Title != nil {
		if *patch.Title == "" {
			return fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		task.Title = *patch.Title
	}

	if patch.Description != nil {
		if *patch.Description == "" {
			return fmt.Errorf("%w: description cannot be empty", domain.ErrValidation)
		}
		task.Description = *patch.Description
	}

	if patch.Status != nil {
		status := domain.NormalizeStatus(domain.TaskStatus(*patch.Status))
		probe := *task
		probe.Status = status
		if err := probe.Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		task.Status = status
	}

	if patch.Priority != nil {
		priority := domain.NormalizePriority(domain.TaskPriority(*patch.Priority))
		probe := *task
		probe.Priority = priority
		if err := probe.Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		task.Priority = priority
	}

	if patch.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *patch.DueDate)
		if err != nil {
			return fmt.Errorf("%w: due date must be RFC 3339", domain.ErrValidation)
		}
		task.DueDate = dueDate
	}

	if patch.AssignedTo != nil {
		assigneeID, err := uuid.Parse(*patch.AssignedTo)
		if err != nil {
			return fmt.Errorf("%w: assignee must be a valid user ID", domain.ErrValidation)
		}
		task.AssignedTo = assigneeID
	}

	return nil
}

// emit publishes an event, logging and swallowing any failure: the task
// write is the operation of record and emission may not undo it.
func (s *taskServiceImpl) emit(ctx context.Context, event *events.TaskEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to emit task event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
	}
}

// recordAudit writes an audit entry best-effort.
func (s *taskServiceImpl) recordAudit(ctx context.Context, userID uuid.UUID, action domain.AuditAction, taskID uuid.UUID) {
	entry, err := domain.NewAuditEntry(userID, action, taskID, "task")
	if err == nil {
		err = s.audit.Record(ctx, entry)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to record audit entry",
			"error", err,
			"action", action,
			"task_id", taskID)
	}
}

// withEffectiveStatus returns a copy of task with overdue derivation
// applied, leaving the stored value untouched.
func (s *taskServiceImpl) withEffectiveStatus(task *domain.Task) *domain.Task {
	view := *task
	view.Status = view.EffectiveStatus(s.nowFunc())
	return &view
}

// snapshot copies a task so event consumers never share memory with the
// request path.
func snapshot(task *domain.Task) *domain.Task {
	copied := *task
	return &copied
}
