package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/events"
	"github.com/taskwire/taskwire-api/internal/realtime"
	"github.com/taskwire/taskwire-api/internal/store"
)

// jobTimeout bounds the persistence work for a single event so a stalled
// database cannot pin a worker forever.
const jobTimeout = 10 * time.Second

// DispatcherConfig holds configuration for the notification dispatcher.
type DispatcherConfig struct {
	// WorkerCount determines how many goroutines consume dispatch jobs.
	WorkerCount int

	// QueueSize determines the buffer size of the in-memory job queue.
	QueueSize int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable
// defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount: 2,
		QueueSize:   256,
	}
}

// Dispatcher translates task lifecycle events into notification side
// effects: a persisted Notification row and, for task creation only, a
// realtime push to the assignee's live connections.
//
// Everything here is best-effort by contract. HandleEvent never returns an
// error for persistence or publish failures; they are logged and dropped so
// the originating task mutation can never be made to look failed by its
// side effects. Events are processed asynchronously by a small worker pool,
// decoupling request latency from notification latency.
type Dispatcher struct {
	notifications store.NotificationStore
	hub           *realtime.Hub

	jobs     chan *events.TaskEvent
	wg       sync.WaitGroup
	stopOnce sync.Once

	config DispatcherConfig
	logger *slog.Logger
}

// Ensure Dispatcher implements events.EventHandler
var _ events.EventHandler = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher. The hub may be nil in contexts
// without realtime delivery (the push step is skipped).
func NewDispatcher(
	notifications store.NotificationStore,
	hub *realtime.Hub,
	config DispatcherConfig,
	logger *slog.Logger,
) *Dispatcher {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}

	return &Dispatcher{
		notifications: notifications,
		hub:           hub,
		jobs:          make(chan *events.TaskEvent, config.QueueSize),
		config:        config,
		logger:        logger.With("component", "notification_dispatcher"),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("notification dispatcher started",
		"worker_count", d.config.WorkerCount,
		"queue_size", d.config.QueueSize)
}

// Stop closes the job queue and waits for the workers to drain it.
// Events enqueued before Stop are still processed.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped")
}

// HandleEvent implements events.EventHandler by enqueueing the event for
// asynchronous processing. A full queue drops the event: delivery is
// best-effort and the producing mutation must not block on it.
func (d *Dispatcher) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	select {
	case d.jobs <- event:
		return nil
	default:
		d.logger.Warn("dispatch queue full, dropping event",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}
}

// worker consumes jobs until the queue is closed.
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for event := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		if err := d.process(ctx, event); err != nil {
			// Logged and swallowed: side-effect failures never propagate.
			d.logger.Error("failed to process task event",
				"error", err,
				"worker", id,
				"event_id", event.ID,
				"event_type", event.Type)
		}
		cancel()
	}
}

// process routes one event to its handler.
func (d *Dispatcher) process(ctx context.Context, event *events.TaskEvent) error {
	switch event.Type {
	case events.TypeTaskCreated:
		return d.onTaskCreated(ctx, event.Task)
	case events.TypeTaskReassigned:
		return d.onTaskReassigned(ctx, event)
	default:
		d.logger.Warn("ignoring event of unknown type",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}
}

// onTaskCreated persists an assignment notification and pushes a realtime
// taskAssigned event to the assignee. Self-assigned tasks produce nothing.
func (d *Dispatcher) onTaskCreated(ctx context.Context, task *domain.Task) error {
	if task.AssignedTo == task.CreatedBy {
		return nil
	}

	taskID := task.ID
	message := fmt.Sprintf("You have been assigned a new task: %q.", task.Title)

	notification, err := domain.NewNotification(task.AssignedTo, message, &taskID)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	if err := d.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	if d.hub != nil {
		d.hub.Publish(task.AssignedTo, realtime.Event{
			Type:       realtime.EventTypeTaskAssigned,
			TaskID:     task.ID,
			AssignedTo: task.AssignedTo,
			Message:    message,
		})
	}

	d.logger.Debug("assignment notification dispatched",
		"task_id", task.ID,
		"assignee", task.AssignedTo)
	return nil
}

// onTaskReassigned persists a reassignment notification for the new
// assignee. Unlike creation, reassignment deliberately has no realtime
// push; clients pick these up on their next notification fetch. Keep the
// asymmetry unless product says otherwise.
func (d *Dispatcher) onTaskReassigned(ctx context.Context, event *events.TaskEvent) error {
	task := event.Task
	if task.AssignedTo == event.PreviousAssignee {
		return nil
	}

	taskID := task.ID
	message := fmt.Sprintf("You have been reassigned a task: %q.", task.Title)

	notification, err := domain.NewNotification(task.AssignedTo, message, &taskID)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	if err := d.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	d.logger.Debug("reassignment notification dispatched",
		"task_id", task.ID,
		"assignee", task.AssignedTo,
		"previous_assignee", event.PreviousAssignee)
	return nil
}
