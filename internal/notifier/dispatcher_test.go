package notifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/events"
	"github.com/taskwire/taskwire-api/internal/mocks"
	"github.com/taskwire/taskwire-api/internal/notifier"
	"github.com/taskwire/taskwire-api/internal/realtime"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTask(t *testing.T, creator, assignee uuid.UUID, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(creator, assignee, title, "some work", time.Now().Add(24*time.Hour), "", "")
	require.NoError(t, err)
	return task
}

// dispatch runs a single event through a dispatcher and waits for the
// worker pool to drain.
func dispatch(
	t *testing.T,
	notifications *mocks.MockNotificationStore,
	hub *realtime.Hub,
	event *events.TaskEvent,
) {
	t.Helper()

	d := notifier.NewDispatcher(notifications, hub, notifier.DefaultDispatcherConfig(), discardLogger())
	d.Start()
	require.NoError(t, d.HandleEvent(context.Background(), event))
	d.Stop()
}

func TestDispatcherTaskCreated(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()

	t.Run("assignee differs from creator", func(t *testing.T) {
		notifications := mocks.NewMockNotificationStore()
		hub := realtime.NewHub(4, discardLogger())
		sub := hub.Subscribe(assignee)

		task := newTask(t, creator, assignee, "Ship release")
		dispatch(t, notifications, hub, events.NewTaskCreated(task))

		stored := notifications.ForUser(assignee)
		require.Len(t, stored, 1)
		assert.Equal(t, `You have been assigned a new task: "Ship release".`, stored[0].Message)
		assert.False(t, stored[0].IsRead)
		require.NotNil(t, stored[0].TaskID)
		assert.Equal(t, task.ID, *stored[0].TaskID)

		// Realtime push reaches the live connection
		select {
		case got := <-sub.Events():
			assert.Equal(t, realtime.EventTypeTaskAssigned, got.Type)
			assert.Equal(t, task.ID, got.TaskID)
			assert.Equal(t, assignee, got.AssignedTo)
			assert.Contains(t, got.Message, "Ship release")
		case <-time.After(time.Second):
			t.Fatal("expected a realtime event")
		}
	})

	t.Run("self-assigned task yields nothing", func(t *testing.T) {
		notifications := mocks.NewMockNotificationStore()
		hub := realtime.NewHub(4, discardLogger())
		sub := hub.Subscribe(creator)

		task := newTask(t, creator, creator, "Personal chore")
		dispatch(t, notifications, hub, events.NewTaskCreated(task))

		assert.Empty(t, notifications.ForUser(creator))
		assert.Len(t, sub.Events(), 0)
	})

	t.Run("no live connection still persists the notification", func(t *testing.T) {
		notifications := mocks.NewMockNotificationStore()
		hub := realtime.NewHub(4, discardLogger())

		task := newTask(t, creator, assignee, "Ship release")
		dispatch(t, notifications, hub, events.NewTaskCreated(task))

		assert.Len(t, notifications.ForUser(assignee), 1)
	})
}

func TestDispatcherTaskReassigned(t *testing.T) {
	creator := uuid.New()
	previous := uuid.New()
	next := uuid.New()

	t.Run("new assignee gets a pull-only notification", func(t *testing.T) {
		notifications := mocks.NewMockNotificationStore()
		hub := realtime.NewHub(4, discardLogger())
		sub := hub.Subscribe(next)

		task := newTask(t, creator, next, "Rotate credentials")
		dispatch(t, notifications, hub, events.NewTaskReassigned(task, previous))

		stored := notifications.ForUser(next)
		require.Len(t, stored, 1)
		assert.Equal(t, `You have been reassigned a task: "Rotate credentials".`, stored[0].Message)

		// Reassignment is deliberately not pushed over the realtime channel.
		assert.Len(t, sub.Events(), 0)
	})

	t.Run("unchanged assignee yields nothing", func(t *testing.T) {
		notifications := mocks.NewMockNotificationStore()

		task := newTask(t, creator, next, "Rotate credentials")
		dispatch(t, notifications, nil, events.NewTaskReassigned(task, next))

		assert.Empty(t, notifications.ForUser(next))
	})
}

func TestDispatcherSwallowsStoreFailures(t *testing.T) {
	notifications := mocks.NewMockNotificationStore()
	notifications.CreateError = errors.New("database down")

	task := newTask(t, uuid.New(), uuid.New(), "Doomed")

	d := notifier.NewDispatcher(notifications, nil, notifier.DefaultDispatcherConfig(), discardLogger())
	d.Start()

	// HandleEvent must not surface the store failure to the caller.
	err := d.HandleEvent(context.Background(), events.NewTaskCreated(task))
	assert.NoError(t, err)

	d.Stop()
}

func TestDispatcherFullQueueDropsEvent(t *testing.T) {
	notifications := mocks.NewMockNotificationStore()

	// One-slot queue, workers never started, so the second enqueue drops.
	d := notifier.NewDispatcher(notifications, nil, notifier.DispatcherConfig{WorkerCount: 1, QueueSize: 1}, discardLogger())

	task := newTask(t, uuid.New(), uuid.New(), "Backlog")
	assert.NoError(t, d.HandleEvent(context.Background(), events.NewTaskCreated(task)))
	assert.NoError(t, d.HandleEvent(context.Background(), events.NewTaskCreated(task)))

	// Draining processes only the first event.
	d.Start()
	d.Stop()
	assert.Len(t, notifications.ForUser(task.AssignedTo), 1)
}
