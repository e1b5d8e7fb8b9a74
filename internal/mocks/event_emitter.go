package mocks

import (
	"context"
	"sync"

	"github.com/taskwire/taskwire-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing, recording
// every emitted event.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.TaskEvent) error

	mu     sync.Mutex
	Events []*events.TaskEvent

	EmitError error
}

// NewMockEventEmitter creates a new mock emitter.
func NewMockEventEmitter() *MockEventEmitter {
	return &MockEventEmitter{}
}

// EmitEvent implements the EventEmitter interface.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return m.EmitError
}

// Emitted returns a snapshot of the events recorded so far.
func (m *MockEventEmitter) Emitted() []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]*events.TaskEvent, len(m.Events))
	copy(snapshot, m.Events)
	return snapshot
}

// EmittedOfType returns the recorded events matching the given type.
func (m *MockEventEmitter) EmittedOfType(eventType string) []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*events.TaskEvent, 0)
	for _, event := range m.Events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
