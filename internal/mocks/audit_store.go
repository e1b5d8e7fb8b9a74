package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/store"
)

// MockAuditStore implements store.AuditStore for testing.
type MockAuditStore struct {
	RecordFn func(ctx context.Context, entry *domain.AuditEntry) error

	mu      sync.Mutex
	Entries []*domain.AuditEntry

	RecordError error
}

// NewMockAuditStore creates a new mock store with initialized defaults.
func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

// Record implements the AuditStore interface.
func (m *MockAuditStore) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, entry)
	}

	if m.RecordError != nil {
		return m.RecordError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

// ListForTarget implements the AuditStore interface.
func (m *MockAuditStore) ListForTarget(ctx context.Context, targetID uuid.UUID) ([]*domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.AuditEntry, 0)
	for _, entry := range m.Entries {
		if entry.TargetID == targetID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// WithTx implements the AuditStore interface; the mock ignores transactions.
func (m *MockAuditStore) WithTx(tx *sql.Tx) store.AuditStore {
	return m
}
