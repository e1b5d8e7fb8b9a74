// Package service provides application-level services for managing tasks
// and notifications.
package service

import (
	"errors"
	"fmt"

	"github.com/taskwire/taskwire-api/internal/domain"
	"github.com/taskwire/taskwire-api/internal/store"
)

// ServiceError wraps unexpected errors from a service with operation
// context. Known sentinel errors (validation, not-found) pass through
// unwrapped so callers can match them with errors.Is.
type ServiceError struct {
	// Service is the service that failed (e.g., "task", "notification").
	Service string
	// Operation is the operation that failed (e.g., "create", "mark_read").
	Operation string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapServiceError returns sentinel errors unchanged and wraps everything
// else with service and operation context.
func wrapServiceError(service, operation string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, domain.ErrValidation) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}
