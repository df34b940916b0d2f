package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// ErrInvalidConfig is returned by constructors given unusable dependencies or settings.
var ErrInvalidConfig = errors.New("invalid service configuration")

// ServiceError wraps unexpected failures with the service and operation
// that produced them.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	prefix := fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	if e.Service == "" {
		prefix = fmt.Sprintf("service %s operation failed", e.Operation)
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err for the given service and operation.
// Not-found and validation errors are returned unchanged so callers can match
// them directly; nil stays nil.
func NewServiceError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, store.ErrInvalidEntity) {
		return err
	}
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}
