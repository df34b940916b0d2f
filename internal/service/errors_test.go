package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		op       string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			service:  "task",
			op:       "create",
			err:      errors.New("database connection failed"),
			expected: "task service create operation failed: database connection failed",
		},
		{
			name:     "without underlying error",
			service:  "task",
			op:       "delete",
			err:      nil,
			expected: "task service delete operation failed",
		},
		{
			name:     "empty service name",
			service:  "",
			op:       "update",
			err:      errors.New("timeout"),
			expected: "service update operation failed: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ServiceError{Service: tt.service, Operation: tt.op, Err: tt.err}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestNewServiceError(t *testing.T) {
	assert.NoError(t, NewServiceError("task", "list", nil))

	t.Run("passes not-found through", func(t *testing.T) {
		err := NewServiceError("task", "update", store.ErrTaskNotFound)
		assert.Same(t, store.ErrTaskNotFound, err)
	})

	t.Run("passes validation through", func(t *testing.T) {
		in := domain.NewValidationError("title", "is required", nil)
		err := NewServiceError("task", "create", in)
		assert.Equal(t, in, err)
	})

	t.Run("wraps everything else", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewServiceError("task", "list", cause)

		var svcErr *ServiceError
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "list", svcErr.Operation)
		assert.ErrorIs(t, err, cause)
	})
}
