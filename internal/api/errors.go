package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Client-facing messages
const (
	msgTaskNotFound    = "Task not found"
	msgUnexpectedError = "An unexpected error occurred"
	msgInvalidRequest  = "Invalid request format"
	msgInvalidEntity   = "Invalid entity data"
	msgConflict        = "Task already exists"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpectedError
	}

	var validationErr *domain.ValidationError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, store.ErrNotFound):
		return msgTaskNotFound

	case errors.As(err, &validationErr):
		if validationErr.Field == "" {
			return "Validation error: " + validationErr.Message
		}
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)

	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidEntity

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrValidation):
		return msgInvalidRequest

	case errors.Is(err, store.ErrDuplicate):
		return msgConflict

	default:
		return msgUnexpectedError
	}
}

// SanitizeValidationError turns validator failures into a short message that
// names the first offending field by its JSON or query name.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "notblank":
		return "cannot be blank"
	case "isodate":
		return "must be an ISO-8601 date"
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status and safe message and writes it.
// A non-empty message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
