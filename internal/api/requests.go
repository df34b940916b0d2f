package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// dateOnlyLayout is the calendar-date form accepted alongside RFC 3339.
const dateOnlyLayout = "2006-01-02"

// NewValidator returns a validator configured for request DTOs: field errors
// are reported by their JSON or query parameter name, and the custom
// notblank and isodate tags are registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := parseISODate(fl.Field().String())
		return err == nil
	})

	return v
}

// parseISODate accepts RFC 3339 timestamps (fractional seconds allowed) and
// plain YYYY-MM-DD dates, which are read as midnight UTC.
func parseISODate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateOnlyLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date", domain.ErrInvalidFormat, raw)
	}
	return t, nil
}

// decodeBody decodes a JSON request body. Malformed JSON, unknown fields and
// oversized bodies come back as ErrInvalidFormat. A missing body is reported
// as shared.ErrEmptyBody so callers can decide whether that is acceptable.
func decodeBody(r *http.Request, v interface{}) error {
	err := shared.DecodeJSON(r, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrEmptyBody):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
}

// parseCreateRequest decodes and validates a create payload.
func parseCreateRequest(r *http.Request, v *validator.Validate) (domain.CreateTaskInput, error) {
	var req CreateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return domain.CreateTaskInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
		}
		return domain.CreateTaskInput{}, err
	}
	if err := v.Struct(req); err != nil {
		return domain.CreateTaskInput{}, err
	}

	dueDate, err := parseISODate(req.DueDate)
	if err != nil {
		return domain.CreateTaskInput{}, domain.NewValidationError("dueDate", "must be an ISO-8601 date", err)
	}

	return domain.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		DueDate:     dueDate,
	}, nil
}

// parseUpdateRequest decodes and validates a partial update. An empty body
// is an empty patch.
func parseUpdateRequest(r *http.Request, v *validator.Validate) (domain.UpdateTaskInput, error) {
	var req UpdateTaskRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		return domain.UpdateTaskInput{}, err
	}
	if err := v.Struct(req); err != nil {
		return domain.UpdateTaskInput{}, err
	}

	patch := domain.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.DueDate != nil {
		dueDate, err := parseISODate(*req.DueDate)
		if err != nil {
			return domain.UpdateTaskInput{}, domain.NewValidationError("dueDate", "must be an ISO-8601 date", err)
		}
		patch.DueDate = &dueDate
	}
	return patch, nil
}

// parseListQuery turns the query string of GET /api/tasks into a TaskQuery.
// Unknown parameters are ignored.
func parseListQuery(values url.Values, v *validator.Validate) (domain.TaskQuery, error) {
	q := ListTasksQuery{
		Title:         values.Get("title"),
		Status:        splitList(values["status"]),
		DueDateFrom:   values.Get("dueDateFrom"),
		DueDateTo:     values.Get("dueDateTo"),
		CreatedAtFrom: values.Get("createdAtFrom"),
		CreatedAtTo:   values.Get("createdAtTo"),
		UpdatedAtFrom: values.Get("updatedAtFrom"),
		UpdatedAtTo:   values.Get("updatedAtTo"),
		SortBy:        values.Get("sortBy"),
	}

	var err error
	if q.Page, err = parseOptionalInt(values, "page"); err != nil {
		return domain.TaskQuery{}, err
	}
	if q.Limit, err = parseOptionalInt(values, "limit"); err != nil {
		return domain.TaskQuery{}, err
	}
	if err := v.Struct(q); err != nil {
		return domain.TaskQuery{}, err
	}

	filter := domain.TaskFilter{Title: q.Title}
	for _, s := range q.Status {
		filter.Statuses = append(filter.Statuses, domain.TaskStatus(s))
	}
	if filter.DueDate, err = parseRange("dueDate", q.DueDateFrom, q.DueDateTo); err != nil {
		return domain.TaskQuery{}, err
	}
	if filter.CreatedAt, err = parseRange("createdAt", q.CreatedAtFrom, q.CreatedAtTo); err != nil {
		return domain.TaskQuery{}, err
	}
	if filter.UpdatedAt, err = parseRange("updatedAt", q.UpdatedAtFrom, q.UpdatedAtTo); err != nil {
		return domain.TaskQuery{}, err
	}

	query := domain.TaskQuery{
		Filter: filter,
		SortBy: domain.SortField(q.SortBy),
	}
	if q.Page != nil {
		query.Page = *q.Page
	}
	if q.Limit != nil {
		query.Limit = *q.Limit
	}
	query.Normalize()
	return query, nil
}

// splitList flattens repeated and comma-separated values, dropping blanks.
func splitList(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseOptionalInt(values url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer", domain.ErrInvalidFormat)
	}
	return &n, nil
}

// parseRange parses an inclusive range whose bounds were already checked by
// the isodate tag, and rejects ranges whose start is after their end.
func parseRange(field, from, to string) (domain.TimeRange, error) {
	var r domain.TimeRange
	if from != "" {
		t, err := parseISODate(from)
		if err != nil {
			return r, domain.NewValidationError(field+"From", "must be an ISO-8601 date", err)
		}
		r.From = &t
	}
	if to != "" {
		t, err := parseISODate(to)
		if err != nil {
			return r, domain.NewValidationError(field+"To", "must be an ISO-8601 date", err)
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return r, domain.NewValidationError(field+"From", "must not be after "+field+"To", nil)
	}
	return r, nil
}
