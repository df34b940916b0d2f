package domain

import (
	"errors"
	"math"
	"time"
)

// SortField names a task attribute that collections may be ordered by.
type SortField string

// Allowed sort fields
const (
	SortByID        SortField = "id"
	SortByTitle     SortField = "title"
	SortByStatus    SortField = "status"
	SortByDueDate   SortField = "dueDate"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// Query defaults and limits
const (
	DefaultSortField = SortByDueDate
	DefaultPage      = 1
	DefaultLimit     = 20
	MaxLimit         = 100

	// MaxPage keeps (page-1)*limit within int for every allowed limit.
	MaxPage = math.MaxInt / MaxLimit
)

// ErrInvalidSortField is returned when a sort field is not in the allow-list.
var ErrInvalidSortField = errors.New("invalid sort field")

// Valid reports whether f is in the allow-list.
func (f SortField) Valid() bool {
	switch f {
	case SortByID, SortByTitle, SortByStatus, SortByDueDate, SortByCreatedAt, SortByUpdatedAt:
		return true
	default:
		return false
	}
}

// TimeRange is an inclusive [From, To] bound. Either end may be open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// IsEmpty reports whether neither bound is set.
func (r TimeRange) IsEmpty() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether t falls inside the range, comparing instants.
func (r TimeRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// TaskFilter holds the optional predicates of a task listing.
type TaskFilter struct {
	// Title is matched as a case-insensitive substring.
	Title     string
	Statuses  []TaskStatus
	DueDate   TimeRange
	CreatedAt TimeRange
	UpdatedAt TimeRange
}

// IsEmpty reports whether no predicate is set.
func (f TaskFilter) IsEmpty() bool {
	return f.Title == "" &&
		len(f.Statuses) == 0 &&
		f.DueDate.IsEmpty() &&
		f.CreatedAt.IsEmpty() &&
		f.UpdatedAt.IsEmpty()
}

// TaskQuery describes a filtered, sorted, paginated listing request.
type TaskQuery struct {
	Filter TaskFilter
	SortBy SortField
	Page   int
	Limit  int
}

// Normalize fills in defaults and clamps page and limit into range.
func (q *TaskQuery) Normalize() {
	if !q.SortBy.Valid() {
		q.SortBy = DefaultSortField
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

// Skip returns the zero-based offset of the first item on the page. It is
// never negative and saturates at math.MaxInt instead of overflowing.
func (q TaskQuery) Skip() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// PageMeta describes where a page sits in the full result set.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPageMeta computes pagination metadata. totalPages is ceil(total/limit).
func NewPageMeta(total, page, limit int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
