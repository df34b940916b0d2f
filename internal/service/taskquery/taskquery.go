// Package taskquery evaluates task filters, ordering and pagination in memory.
// The task service uses it to answer listings from the cached snapshot, and
// the in-memory store uses it to mimic the relational store.
package taskquery

import (
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter returns the tasks matching every predicate of f, preserving order.
// The input slice is not modified.
func Filter(tasks []*domain.Task, f domain.TaskFilter) []*domain.Task {
	if f.IsEmpty() {
		return slices.Clone(tasks)
	}

	fold := cases.Fold()
	needle := fold.String(f.Title)

	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" && !strings.Contains(fold.String(t.Title), needle) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
			continue
		}
		if !f.DueDate.Contains(t.DueDate) ||
			!f.CreatedAt.Contains(t.CreatedAt) ||
			!f.UpdatedAt.Contains(t.UpdatedAt) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort returns a copy of tasks stably ordered ascending by field.
// Missing values sort last, timestamps compare by instant and text fields use
// English collation. An unknown field falls back to dueDate.
func Sort(tasks []*domain.Task, field domain.SortField) []*domain.Task {
	if !field.Valid() {
		field = domain.DefaultSortField
	}

	sorted := slices.Clone(tasks)
	cmp := comparator(field)
	slices.SortStableFunc(sorted, cmp)
	return sorted
}

func comparator(field domain.SortField) func(a, b *domain.Task) int {
	switch field {
	case domain.SortByTitle, domain.SortByStatus:
		// Collators are not safe for concurrent use, so each Sort gets its own
		col := collate.New(language.English)
		text := func(t *domain.Task) string {
			if field == domain.SortByTitle {
				return t.Title
			}
			return string(t.Status)
		}
		return func(a, b *domain.Task) int {
			return col.CompareString(text(a), text(b))
		}
	case domain.SortByID:
		return func(a, b *domain.Task) int {
			return strings.Compare(a.ID.String(), b.ID.String())
		}
	default:
		instant := timeAccessor(field)
		return func(a, b *domain.Task) int {
			return compareTimes(instant(a), instant(b))
		}
	}
}

func timeAccessor(field domain.SortField) func(*domain.Task) time.Time {
	switch field {
	case domain.SortByCreatedAt:
		return func(t *domain.Task) time.Time { return t.CreatedAt }
	case domain.SortByUpdatedAt:
		return func(t *domain.Task) time.Time { return t.UpdatedAt }
	default:
		return func(t *domain.Task) time.Time { return t.DueDate }
	}
}

// compareTimes orders zero times after every set time.
func compareTimes(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	default:
		return a.Compare(b)
	}
}

// Paginate slices items into the requested page. page is 1-based; the
// returned meta reports the total item count and ceil(total/limit) pages.
func Paginate[T any](items []T, page, limit int) domain.Page[T] {
	total := len(items)
	skip := domain.TaskQuery{Page: page, Limit: limit}.Skip()

	data := []T{}
	if skip < total && limit > 0 {
		end := min(skip+limit, total)
		data = slices.Clone(items[skip:end])
	}

	return domain.Page[T]{
		Data: data,
		Meta: domain.NewPageMeta(total, page, limit),
	}
}
