package taskquery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 12, d, 0, 0, 0, 0, time.UTC)
}

func newTask(title string, status domain.TaskStatus, due time.Time) *domain.Task {
	created := day(1)
	return &domain.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    status,
		DueDate:   due,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestFilterTitleIsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	tasks := []*domain.Task{
		newTask("Write DOCS", domain.TaskStatusPending, day(31)),
		newTask("Ship release", domain.TaskStatusCompleted, day(20)),
		newTask("Review docstrings", domain.TaskStatusInProgress, day(25)),
	}

	got := Filter(tasks, domain.TaskFilter{Title: "docs"})

	assert.Equal(t, []string{"Write DOCS", "Review docstrings"}, titles(got))
}

func TestFilterStatusSet(t *testing.T) {
	t.Parallel()

	tasks := []*domain.Task{
		newTask("a", domain.TaskStatusPending, day(1)),
		newTask("b", domain.TaskStatusCompleted, day(2)),
		newTask("c", domain.TaskStatusInProgress, day(3)),
	}

	got := Filter(tasks, domain.TaskFilter{
		Statuses: []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress},
	})

	assert.Equal(t, []string{"a", "c"}, titles(got))
	for _, task := range got {
		assert.NotEqual(t, domain.TaskStatusCompleted, task.Status)
	}
}

func TestFilterDateRangesAreInclusive(t *testing.T) {
	t.Parallel()

	early := newTask("early", domain.TaskStatusPending, day(10))
	onFrom := newTask("onFrom", domain.TaskStatusPending, day(20))
	onTo := newTask("onTo", domain.TaskStatusPending, day(25))
	late := newTask("late", domain.TaskStatusPending, day(26))
	late.UpdatedAt = day(5)

	from, to := day(20), day(25)
	got := Filter([]*domain.Task{early, onFrom, onTo, late}, domain.TaskFilter{
		DueDate: domain.TimeRange{From: &from, To: &to},
	})
	assert.Equal(t, []string{"onFrom", "onTo"}, titles(got))

	updatedFrom := day(2)
	got = Filter([]*domain.Task{early, late}, domain.TaskFilter{
		UpdatedAt: domain.TimeRange{From: &updatedFrom},
	})
	assert.Equal(t, []string{"late"}, titles(got))

	createdTo := day(1)
	got = Filter([]*domain.Task{early, late}, domain.TaskFilter{
		CreatedAt: domain.TimeRange{To: &createdTo},
	})
	assert.Len(t, got, 2)
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	tasks := []*domain.Task{newTask("a", domain.TaskStatusPending, day(1))}
	got := Filter(tasks, domain.TaskFilter{})
	got[0] = nil
	assert.NotNil(t, tasks[0])
}

func TestSortByDueDate(t *testing.T) {
	t.Parallel()

	a := newTask("Write docs", domain.TaskStatusPending, day(31))
	b := newTask("Ship release", domain.TaskStatusCompleted, day(20))

	got := Sort([]*domain.Task{a, b}, domain.SortByDueDate)

	assert.Equal(t, []string{"Ship release", "Write docs"}, titles(got))
	assert.Equal(t, "Write docs", titles([]*domain.Task{a})[0], "input order is untouched")
}

func TestSortIsStable(t *testing.T) {
	t.Parallel()

	tasks := []*domain.Task{
		newTask("first", domain.TaskStatusPending, day(5)),
		newTask("second", domain.TaskStatusCompleted, day(5)),
		newTask("third", domain.TaskStatusPending, day(1)),
		newTask("fourth", domain.TaskStatusPending, day(5)),
	}

	got := Sort(tasks, domain.SortByDueDate)
	assert.Equal(t, []string{"third", "first", "second", "fourth"}, titles(got))

	got = Sort(tasks, domain.SortByStatus)
	assert.Equal(t, []string{"second", "first", "third", "fourth"}, titles(got))
}

func TestSortTitleUsesCollation(t *testing.T) {
	t.Parallel()

	tasks := []*domain.Task{
		newTask("banana", domain.TaskStatusPending, day(1)),
		newTask("Cherry", domain.TaskStatusPending, day(1)),
		newTask("apple", domain.TaskStatusPending, day(1)),
	}

	got := Sort(tasks, domain.SortByTitle)

	// Byte order would put "Cherry" first.
	assert.Equal(t, []string{"apple", "banana", "Cherry"}, titles(got))
}

func TestSortZeroTimesLast(t *testing.T) {
	t.Parallel()

	missing := newTask("missing", domain.TaskStatusPending, time.Time{})
	set := newTask("set", domain.TaskStatusPending, day(3))

	got := Sort([]*domain.Task{missing, set}, domain.SortByDueDate)
	assert.Equal(t, []string{"set", "missing"}, titles(got))
}

func TestSortByIDAndTimestamps(t *testing.T) {
	t.Parallel()

	a := newTask("a", domain.TaskStatusPending, day(1))
	b := newTask("b", domain.TaskStatusPending, day(1))
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	a.CreatedAt, b.CreatedAt = day(2), day(3)
	a.UpdatedAt, b.UpdatedAt = day(9), day(4)

	assert.Equal(t, []string{"b", "a"}, titles(Sort([]*domain.Task{a, b}, domain.SortByID)))
	assert.Equal(t, []string{"a", "b"}, titles(Sort([]*domain.Task{a, b}, domain.SortByCreatedAt)))
	assert.Equal(t, []string{"b", "a"}, titles(Sort([]*domain.Task{a, b}, domain.SortByUpdatedAt)))
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name        string
		page, limit int
		wantData    []int
		wantPages   int
	}{
		{name: "first page", page: 1, limit: 3, wantData: []int{1, 2, 3}, wantPages: 3},
		{name: "last partial page", page: 3, limit: 3, wantData: []int{7}, wantPages: 3},
		{name: "beyond last page", page: 4, limit: 3, wantData: []int{}, wantPages: 3},
		{name: "exact fit", page: 1, limit: 7, wantData: items, wantPages: 1},
		{name: "offset beyond int range", page: 1e17, limit: 100, wantData: []int{}, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.page, tt.limit)
			assert.Equal(t, tt.wantData, got.Data)
			assert.Equal(t, len(items), got.Meta.Total)
			assert.Equal(t, tt.page, got.Meta.Page)
			assert.Equal(t, tt.limit, got.Meta.Limit)
			assert.Equal(t, tt.wantPages, got.Meta.TotalPages)
		})
	}
}

// TestPaginateSliceLength checks len(data) == min(limit, max(0, total-(page-1)*limit)).
func TestPaginateSliceLength(t *testing.T) {
	t.Parallel()

	for total := 0; total <= 12; total++ {
		items := make([]int, total)
		for limit := 1; limit <= 5; limit++ {
			for page := 1; page <= 5; page++ {
				got := Paginate(items, page, limit)
				want := min(limit, max(0, total-(page-1)*limit))
				require.Len(t, got.Data, want, "total=%d page=%d limit=%d", total, page, limit)
				require.Equal(t, (total+limit-1)/limit, got.Meta.TotalPages)
			}
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	t.Parallel()

	got := Paginate([]*domain.Task(nil), 1, 20)
	assert.NotNil(t, got.Data)
	assert.Empty(t, got.Data)
	assert.Equal(t, 0, got.Meta.TotalPages)
}
