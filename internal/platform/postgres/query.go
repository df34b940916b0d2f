package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// sortColumns maps allow-listed sort fields to column names. Only values
// from this map are ever interpolated into SQL.
var sortColumns = map[domain.SortField]string{
	domain.SortByID:        "id",
	domain.SortByTitle:     "title",
	domain.SortByStatus:    "status",
	domain.SortByDueDate:   "due_date",
	domain.SortByCreatedAt: "created_at",
	domain.SortByUpdatedAt: "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause accumulates parameterized predicates joined with AND.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(format, len(w.args)))
}

func (w *whereClause) addRange(column string, r domain.TimeRange) {
	if r.From != nil {
		w.add(column+" >= $%d", *r.From)
	}
	if r.To != nil {
		w.add(column+" <= $%d", *r.To)
	}
}

// String renders the clause including the WHERE keyword, or "" when empty.
func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// buildWhere translates a filter into a WHERE clause whose placeholders
// start at $1. A nil filter yields an empty clause.
func buildWhere(filter *domain.TaskFilter) *whereClause {
	w := &whereClause{}
	if filter == nil {
		return w
	}

	if filter.Title != "" {
		w.add(`title ILIKE '%%' || $%d || '%%'`, likeEscaper.Replace(filter.Title))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		w.add("status = ANY($%d::text[])", statuses)
	}

	w.addRange("due_date", filter.DueDate)
	w.addRange("created_at", filter.CreatedAt)
	w.addRange("updated_at", filter.UpdatedAt)

	return w
}

// orderByClause returns an ascending ORDER BY with id as the tiebreaker.
// Unknown or empty fields order by creation.
func orderByClause(field domain.SortField) string {
	column, ok := sortColumns[field]
	if !ok {
		column = "created_at"
	}
	if column == "id" {
		return " ORDER BY id ASC"
	}
	return fmt.Sprintf(" ORDER BY %s ASC, id ASC", column)
}
