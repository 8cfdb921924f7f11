package repositories

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BradenHooton/searchdesk/internal/models"
)

const (
	defaultListLimit = 20
	maxListLimit     = models.MaxListLimit
)

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// listSpec describes how a table may be listed. The maps translate public
// field names into SQL expressions, so nothing user-supplied reaches the query text.
type listSpec struct {
	table      string
	columns    string
	searchable map[string]string
	filterable map[string]string
	orderBy    string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where builds the WHERE clause and its arguments for f.
func (s listSpec) where(f models.ListFilter) (string, []any, error) {
	var (
		clauses []string
		args    []any
	)

	if search := strings.TrimSpace(f.Search); search != "" && len(f.SearchColumns) > 0 {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))

		ors := make([]string, 0, len(f.SearchColumns))
		for _, name := range f.SearchColumns {
			expr, ok := s.searchable[name]
			if !ok {
				return "", nil, fmt.Errorf("%w: column %q is not searchable", models.ErrBadRequest, name)
			}
			ors = append(ors, expr+" ILIKE "+placeholder)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	// Sorted so the generated SQL is stable for a given filter.
	names := make([]string, 0, len(f.Equals))
	for name := range f.Equals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		expr, ok := s.filterable[name]
		if !ok {
			return "", nil, fmt.Errorf("%w: column %q is not filterable", models.ErrBadRequest, name)
		}
		args = append(args, f.Equals[name])
		clauses = append(clauses, fmt.Sprintf("%s = $%d", expr, len(args)))
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// selectQuery returns a paginated SELECT for f.
func (s listSpec) selectQuery(f models.ListFilter) (string, []any, error) {
	where, args, err := s.where(f)
	if err != nil {
		return "", nil, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		s.columns, s.table, where, s.orderBy, len(args)-1, len(args))
	return query, args, nil
}

// countQuery returns a SELECT COUNT(*) honoring the same filter.
func (s listSpec) countQuery(f models.ListFilter) (string, []any, error) {
	where, args, err := s.where(f)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + s.table + where, args, nil
}

// nonNil keeps empty reference lists from being sent as SQL NULL.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
