package repository

import (
	"fmt"
	"strings"

	"github.com/news-portal-api/internal/pagination"
)

// ListOptions controls ordering and paging of list queries. A zero Limit
// returns every matching row.
type ListOptions struct {
	Sort   []pagination.SortField
	Limit  int
	Offset int
}

// conditions accumulates WHERE clauses with numbered placeholders.
type conditions struct {
	clauses []string
	args    []interface{}
}

// add appends clause, replacing each '?' with the next positional placeholder.
func (c *conditions) add(clause string, args ...interface{}) {
	var b strings.Builder
	i := 0
	for _, r := range clause {
		if r == '?' && i < len(args) {
			c.args = append(c.args, args[i])
			fmt.Fprintf(&b, "$%d", len(c.args))
			i++
			continue
		}
		b.WriteRune(r)
	}
	c.clauses = append(c.clauses, b.String())
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page renders LIMIT/OFFSET using the next placeholders.
func (c *conditions) page(opts ListOptions) (string, []interface{}) {
	args := append([]interface{}{}, c.args...)
	if opts.Limit <= 0 {
		return "", args
	}
	args = append(args, opts.Limit, opts.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// orderBy renders ORDER BY from whitelisted sort fields. columns maps API
// field names to SQL expressions; unknown fields are skipped.
func orderBy(fields []pagination.SortField, columns map[string]string, fallback string) string {
	var parts []string
	for _, f := range fields {
		col, ok := columns[f.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Desc {
			dir = "DESC NULLS LAST"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return " ORDER BY " + fallback
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
