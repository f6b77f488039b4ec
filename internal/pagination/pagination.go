// Package pagination normalises page/limit/sort query parameters into
// bounded, safe values.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a normalised page request.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Page describes a returned page of results.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Normalize turns raw page/limit strings into Params. Non-numeric or
// non-positive values fall back to defaults; limit is capped at maxLimit
// (MaxLimit when maxLimit <= 0).
func Normalize(page, limit string, defaultLimit, maxLimit int) Params {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}

	p := atoiOr(page, DefaultPage)
	if p < 1 {
		p = DefaultPage
	}
	l := atoiOr(limit, defaultLimit)
	if l < 1 {
		l = defaultLimit
	}
	if l > maxLimit {
		l = maxLimit
	}
	// keeps Offset from overflowing
	if p > math.MaxInt/l {
		p = math.MaxInt / l
	}

	return Params{Page: p, Limit: l, Offset: (p - 1) * l}
}

// NewPage builds the response page descriptor for total results.
func (p Params) NewPage(total int) Page {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Page{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// SortField is a single ORDER BY term.
type SortField struct {
	Field string
	Desc  bool
}

// ParseSort parses a comma-separated "field,-field" expression. Fields not in
// allowed are dropped; when nothing survives, fallback is parsed instead.
func ParseSort(expr, fallback string, allowed map[string]bool) []SortField {
	fields := parseSort(expr, allowed)
	if len(fields) == 0 {
		fields = parseSort(fallback, allowed)
	}
	return fields
}

func parseSort(expr string, allowed map[string]bool) []SortField {
	var fields []SortField
	seen := make(map[string]bool)
	for _, raw := range strings.Split(expr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		desc := strings.HasPrefix(raw, "-")
		name := strings.TrimPrefix(raw, "-")
		if !allowed[name] || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, SortField{Field: name, Desc: desc})
	}
	return fields
}

// ClampLimit bounds limit to [1, max], substituting def when limit is unset.
func ClampLimit(limit, def, max int) int {
	if limit == 0 {
		limit = def
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
