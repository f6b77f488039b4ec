package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
)

func TestConditions_Placeholders(t *testing.T) {
	c := &conditions{}
	assert.Equal(t, "", c.where())

	c.add("status = ?", "published")
	c.add("parent_id IS NULL")
	c.add("(name ILIKE ? OR email ILIKE ?)", "%a%", "%a%")

	assert.Equal(t, " WHERE status = $1 AND parent_id IS NULL AND (name ILIKE $2 OR email ILIKE $3)", c.where())
	assert.Equal(t, []interface{}{"published", "%a%", "%a%"}, c.args)

	clause, args := c.page(ListOptions{Limit: 10, Offset: 20})
	assert.Equal(t, " LIMIT $4 OFFSET $5", clause)
	assert.Equal(t, []interface{}{"published", "%a%", "%a%", 10, 20}, args)
	assert.Len(t, c.args, 3, "paging must not mutate the filter arguments")

	clause, args = c.page(ListOptions{})
	assert.Equal(t, "", clause)
	assert.Len(t, args, 3)
}

func TestArticleConditions(t *testing.T) {
	published := models.ArticleStatusPublished
	to := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	featured := true

	c := articleConditions(ArticleFilter{
		Status:      &published,
		PublishedTo: &to,
		Tag:         "election",
		Search:      "50%",
		IsFeatured:  &featured,
		ExcludeID:   "a1",
	})

	assert.Equal(t, " WHERE status = $1 AND published_at <= $2 AND $3 = ANY(tags)"+
		" AND (title_en ILIKE $4 OR title_bn ILIKE $5 OR content_en ILIKE $6 OR content_bn ILIKE $7)"+
		" AND is_featured = $8 AND id <> $9", c.where())
	assert.Equal(t, `%50\%%`, c.args[3])
	assert.Len(t, c.args, 9)
}

func TestCategoryAndUserConditions(t *testing.T) {
	active := true
	c := categoryConditions(CategoryFilter{IsActive: &active, RootOnly: true})
	assert.Equal(t, " WHERE is_active = $1 AND parent_id IS NULL", c.where())

	since := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	u := userConditions(UserFilter{Role: models.RoleAdmin, LastLoginFrom: &since})
	assert.Equal(t, " WHERE role = $1 AND last_login >= $2", u.where())
	assert.Equal(t, []interface{}{models.RoleAdmin, since}, u.args)
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name   string
		fields []pagination.SortField
		want   string
	}{
		{"fallback when empty", nil, " ORDER BY created_at DESC"},
		{"unknown fields dropped", []pagination.SortField{{Field: "password"}}, " ORDER BY created_at DESC"},
		{"mixed directions", []pagination.SortField{{Field: "views", Desc: true}, {Field: "title"}}, " ORDER BY views DESC NULLS LAST, title_en ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.fields, articleSortColumns, "created_at DESC"))
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%dhaka%", likePattern("dhaka"))
	assert.Equal(t, `%a\_b\%c\\%`, likePattern(`a_b%c\`))
}

func TestTranslate(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pq.Error{Code: uniqueViolation}, ErrDuplicate},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: uniqueViolation}), ErrDuplicate},
		{"foreign key violation", &pq.Error{Code: foreignKeyViolation}, ErrReferenced},
		{"other driver error", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err), tt.want)
		})
	}

	other := &pq.Error{Code: "42P01"}
	assert.Same(t, other, translate(other))
}
