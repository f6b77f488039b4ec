package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/news-portal-api/internal/database"
	"github.com/news-portal-api/internal/models"
)

const articleColumns = `id, title_en, title_bn, slug, excerpt_en, excerpt_bn, content_en, content_bn,
	featured_image, category_id, author_id, tags, status, published_at, scheduled_at,
	is_featured, is_breaking, is_trending, allow_comments, views, likes, shares, read_time,
	created_at, updated_at`

var articleSortColumns = map[string]string{
	"publishedAt": "published_at",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"views":       "views",
	"likes":       "likes",
	"shares":      "shares",
	"title":       "title_en",
}

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanArticle maps flat bilingual columns onto the Localized API shape.
func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var publishedAt, scheduledAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.Title.En, &a.Title.Bn, &a.Slug, &a.Excerpt.En, &a.Excerpt.Bn, &a.Content.En, &a.Content.Bn,
		&a.FeaturedImage, &a.CategoryID, &a.AuthorID, pq.Array(&a.Tags), &a.Status, &publishedAt, &scheduledAt,
		&a.IsFeatured, &a.IsBreaking, &a.IsTrending, &a.AllowComments, &a.Views, &a.Likes, &a.Shares, &a.ReadTime,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	if scheduledAt.Valid {
		a.ScheduledAt = &scheduledAt.Time
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

func articleConditions(f ArticleFilter) *conditions {
	c := &conditions{}
	if f.Status != nil {
		c.add("status = ?", *f.Status)
	}
	if f.PublishedFrom != nil {
		c.add("published_at >= ?", *f.PublishedFrom)
	}
	if f.PublishedTo != nil {
		c.add("published_at <= ?", *f.PublishedTo)
	}
	if f.AuthorID != "" {
		c.add("author_id = ?", f.AuthorID)
	}
	if f.CategoryID != "" {
		c.add("category_id = ?", f.CategoryID)
	}
	if f.Tag != "" {
		c.add("? = ANY(tags)", f.Tag)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		c.add("(title_en ILIKE ? OR title_bn ILIKE ? OR content_en ILIKE ? OR content_bn ILIKE ?)", p, p, p, p)
	}
	if f.IsFeatured != nil {
		c.add("is_featured = ?", *f.IsFeatured)
	}
	if f.IsBreaking != nil {
		c.add("is_breaking = ?", *f.IsBreaking)
	}
	if f.IsTrending != nil {
		c.add("is_trending = ?", *f.IsTrending)
	}
	if f.ExcludeID != "" {
		c.add("id <> ?", f.ExcludeID)
	}
	return c
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, a *models.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Title.En, a.Title.Bn, a.Slug, a.Excerpt.En, a.Excerpt.Bn, a.Content.En, a.Content.Bn,
		a.FeaturedImage, a.CategoryID, a.AuthorID, pq.Array(a.Tags), a.Status, a.PublishedAt, a.ScheduledAt,
		a.IsFeatured, a.IsBreaking, a.IsTrending, a.AllowComments, a.Views, a.Likes, a.Shares, a.ReadTime,
		a.CreatedAt, a.UpdatedAt,
	)
	return translate(err)
}

// Update writes the editable columns of an article. Counters and author_id
// are never touched, and published_at is only set while still NULL.
func (r *articleRepo) Update(ctx context.Context, a *models.Article) error {
	query := `
		UPDATE articles SET
			title_en = $2, title_bn = $3, slug = $4, excerpt_en = $5, excerpt_bn = $6,
			content_en = $7, content_bn = $8, featured_image = $9, category_id = $10, tags = $11,
			status = $12, published_at = COALESCE(published_at, $13), scheduled_at = $14,
			is_featured = $15, is_breaking = $16, is_trending = $17, allow_comments = $18,
			read_time = $19, updated_at = $20
		WHERE id = $1
		RETURNING published_at
	`
	var publishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Title.En, a.Title.Bn, a.Slug, a.Excerpt.En, a.Excerpt.Bn,
		a.Content.En, a.Content.Bn, a.FeaturedImage, a.CategoryID, pq.Array(a.Tags),
		a.Status, a.PublishedAt, a.ScheduledAt,
		a.IsFeatured, a.IsBreaking, a.IsTrending, a.AllowComments,
		a.ReadTime, a.UpdatedAt,
	).Scan(&publishedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return translate(err)
	}
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return nil
}

// Delete removes an article
func (r *articleRepo) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "DELETE FROM articles WHERE id = $1", id)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *articleRepo) getOne(ctx context.Context, column, value string) (*models.Article, error) {
	query := fmt.Sprintf("SELECT %s FROM articles WHERE %s = $1", articleColumns, column)
	a, err := scanArticle(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// SlugExists checks if another article already uses slug
func (r *articleRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id::text <> $2)", slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// List returns one page of matching articles and the total match count
func (r *articleRepo) List(ctx context.Context, f ArticleFilter, opts ListOptions) ([]*models.Article, int, error) {
	c := articleConditions(f)

	total, err := r.count(ctx, c)
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(opts)
	query := "SELECT " + articleColumns + " FROM articles" + c.where() +
		orderBy(opts.Sort, articleSortColumns, "published_at DESC NULLS LAST, created_at DESC") + limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, a)
	}
	return articles, total, rows.Err()
}

// Count returns the number of matching articles
func (r *articleRepo) Count(ctx context.Context, f ArticleFilter) (int, error) {
	return r.count(ctx, articleConditions(f))
}

func (r *articleRepo) count(ctx context.Context, c *conditions) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles"+c.where(), c.args...).Scan(&count)
	return count, err
}

// SumViews returns the summed views of matching articles
func (r *articleRepo) SumViews(ctx context.Context, f ArticleFilter) (int64, error) {
	c := articleConditions(f)
	var sum int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(views), 0) FROM articles"+c.where(), c.args...).Scan(&sum)
	return sum, err
}

// CountByStatus returns article counts keyed by status
func (r *articleRepo) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM articles GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ArticleStatus]int)
	for rows.Next() {
		var status models.ArticleStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// GroupByCategory returns matching article counts and views per category
func (r *articleRepo) GroupByCategory(ctx context.Context, f ArticleFilter) ([]GroupCount, error) {
	c := articleConditions(f)
	query := "SELECT category_id, COUNT(*), COALESCE(SUM(views), 0) FROM articles" + c.where() + " GROUP BY category_id"

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Key, &g.Count, &g.Views); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CountByAuthor returns article counts keyed by author ID
func (r *articleRepo) CountByAuthor(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT author_id, COUNT(*) FROM articles GROUP BY author_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Increment atomically adds n to a counter and returns the updated article,
// or nil when the article does not exist.
func (r *articleRepo) Increment(ctx context.Context, id string, counter models.ArticleCounter, n int64) (*models.Article, error) {
	var column string
	switch counter {
	case models.CounterViews, models.CounterLikes, models.CounterShares:
		column = string(counter)
	default:
		return nil, fmt.Errorf("unknown article counter %q", counter)
	}

	query := fmt.Sprintf("UPDATE articles SET %[1]s = %[1]s + $2 WHERE id = $1 RETURNING %[2]s", column, articleColumns)
	a, err := scanArticle(r.db.QueryRowContext(ctx, query, id, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// StreamAll streams matching articles ordered by publication time
func (r *articleRepo) StreamAll(ctx context.Context, f ArticleFilter, callback func(*models.Article) error) error {
	c := articleConditions(f)
	query := "SELECT " + articleColumns + " FROM articles" + c.where() + " ORDER BY published_at, created_at"

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

// execAffecting runs a statement and reports ErrNotFound when no row changed.
func execAffecting(ctx context.Context, db *database.DB, query string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

