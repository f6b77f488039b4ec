package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/news-portal-api/internal/database"
	"github.com/news-portal-api/internal/models"
)

const categoryColumns = `id, name_en, name_bn, slug, description_en, description_bn, parent_id, image,
	sort_order, is_active, show_in_menu, created_at, updated_at`

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	var parentID sql.NullString

	err := row.Scan(
		&c.ID, &c.Name.En, &c.Name.Bn, &c.Slug, &c.Description.En, &c.Description.Bn, &parentID, &c.Image,
		&c.Order, &c.IsActive, &c.ShowInMenu, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return &c, nil
}

func categoryConditions(f CategoryFilter) *conditions {
	c := &conditions{}
	if f.IsActive != nil {
		c.add("is_active = ?", *f.IsActive)
	}
	if f.ShowInMenu != nil {
		c.add("show_in_menu = ?", *f.ShowInMenu)
	}
	if f.RootOnly {
		c.add("parent_id IS NULL")
	}
	if f.ParentID != "" {
		c.add("parent_id = ?", f.ParentID)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		c.add("(name_en ILIKE ? OR name_bn ILIKE ?)", p, p)
	}
	return c
}

// Create inserts a new category
func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name.En, c.Name.Bn, c.Slug, c.Description.En, c.Description.Bn, c.ParentID, c.Image,
		c.Order, c.IsActive, c.ShowInMenu, c.CreatedAt, c.UpdatedAt,
	)
	return translate(err)
}

// Update writes every editable column of a category
func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	query := `
		UPDATE categories SET
			name_en = $2, name_bn = $3, slug = $4, description_en = $5, description_bn = $6,
			parent_id = $7, image = $8, sort_order = $9, is_active = $10, show_in_menu = $11,
			updated_at = $12
		WHERE id = $1
	`
	return execAffecting(ctx, r.db, query,
		c.ID, c.Name.En, c.Name.Bn, c.Slug, c.Description.En, c.Description.Bn,
		c.ParentID, c.Image, c.Order, c.IsActive, c.ShowInMenu, c.UpdatedAt,
	)
}

// Delete removes a category
func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "DELETE FROM categories WHERE id = $1", id)
}

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a category by slug
func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *categoryRepo) getOne(ctx context.Context, column, value string) (*models.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE %s = $1", categoryColumns, column)
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// SlugExists checks if another category already uses slug
func (r *categoryRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1 AND id::text <> $2)", slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// List returns matching categories in menu order
func (r *categoryRepo) List(ctx context.Context, f CategoryFilter) ([]*models.Category, error) {
	c := categoryConditions(f)
	query := "SELECT " + categoryColumns + " FROM categories" + c.where() + " ORDER BY sort_order, name_en"

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// Count returns the number of matching categories
func (r *categoryRepo) Count(ctx context.Context, f CategoryFilter) (int, error) {
	c := categoryConditions(f)
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories"+c.where(), c.args...).Scan(&count)
	return count, err
}
