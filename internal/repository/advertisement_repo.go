package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/news-portal-api/internal/database"
	"github.com/news-portal-api/internal/models"
)

const advertisementColumns = `id, name, title_en, title_bn, description_en, description_bn, type, position,
	image_url, link_url, open_in_new_tab, start_date, end_date, is_active, priority, display_pages,
	impressions, clicks, created_at, updated_at`

var advertisementSortColumns = map[string]string{
	"priority":    "priority",
	"createdAt":   "created_at",
	"startDate":   "start_date",
	"endDate":     "end_date",
	"impressions": "impressions",
	"clicks":      "clicks",
	"name":        "name",
}

// advertisementRepo is the concrete implementation of AdvertisementRepository
type advertisementRepo struct {
	db *database.DB
}

// NewAdvertisementRepo creates a new advertisement repository
func NewAdvertisementRepo(db *database.DB) AdvertisementRepository {
	return &advertisementRepo{db: db}
}

func scanAdvertisement(row rowScanner) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := row.Scan(
		&ad.ID, &ad.Name, &ad.Title.En, &ad.Title.Bn, &ad.Description.En, &ad.Description.Bn, &ad.Type, &ad.Position,
		&ad.ImageURL, &ad.LinkURL, &ad.OpenInNewTab, &ad.StartDate, &ad.EndDate, &ad.IsActive, &ad.Priority,
		pq.Array(&ad.DisplayPages), &ad.Impressions, &ad.Clicks, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ad.DisplayPages == nil {
		ad.DisplayPages = []string{}
	}
	return &ad, nil
}

func advertisementConditions(f AdvertisementFilter) *conditions {
	c := &conditions{}
	if f.IsActive != nil {
		c.add("is_active = ?", *f.IsActive)
	}
	if f.ActiveAt != nil {
		c.add("start_date <= ? AND end_date >= ?", *f.ActiveAt, *f.ActiveAt)
	}
	if f.StartsBefore != nil {
		c.add("start_date <= ?", *f.StartsBefore)
	}
	if f.EndsAfter != nil {
		c.add("end_date >= ?", *f.EndsAfter)
	}
	if f.Type != "" {
		c.add("type = ?", f.Type)
	}
	if f.Position != "" {
		c.add("position = ?", f.Position)
	}
	if f.Page != "" {
		c.add("(? = ANY(display_pages) OR 'all' = ANY(display_pages))", f.Page)
	}
	return c
}

// Create inserts a new advertisement
func (r *advertisementRepo) Create(ctx context.Context, ad *models.Advertisement) error {
	query := `
		INSERT INTO advertisements (` + advertisementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.db.ExecContext(ctx, query,
		ad.ID, ad.Name, ad.Title.En, ad.Title.Bn, ad.Description.En, ad.Description.Bn, ad.Type, ad.Position,
		ad.ImageURL, ad.LinkURL, ad.OpenInNewTab, ad.StartDate, ad.EndDate, ad.IsActive, ad.Priority,
		pq.Array(ad.DisplayPages), ad.Impressions, ad.Clicks, ad.CreatedAt, ad.UpdatedAt,
	)
	return translate(err)
}

// Update writes the editable columns of an advertisement; counters are left alone
func (r *advertisementRepo) Update(ctx context.Context, ad *models.Advertisement) error {
	query := `
		UPDATE advertisements SET
			name = $2, title_en = $3, title_bn = $4, description_en = $5, description_bn = $6,
			type = $7, position = $8, image_url = $9, link_url = $10, open_in_new_tab = $11,
			start_date = $12, end_date = $13, is_active = $14, priority = $15, display_pages = $16,
			updated_at = $17
		WHERE id = $1
	`
	return execAffecting(ctx, r.db, query,
		ad.ID, ad.Name, ad.Title.En, ad.Title.Bn, ad.Description.En, ad.Description.Bn,
		ad.Type, ad.Position, ad.ImageURL, ad.LinkURL, ad.OpenInNewTab,
		ad.StartDate, ad.EndDate, ad.IsActive, ad.Priority, pq.Array(ad.DisplayPages),
		ad.UpdatedAt,
	)
}

// Delete removes an advertisement
func (r *advertisementRepo) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "DELETE FROM advertisements WHERE id = $1", id)
}

// GetByID retrieves an advertisement by ID
func (r *advertisementRepo) GetByID(ctx context.Context, id string) (*models.Advertisement, error) {
	query := "SELECT " + advertisementColumns + " FROM advertisements WHERE id = $1"
	ad, err := scanAdvertisement(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ad, err
}

// List returns one page of matching advertisements and the total match count
func (r *advertisementRepo) List(ctx context.Context, f AdvertisementFilter, opts ListOptions) ([]*models.Advertisement, int, error) {
	c := advertisementConditions(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM advertisements"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(opts)
	query := "SELECT " + advertisementColumns + " FROM advertisements" + c.where() +
		orderBy(opts.Sort, advertisementSortColumns, "priority DESC, created_at DESC") + limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ads := make([]*models.Advertisement, 0)
	for rows.Next() {
		ad, err := scanAdvertisement(rows)
		if err != nil {
			return nil, 0, err
		}
		ads = append(ads, ad)
	}
	return ads, total, rows.Err()
}

// Count returns the number of matching advertisements
func (r *advertisementRepo) Count(ctx context.Context, f AdvertisementFilter) (int, error) {
	c := advertisementConditions(f)
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM advertisements"+c.where(), c.args...).Scan(&count)
	return count, err
}

// Increment atomically adds n to a tracking counter and returns the updated
// advertisement, or nil when it does not exist.
func (r *advertisementRepo) Increment(ctx context.Context, id string, counter models.AdCounter, n int64) (*models.Advertisement, error) {
	var column string
	switch counter {
	case models.CounterImpressions, models.CounterClicks:
		column = string(counter)
	default:
		return nil, fmt.Errorf("unknown advertisement counter %q", counter)
	}

	query := fmt.Sprintf("UPDATE advertisements SET %[1]s = %[1]s + $2 WHERE id = $1 RETURNING %[2]s", column, advertisementColumns)
	ad, err := scanAdvertisement(r.db.QueryRowContext(ctx, query, id, n))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ad, err
}
