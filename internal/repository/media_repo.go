package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/news-portal-api/internal/database"
	"github.com/news-portal-api/internal/models"
)

const mediaColumns = `id, filename, original_name, url, object_key, mime_type, type, size, width, height, duration,
	uploader_id, folder, tags, alt_en, alt_bn, caption_en, caption_bn, is_public, created_at, updated_at`

var mediaSortColumns = map[string]string{
	"createdAt": "created_at",
	"size":      "size",
	"filename":  "filename",
}

// mediaRepo is the concrete implementation of MediaRepository
type mediaRepo struct {
	db *database.DB
}

// NewMediaRepo creates a new media repository
func NewMediaRepo(db *database.DB) MediaRepository {
	return &mediaRepo{db: db}
}

func scanMedia(row rowScanner) (*models.Media, error) {
	var m models.Media
	var width, height sql.NullInt32
	var duration sql.NullFloat64

	err := row.Scan(
		&m.ID, &m.Filename, &m.OriginalName, &m.URL, &m.ObjectKey, &m.MimeType, &m.Type, &m.Size,
		&width, &height, &duration,
		&m.UploaderID, &m.Folder, pq.Array(&m.Tags), &m.Alt.En, &m.Alt.Bn, &m.Caption.En, &m.Caption.Bn,
		&m.IsPublic, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if width.Valid {
		w := int(width.Int32)
		m.Width = &w
	}
	if height.Valid {
		h := int(height.Int32)
		m.Height = &h
	}
	if duration.Valid {
		m.Duration = &duration.Float64
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return &m, nil
}

func mediaConditions(f MediaFilter) *conditions {
	c := &conditions{}
	if f.Type != "" {
		c.add("type = ?", f.Type)
	}
	if f.Folder != "" {
		c.add("folder = ?", f.Folder)
	}
	if f.UploaderID != "" {
		c.add("uploader_id = ?", f.UploaderID)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		c.add("(original_name ILIKE ? OR filename ILIKE ? OR alt_en ILIKE ? OR alt_bn ILIKE ?)", p, p, p, p)
	}
	return c
}

// Create inserts a new media record
func (r *mediaRepo) Create(ctx context.Context, m *models.Media) error {
	query := `
		INSERT INTO media (` + mediaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Filename, m.OriginalName, m.URL, m.ObjectKey, m.MimeType, m.Type, m.Size,
		m.Width, m.Height, m.Duration,
		m.UploaderID, m.Folder, pq.Array(m.Tags), m.Alt.En, m.Alt.Bn, m.Caption.En, m.Caption.Bn,
		m.IsPublic, m.CreatedAt, m.UpdatedAt,
	)
	return translate(err)
}

// Update writes the editable metadata of a media record
func (r *mediaRepo) Update(ctx context.Context, m *models.Media) error {
	query := `
		UPDATE media SET
			folder = $2, tags = $3, alt_en = $4, alt_bn = $5, caption_en = $6, caption_bn = $7,
			is_public = $8, updated_at = $9
		WHERE id = $1
	`
	return execAffecting(ctx, r.db, query,
		m.ID, m.Folder, pq.Array(m.Tags), m.Alt.En, m.Alt.Bn, m.Caption.En, m.Caption.Bn,
		m.IsPublic, m.UpdatedAt,
	)
}

// Delete removes a media record
func (r *mediaRepo) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "DELETE FROM media WHERE id = $1", id)
}

// GetByID retrieves a media record by ID
func (r *mediaRepo) GetByID(ctx context.Context, id string) (*models.Media, error) {
	query := "SELECT " + mediaColumns + " FROM media WHERE id = $1"
	m, err := scanMedia(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// List returns one page of matching media and the total match count
func (r *mediaRepo) List(ctx context.Context, f MediaFilter, opts ListOptions) ([]*models.Media, int, error) {
	c := mediaConditions(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(opts)
	query := "SELECT " + mediaColumns + " FROM media" + c.where() +
		orderBy(opts.Sort, mediaSortColumns, "created_at DESC") + limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]*models.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

// Count returns the number of matching media records
func (r *mediaRepo) Count(ctx context.Context, f MediaFilter) (int, error) {
	c := mediaConditions(f)
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media"+c.where(), c.args...).Scan(&count)
	return count, err
}

// CountByType returns media counts keyed by type
func (r *mediaRepo) CountByType(ctx context.Context) (map[models.MediaType]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM media GROUP BY type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.MediaType]int)
	for rows.Next() {
		var t models.MediaType
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// TotalSize returns the summed size in bytes of all media
func (r *mediaRepo) TotalSize(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(size), 0) FROM media").Scan(&total)
	return total, err
}
