package repository

import (
	"context"
	"time"

	"github.com/news-portal-api/internal/database"
	"github.com/news-portal-api/internal/models"
)

// ArticleFilter narrows article queries. Zero values do not constrain.
type ArticleFilter struct {
	Status        *models.ArticleStatus
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	AuthorID      string
	CategoryID    string
	Tag           string
	Search        string
	IsFeatured    *bool
	IsBreaking    *bool
	IsTrending    *bool
	ExcludeID     string
}

// GroupCount is a grouped article count with summed views.
type GroupCount struct {
	Key   string
	Count int
	Views int64
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, filter ArticleFilter, opts ListOptions) ([]*models.Article, int, error)
	Count(ctx context.Context, filter ArticleFilter) (int, error)
	SumViews(ctx context.Context, filter ArticleFilter) (int64, error)
	CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error)
	GroupByCategory(ctx context.Context, filter ArticleFilter) ([]GroupCount, error)
	CountByAuthor(ctx context.Context) (map[string]int, error)
	Increment(ctx context.Context, id string, counter models.ArticleCounter, n int64) (*models.Article, error)
	StreamAll(ctx context.Context, filter ArticleFilter, callback func(*models.Article) error) error
}

// CategoryFilter narrows category queries.
type CategoryFilter struct {
	IsActive   *bool
	ShowInMenu *bool
	RootOnly   bool
	ParentID   string
	Search     string
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, filter CategoryFilter) ([]*models.Category, error)
	Count(ctx context.Context, filter CategoryFilter) (int, error)
}

// AdvertisementFilter narrows advertisement queries.
type AdvertisementFilter struct {
	IsActive *bool
	// ActiveAt keeps ads whose schedule contains the instant.
	ActiveAt *time.Time
	// StartsBefore and EndsAfter keep ads whose schedule overlaps a window.
	StartsBefore *time.Time
	EndsAfter    *time.Time
	Type         string
	Position     string
	Page         string
}

// AdvertisementRepository defines the interface for advertisement data operations
type AdvertisementRepository interface {
	Create(ctx context.Context, ad *models.Advertisement) error
	Update(ctx context.Context, ad *models.Advertisement) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Advertisement, error)
	List(ctx context.Context, filter AdvertisementFilter, opts ListOptions) ([]*models.Advertisement, int, error)
	Count(ctx context.Context, filter AdvertisementFilter) (int, error)
	Increment(ctx context.Context, id string, counter models.AdCounter, n int64) (*models.Advertisement, error)
}

// MediaFilter narrows media queries.
type MediaFilter struct {
	Type       models.MediaType
	Folder     string
	UploaderID string
	Search     string
}

// MediaRepository defines the interface for media data operations
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	Update(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
	List(ctx context.Context, filter MediaFilter, opts ListOptions) ([]*models.Media, int, error)
	Count(ctx context.Context, filter MediaFilter) (int, error)
	CountByType(ctx context.Context) (map[models.MediaType]int, error)
	TotalSize(ctx context.Context) (int64, error)
}

// UserFilter narrows user queries.
type UserFilter struct {
	Role          models.Role
	IsActive      *bool
	Search        string
	LastLoginFrom *time.Time
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context, filter UserFilter, opts ListOptions) ([]*models.User, int, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
	CountByRole(ctx context.Context) (map[models.Role]int, error)
	RecordLogin(ctx context.Context, id string, at time.Time, refreshToken string) error
	SetRefreshToken(ctx context.Context, id, token string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article       ArticleRepository
	Category      CategoryRepository
	Advertisement AdvertisementRepository
	Media         MediaRepository
	User          UserRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:       NewArticleRepo(db),
		Category:      NewCategoryRepo(db),
		Advertisement: NewAdvertisementRepo(db),
		Media:         NewMediaRepo(db),
		User:          NewUserRepo(db),
	}
}
