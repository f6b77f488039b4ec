package service

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/analytics"
	"github.com/news-portal-api/internal/auth"
	"github.com/news-portal-api/internal/config"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/repository"
	"github.com/news-portal-api/internal/storage"
	"github.com/news-portal-api/internal/validation"
)

// ListResult is one page of entities with its page descriptor.
type ListResult[T any] struct {
	Items      []T             `json:"items"`
	Pagination pagination.Page `json:"pagination"`
}

// ArticleService defines the interface for article operations
type ArticleService interface {
	List(ctx context.Context, p *policy.Principal, q models.ArticleQuery, listing policy.Listing) (*ListResult[*models.Article], error)
	Get(ctx context.Context, p *policy.Principal, identifier string, countView bool) (*models.Article, error)
	Featured(ctx context.Context, limit string) ([]*models.Article, error)
	Breaking(ctx context.Context) ([]*models.Article, error)
	Trending(ctx context.Context, limit string) ([]*models.Article, error)
	Latest(ctx context.Context, limit string) ([]*models.Article, error)
	Related(ctx context.Context, p *policy.Principal, identifier, limit string) ([]*models.Article, error)
	Search(ctx context.Context, query, page, limit string) (*ListResult[*models.Article], error)
	Stats(ctx context.Context) (*models.ArticleStats, error)
	Create(ctx context.Context, p *policy.Principal, in *models.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, p *policy.Principal, identifier string, in *models.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, p *policy.Principal, identifier string) error
	Like(ctx context.Context, identifier string) (*models.Article, error)
	Share(ctx context.Context, identifier string) (*models.Article, error)
}

// CategoryQuery holds the client-requested category list filters.
type CategoryQuery struct {
	IsActive   *bool
	ShowInMenu *bool
	// Parent is a parent category ID, or "null" for root categories.
	Parent string
	Search string
}

// CategoryService defines the interface for category operations
type CategoryService interface {
	List(ctx context.Context, q CategoryQuery) ([]*models.Category, error)
	Tree(ctx context.Context) ([]*models.CategoryNode, error)
	Menu(ctx context.Context) ([]*models.CategoryNode, error)
	Get(ctx context.Context, identifier string) (*models.Category, error)
	Articles(ctx context.Context, identifier, page, limit string) (*models.CategoryArticles, *pagination.Page, error)
	Create(ctx context.Context, p *policy.Principal, in *models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, p *policy.Principal, identifier string, in *models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, p *policy.Principal, identifier string) error
}

// AdvertisementQuery holds the client-requested advertisement list filters.
type AdvertisementQuery struct {
	Type     string
	Position string
	IsActive *bool
	Page     string
	Limit    string
	Sort     string
}

// AdvertisementService defines the interface for advertisement operations
type AdvertisementService interface {
	List(ctx context.Context, q AdvertisementQuery) (*ListResult[*models.Advertisement], error)
	Active(ctx context.Context, adType, position, page string) ([]*models.Advertisement, error)
	Get(ctx context.Context, id string) (*models.Advertisement, error)
	Create(ctx context.Context, p *policy.Principal, in *models.AdvertisementInput) (*models.Advertisement, error)
	Update(ctx context.Context, p *policy.Principal, id string, in *models.AdvertisementInput) (*models.Advertisement, error)
	Delete(ctx context.Context, p *policy.Principal, id string) error
	TrackImpression(ctx context.Context, id string) error
	TrackClick(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.AdvertisementStats, error)
}

// Upload is a file received for storage.
type Upload struct {
	Reader       io.Reader
	OriginalName string
	Size         int64
	ContentType  string
}

// MediaService defines the interface for media operations
type MediaService interface {
	List(ctx context.Context, p *policy.Principal, q models.MediaQuery) (*ListResult[*models.Media], error)
	Get(ctx context.Context, p *policy.Principal, id string) (*models.Media, error)
	Upload(ctx context.Context, p *policy.Principal, file Upload, meta models.MediaInput) (*models.Media, error)
	Register(ctx context.Context, p *policy.Principal, in *models.MediaInput) (*models.Media, error)
	Update(ctx context.Context, p *policy.Principal, id string, in *models.MediaUpdate) (*models.Media, error)
	Delete(ctx context.Context, p *policy.Principal, id string) error
	Stats(ctx context.Context) (*models.MediaStats, error)
}

// UserService defines the interface for user administration
type UserService interface {
	List(ctx context.Context, q models.UserQuery) (*ListResult[*models.User], error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, p *policy.Principal, in *models.UserInput) (*models.User, error)
	Update(ctx context.Context, p *policy.Principal, id string, in *models.UserInput) (*models.User, error)
	Deactivate(ctx context.Context, p *policy.Principal, id string) error
	DeletePermanently(ctx context.Context, p *policy.Principal, id string) error
	Stats(ctx context.Context) (*models.UserStats, error)
}

// AuthService defines the interface for authentication flows
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, p *policy.Principal) error
	Authenticate(ctx context.Context, accessToken string) (*policy.Principal, error)
	Me(ctx context.Context, p *policy.Principal) (*models.User, error)
	ChangePassword(ctx context.Context, p *policy.Principal, current, next string) error
	UpdateProfile(ctx context.Context, p *policy.Principal, update models.ProfileUpdate) (*models.User, error)
}

// TrafficReport is a traffic trend over a window.
type TrafficReport struct {
	WindowStart time.Time               `json:"windowStart"`
	WindowEnd   time.Time               `json:"windowEnd"`
	Interval    string                  `json:"interval"`
	Buckets     []analytics.TrendBucket `json:"buckets"`
}

// AnalyticsService defines the interface for analytics reports
type AnalyticsService interface {
	Realtime(ctx context.Context) (*analytics.RealtimeSnapshot, error)
	Traffic(ctx context.Context, window, interval string) (*TrafficReport, error)
	Content(ctx context.Context, limit, sort, order string) ([]analytics.ContentItem, error)
	AdSummary(ctx context.Context, window string) (*analytics.AdPerformance, error)
	TopAds(ctx context.Context, limit, sort, order string) ([]analytics.TopAd, error)
	MediaSummary(ctx context.Context) (*analytics.MediaSummary, error)
	AuthStats(ctx context.Context, window string) (*analytics.AuthSummary, error)
}

// DashboardService defines the interface for dashboard rollups
type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
	ArticleStats(ctx context.Context, start, end *time.Time) ([]analytics.DailyStats, error)
	TopArticles(ctx context.Context, limit, days string) ([]models.ArticleSummary, error)
	CategoryDistribution(ctx context.Context) ([]analytics.CategoryShare, error)
	UserActivity(ctx context.Context, limit string) ([]analytics.UserActivityRow, error)
	TrafficTrends(ctx context.Context, days string) ([]analytics.DailyTrafficPoint, error)
}

// Services holds all service interfaces
type Services struct {
	Article       ArticleService
	Category      CategoryService
	Advertisement AdvertisementService
	Media         MediaService
	User          UserService
	Auth          AuthService
	Analytics     AnalyticsService
	Dashboard     DashboardService
}

// deps is what every service is built from.
type deps struct {
	repos     *repository.Repositories
	validator *validation.Validator
	cfg       *config.Config
	now       func() time.Time
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, store storage.ObjectStore, cfg *config.Config, log zerolog.Logger) *Services {
	return newServices(repos, store, cfg, log, time.Now)
}

func newServices(repos *repository.Repositories, store storage.ObjectStore, cfg *config.Config, log zerolog.Logger, now func() time.Time) *Services {
	d := deps{
		repos:     repos,
		validator: validation.NewValidator(),
		cfg:       cfg,
		now:       func() time.Time { return now().UTC() },
	}
	tokens := auth.NewTokenManager(cfg.Auth).WithClock(d.now)

	return &Services{
		Article:       newArticleService(d, log),
		Category:      newCategoryService(d, log),
		Advertisement: newAdvertisementService(d, log),
		Media:         newMediaService(d, store, log),
		User:          newUserService(d, log),
		Auth:          newAuthService(d, tokens, log),
		Analytics:     newAnalyticsService(d, log),
		Dashboard:     newDashboardService(d, log),
	}
}

// page normalises page/limit strings with the configured bounds.
func (d deps) page(page, limit string) pagination.Params {
	return pagination.Normalize(page, limit, d.cfg.Pagination.DefaultLimit, d.cfg.Pagination.MaxLimit)
}

// limitOf parses a top-N limit, clamped to [1, max] with def when absent or malformed.
func limitOf(s string, def, max int) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return pagination.ClampLimit(n, def, max)
}

func boolPtr(b bool) *bool {
	return &b
}
