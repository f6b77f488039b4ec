package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/auth"
	"github.com/news-portal-api/internal/config"
	"github.com/news-portal-api/internal/mocks"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/policy"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

const testPassword = "secret123"

var (
	superAdmin  = &policy.Principal{ID: "00000000-0000-4000-8000-000000000001", Role: models.RoleSuperAdmin}
	admin       = &policy.Principal{ID: "00000000-0000-4000-8000-000000000002", Role: models.RoleAdmin}
	editor      = &policy.Principal{ID: "00000000-0000-4000-8000-000000000003", Role: models.RoleEditorial}
	otherEditor = &policy.Principal{ID: "00000000-0000-4000-8000-000000000004", Role: models.RoleEditorial}
)

type fixture struct {
	svc     *Services
	store   *mocks.Store
	objects *mocks.MockObjectStore
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			RefreshSecret:   "test-refresh-secret",
			Issuer:          "news-portal-api",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			BcryptCost:      4,
		},
		Pagination: config.PaginationConfig{DefaultLimit: 10, MaxLimit: 100},
		Storage:    config.StorageConfig{MaxUploadSize: 1024},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos, store := mocks.NewRepositories()
	objects := mocks.NewMockObjectStore()
	return &fixture{
		svc:     newServices(repos, objects, testConfig(), zerolog.Nop(), func() time.Time { return testNow }),
		store:   store,
		objects: objects,
	}
}

func (f *fixture) addUser(t *testing.T, p *policy.Principal, email string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	u := &models.User{
		ID:           p.ID,
		Name:         "User " + email,
		Email:        email,
		PasswordHash: hash,
		Role:         p.Role,
		IsActive:     true,
		CreatedAt:    testNow.Add(-48 * time.Hour),
		UpdatedAt:    testNow.Add(-48 * time.Hour),
	}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) addCategory(t *testing.T, id, name string, parentID *string) *models.Category {
	t.Helper()
	c := &models.Category{
		ID:         id,
		Name:       models.Localized{En: name, Bn: name + " বাংলা"},
		Slug:       slugOf(name),
		ParentID:   parentID,
		IsActive:   true,
		ShowInMenu: true,
		CreatedAt:  testNow.Add(-72 * time.Hour),
		UpdatedAt:  testNow.Add(-72 * time.Hour),
	}
	require.NoError(t, f.store.Categories.Create(context.Background(), c))
	return c
}

type articleOpt func(*models.Article)

func published(at time.Time) articleOpt {
	return func(a *models.Article) {
		a.Status = models.ArticleStatusPublished
		a.PublishedAt = &at
	}
}

func withViews(n int64) articleOpt {
	return func(a *models.Article) { a.Views = n }
}

func withFlags(featured, breaking, trending bool) articleOpt {
	return func(a *models.Article) {
		a.IsFeatured, a.IsBreaking, a.IsTrending = featured, breaking, trending
	}
}

func (f *fixture) addArticle(t *testing.T, id, title, authorID, categoryID string, opts ...articleOpt) *models.Article {
	t.Helper()
	a := &models.Article{
		ID:            id,
		Title:         models.Localized{En: title, Bn: title + " বাংলা"},
		Slug:          slugOf(title),
		Content:       models.Localized{En: "Body of " + title, Bn: "বিষয়বস্তু"},
		CategoryID:    categoryID,
		AuthorID:      authorID,
		Status:        models.ArticleStatusDraft,
		AllowComments: true,
		CreatedAt:     testNow.Add(-24 * time.Hour),
		UpdatedAt:     testNow.Add(-24 * time.Hour),
	}
	for _, opt := range opts {
		opt(a)
	}
	require.NoError(t, f.store.Articles.Create(context.Background(), a))
	return a
}

func slugOf(title string) string {
	s, _ := uniqueSlug(context.Background(), title, "x", "", func(context.Context, string, string) (bool, error) {
		return false, nil
	})
	return s
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}

func ptr[T any](v T) *T {
	return &v
}
