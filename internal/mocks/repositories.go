package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/repository"
)

// The mocks keep copies of stored entities so callers cannot mutate state
// without going through the repository, mirroring a real database.

func page[T any](items []T, opts repository.ListOptions) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortBy orders items by the first deciding field. cmp returns the
// comparison for one field and false when the field is unknown.
func sortBy[T any](items []T, fields []pagination.SortField, cmp func(a, b T, field string) (int, bool)) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, f := range fields {
			c, ok := cmp(items[i], items[j], f.Field)
			if !ok || c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mu       sync.RWMutex
	Articles map[string]*models.Article
	// Err, when set, is returned by every call.
	Err error
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[string]*models.Article)}
}

func cloneArticle(a *models.Article) *models.Article {
	c := *a
	c.Tags = append([]string(nil), a.Tags...)
	return &c
}

func matchArticle(a *models.Article, f repository.ArticleFilter) bool {
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.PublishedFrom != nil && (a.PublishedAt == nil || a.PublishedAt.Before(*f.PublishedFrom)) {
		return false
	}
	if f.PublishedTo != nil && (a.PublishedAt == nil || a.PublishedAt.After(*f.PublishedTo)) {
		return false
	}
	if f.AuthorID != "" && a.AuthorID != f.AuthorID {
		return false
	}
	if f.CategoryID != "" && a.CategoryID != f.CategoryID {
		return false
	}
	if f.Tag != "" && !hasString(a.Tags, f.Tag) {
		return false
	}
	if f.Search != "" && !containsFold(a.Title.En+" "+a.Title.Bn+" "+a.Content.En+" "+a.Content.Bn, f.Search) {
		return false
	}
	if f.IsFeatured != nil && a.IsFeatured != *f.IsFeatured {
		return false
	}
	if f.IsBreaking != nil && a.IsBreaking != *f.IsBreaking {
		return false
	}
	if f.IsTrending != nil && a.IsTrending != *f.IsTrending {
		return false
	}
	if f.ExcludeID != "" && a.ID == f.ExcludeID {
		return false
	}
	return true
}

func compareArticles(a, b *models.Article, field string) (int, bool) {
	switch field {
	case "views":
		return compareInt(a.Views, b.Views), true
	case "likes":
		return compareInt(a.Likes, b.Likes), true
	case "shares":
		return compareInt(a.Shares, b.Shares), true
	case "publishedAt":
		return compareTime(a.PublishedAt, b.PublishedAt), true
	case "createdAt":
		return compareTime(&a.CreatedAt, &b.CreatedAt), true
	case "updatedAt":
		return compareTime(&a.UpdatedAt, &b.UpdatedAt), true
	case "title":
		return strings.Compare(a.Title.En, b.Title.En), true
	}
	return 0, false
}

func (m *MockArticleRepository) matching(f repository.ArticleFilter) []*models.Article {
	out := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if matchArticle(a, f) {
			out = append(out, cloneArticle(a))
		}
	}
	// deterministic base order before the requested sort
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, a := range m.Articles {
		if a.ID == article.ID || a.Slug == article.Slug {
			return repository.ErrDuplicate
		}
	}
	m.Articles[article.ID] = cloneArticle(article)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	stored, ok := m.Articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, a := range m.Articles {
		if a.ID != article.ID && a.Slug == article.Slug {
			return repository.ErrDuplicate
		}
	}
	updated := cloneArticle(article)
	updated.AuthorID = stored.AuthorID
	updated.Views, updated.Likes, updated.Shares = stored.Views, stored.Likes, stored.Shares
	updated.CreatedAt = stored.CreatedAt
	if stored.PublishedAt != nil {
		updated.PublishedAt = stored.PublishedAt
	}
	article.PublishedAt = updated.PublishedAt
	m.Articles[article.ID] = updated
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Articles, id)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if a, ok := m.Articles[id]; ok {
		return cloneArticle(a), nil
	}
	return nil, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.Articles {
		if a.Slug == slug {
			return cloneArticle(a), nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.Articles {
		if a.Slug == slug && a.ID != excludeID {
			return true, m.Err
		}
	}
	return false, m.Err
}

func (m *MockArticleRepository) List(ctx context.Context, f repository.ArticleFilter, opts repository.ListOptions) ([]*models.Article, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	items := m.matching(f)
	sortBy(items, opts.Sort, compareArticles)
	return page(items, opts), len(items), nil
}

func (m *MockArticleRepository) Count(ctx context.Context, f repository.ArticleFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.matching(f)), nil
}

func (m *MockArticleRepository) SumViews(ctx context.Context, f repository.ArticleFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var sum int64
	for _, a := range m.matching(f) {
		sum += a.Views
	}
	return sum, nil
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := make(map[models.ArticleStatus]int)
	for _, a := range m.Articles {
		counts[a.Status]++
	}
	return counts, nil
}

func (m *MockArticleRepository) GroupByCategory(ctx context.Context, f repository.ArticleFilter) ([]repository.GroupCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	index := make(map[string]int)
	var groups []repository.GroupCount
	for _, a := range m.matching(f) {
		i, ok := index[a.CategoryID]
		if !ok {
			i = len(groups)
			index[a.CategoryID] = i
			groups = append(groups, repository.GroupCount{Key: a.CategoryID})
		}
		groups[i].Count++
		groups[i].Views += a.Views
	}
	return groups, nil
}

func (m *MockArticleRepository) CountByAuthor(ctx context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := make(map[string]int)
	for _, a := range m.Articles {
		counts[a.AuthorID]++
	}
	return counts, nil
}

func (m *MockArticleRepository) Increment(ctx context.Context, id string, counter models.ArticleCounter, n int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	switch counter {
	case models.CounterViews:
		a.Views += n
	case models.CounterLikes:
		a.Likes += n
	case models.CounterShares:
		a.Shares += n
	}
	return cloneArticle(a), nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, f repository.ArticleFilter, callback func(*models.Article) error) error {
	m.mu.RLock()
	items := m.matching(f)
	err := m.Err
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	sortBy(items, []pagination.SortField{{Field: "publishedAt"}}, compareArticles)
	for _, a := range items {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mu         sync.RWMutex
	Categories map[string]*models.Category
	Err        error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[string]*models.Category)}
}

func cloneCategory(c *models.Category) *models.Category {
	out := *c
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	return &out
}

func matchCategory(c *models.Category, f repository.CategoryFilter) bool {
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	if f.ShowInMenu != nil && c.ShowInMenu != *f.ShowInMenu {
		return false
	}
	if f.RootOnly && c.ParentID != nil {
		return false
	}
	if f.ParentID != "" && (c.ParentID == nil || *c.ParentID != f.ParentID) {
		return false
	}
	if f.Search != "" && !containsFold(c.Name.En+" "+c.Name.Bn, f.Search) {
		return false
	}
	return true
}

func (m *MockCategoryRepository) matching(f repository.CategoryFilter) []*models.Category {
	out := make([]*models.Category, 0)
	for _, c := range m.Categories {
		if matchCategory(c, f) {
			out = append(out, cloneCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name.En < out[j].Name.En
	})
	return out
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, c := range m.Categories {
		if c.ID == category.ID || c.Slug == category.Slug {
			return repository.ErrDuplicate
		}
	}
	m.Categories[category.ID] = cloneCategory(category)
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, c := range m.Categories {
		if c.ID != category.ID && c.Slug == category.Slug {
			return repository.ErrDuplicate
		}
	}
	m.Categories[category.ID] = cloneCategory(category)
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Categories, id)
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if c, ok := m.Categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, nil
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Categories {
		if c.Slug == slug {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.Categories {
		if c.Slug == slug && c.ID != excludeID {
			return true, m.Err
		}
	}
	return false, m.Err
}

func (m *MockCategoryRepository) List(ctx context.Context, f repository.CategoryFilter) ([]*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.matching(f), nil
}

func (m *MockCategoryRepository) Count(ctx context.Context, f repository.CategoryFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.matching(f)), nil
}

// MockAdvertisementRepository is a mock implementation of AdvertisementRepository
type MockAdvertisementRepository struct {
	mu  sync.RWMutex
	Ads map[string]*models.Advertisement
	Err error
}

func NewMockAdvertisementRepository() *MockAdvertisementRepository {
	return &MockAdvertisementRepository{Ads: make(map[string]*models.Advertisement)}
}

func cloneAd(ad *models.Advertisement) *models.Advertisement {
	c := *ad
	c.DisplayPages = append([]string(nil), ad.DisplayPages...)
	return &c
}

func matchAd(ad *models.Advertisement, f repository.AdvertisementFilter) bool {
	if f.IsActive != nil && ad.IsActive != *f.IsActive {
		return false
	}
	if f.ActiveAt != nil && (ad.StartDate.After(*f.ActiveAt) || ad.EndDate.Before(*f.ActiveAt)) {
		return false
	}
	if f.StartsBefore != nil && ad.StartDate.After(*f.StartsBefore) {
		return false
	}
	if f.EndsAfter != nil && ad.EndDate.Before(*f.EndsAfter) {
		return false
	}
	if f.Type != "" && ad.Type != f.Type {
		return false
	}
	if f.Position != "" && ad.Position != f.Position {
		return false
	}
	if f.Page != "" && !hasString(ad.DisplayPages, f.Page) && !hasString(ad.DisplayPages, "all") {
		return false
	}
	return true
}

func compareAds(a, b *models.Advertisement, field string) (int, bool) {
	switch field {
	case "priority":
		return compareInt(int64(a.Priority), int64(b.Priority)), true
	case "impressions":
		return compareInt(a.Impressions, b.Impressions), true
	case "clicks":
		return compareInt(a.Clicks, b.Clicks), true
	case "createdAt":
		return compareTime(&a.CreatedAt, &b.CreatedAt), true
	case "startDate":
		return compareTime(&a.StartDate, &b.StartDate), true
	case "endDate":
		return compareTime(&a.EndDate, &b.EndDate), true
	case "name":
		return strings.Compare(a.Name, b.Name), true
	}
	return 0, false
}

func (m *MockAdvertisementRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Ads[ad.ID]; ok {
		return repository.ErrDuplicate
	}
	m.Ads[ad.ID] = cloneAd(ad)
	return nil
}

func (m *MockAdvertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	stored, ok := m.Ads[ad.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneAd(ad)
	updated.Impressions, updated.Clicks = stored.Impressions, stored.Clicks
	m.Ads[ad.ID] = updated
	return nil
}

func (m *MockAdvertisementRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Ads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Ads, id)
	return nil
}

func (m *MockAdvertisementRepository) GetByID(ctx context.Context, id string) (*models.Advertisement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if ad, ok := m.Ads[id]; ok {
		return cloneAd(ad), nil
	}
	return nil, nil
}

func (m *MockAdvertisementRepository) matching(f repository.AdvertisementFilter) []*models.Advertisement {
	out := make([]*models.Advertisement, 0)
	for _, ad := range m.Ads {
		if matchAd(ad, f) {
			out = append(out, cloneAd(ad))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockAdvertisementRepository) List(ctx context.Context, f repository.AdvertisementFilter, opts repository.ListOptions) ([]*models.Advertisement, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	items := m.matching(f)
	sortBy(items, opts.Sort, compareAds)
	return page(items, opts), len(items), nil
}

func (m *MockAdvertisementRepository) Count(ctx context.Context, f repository.AdvertisementFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.matching(f)), nil
}

func (m *MockAdvertisementRepository) Increment(ctx context.Context, id string, counter models.AdCounter, n int64) (*models.Advertisement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	ad, ok := m.Ads[id]
	if !ok {
		return nil, nil
	}
	switch counter {
	case models.CounterImpressions:
		ad.Impressions += n
	case models.CounterClicks:
		ad.Clicks += n
	}
	return cloneAd(ad), nil
}

// MockMediaRepository is a mock implementation of MediaRepository
type MockMediaRepository struct {
	mu    sync.RWMutex
	Media map[string]*models.Media
	Err   error
}

func NewMockMediaRepository() *MockMediaRepository {
	return &MockMediaRepository{Media: make(map[string]*models.Media)}
}

func cloneMedia(md *models.Media) *models.Media {
	c := *md
	c.Tags = append([]string(nil), md.Tags...)
	return &c
}

func matchMedia(md *models.Media, f repository.MediaFilter) bool {
	if f.Type != "" && md.Type != f.Type {
		return false
	}
	if f.Folder != "" && md.Folder != f.Folder {
		return false
	}
	if f.UploaderID != "" && md.UploaderID != f.UploaderID {
		return false
	}
	if f.Search != "" && !containsFold(md.OriginalName+" "+md.Filename+" "+md.Alt.En+" "+md.Alt.Bn, f.Search) {
		return false
	}
	return true
}

func compareMedia(a, b *models.Media, field string) (int, bool) {
	switch field {
	case "createdAt":
		return compareTime(&a.CreatedAt, &b.CreatedAt), true
	case "size":
		return compareInt(a.Size, b.Size), true
	case "filename":
		return strings.Compare(a.Filename, b.Filename), true
	}
	return 0, false
}

func (m *MockMediaRepository) matching(f repository.MediaFilter) []*models.Media {
	out := make([]*models.Media, 0)
	for _, md := range m.Media {
		if matchMedia(md, f) {
			out = append(out, cloneMedia(md))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockMediaRepository) Create(ctx context.Context, media *models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Media[media.ID]; ok {
		return repository.ErrDuplicate
	}
	m.Media[media.ID] = cloneMedia(media)
	return nil
}

func (m *MockMediaRepository) Update(ctx context.Context, media *models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	stored, ok := m.Media[media.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneMedia(stored)
	updated.Folder, updated.Tags, updated.IsPublic = media.Folder, append([]string(nil), media.Tags...), media.IsPublic
	updated.Alt, updated.Caption, updated.UpdatedAt = media.Alt, media.Caption, media.UpdatedAt
	m.Media[media.ID] = updated
	return nil
}

func (m *MockMediaRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Media, id)
	return nil
}

func (m *MockMediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if md, ok := m.Media[id]; ok {
		return cloneMedia(md), nil
	}
	return nil, nil
}

func (m *MockMediaRepository) List(ctx context.Context, f repository.MediaFilter, opts repository.ListOptions) ([]*models.Media, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	items := m.matching(f)
	sortBy(items, opts.Sort, compareMedia)
	return page(items, opts), len(items), nil
}

func (m *MockMediaRepository) Count(ctx context.Context, f repository.MediaFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.matching(f)), nil
}

func (m *MockMediaRepository) CountByType(ctx context.Context) (map[models.MediaType]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := make(map[models.MediaType]int)
	for _, md := range m.Media {
		counts[md.Type]++
	}
	return counts, nil
}

func (m *MockMediaRepository) TotalSize(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var total int64
	for _, md := range m.Media {
		total += md.Size
	}
	return total, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu    sync.RWMutex
	Users map[string]*models.User
	Err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func matchUser(u *models.User, f repository.UserFilter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.IsActive != nil && u.IsActive != *f.IsActive {
		return false
	}
	if f.Search != "" && !containsFold(u.Name+" "+u.Email, f.Search) {
		return false
	}
	if f.LastLoginFrom != nil && (u.LastLogin == nil || u.LastLogin.Before(*f.LastLoginFrom)) {
		return false
	}
	return true
}

func compareUsers(a, b *models.User, field string) (int, bool) {
	switch field {
	case "createdAt":
		return compareTime(&a.CreatedAt, &b.CreatedAt), true
	case "lastLogin":
		return compareTime(a.LastLogin, b.LastLogin), true
	case "name":
		return strings.Compare(a.Name, b.Name), true
	case "email":
		return strings.Compare(a.Email, b.Email), true
	case "role":
		return strings.Compare(string(a.Role), string(b.Role)), true
	}
	return 0, false
}

func (m *MockUserRepository) matching(f repository.UserFilter) []*models.User {
	out := make([]*models.User, 0)
	for _, u := range m.Users {
		if matchUser(u, f) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockUserRepository) emailTaken(email, excludeID string) bool {
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) && u.ID != excludeID {
			return true
		}
	}
	return false
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Users[user.ID]; ok || m.emailTaken(user.Email, "") {
		return repository.ErrDuplicate
	}
	stored := cloneUser(user)
	stored.Email = strings.ToLower(stored.Email)
	m.Users[user.ID] = stored
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	stored, ok := m.Users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return repository.ErrDuplicate
	}
	updated := cloneUser(user)
	updated.Email = strings.ToLower(updated.Email)
	updated.PasswordHash, updated.RefreshToken, updated.LastLogin = stored.PasswordHash, stored.RefreshToken, stored.LastLogin
	m.Users[user.ID] = updated
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if u, ok := m.Users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emailTaken(email, excludeID), m.Err
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilter, opts repository.ListOptions) ([]*models.User, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	items := m.matching(f)
	sortBy(items, opts.Sort, compareUsers)
	return page(items, opts), len(items), nil
}

func (m *MockUserRepository) Count(ctx context.Context, f repository.UserFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.matching(f)), nil
}

func (m *MockUserRepository) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := make(map[models.Role]int)
	for _, u := range m.Users {
		counts[u.Role]++
	}
	return counts, nil
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id string, at time.Time, refreshToken string) error {
	return m.mutate(id, func(u *models.User) {
		u.LastLogin = &at
		u.RefreshToken = refreshToken
	})
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return m.mutate(id, func(u *models.User) { u.RefreshToken = token })
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.mutate(id, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.RefreshToken = ""
	})
}

func (m *MockUserRepository) mutate(id string, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	u, ok := m.Users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	return nil
}

// NewRepositories wires fresh in-memory repositories into a repository.Repositories.
func NewRepositories() (*repository.Repositories, *Store) {
	s := &Store{
		Articles:       NewMockArticleRepository(),
		Categories:     NewMockCategoryRepository(),
		Advertisements: NewMockAdvertisementRepository(),
		Media:          NewMockMediaRepository(),
		Users:          NewMockUserRepository(),
	}
	return &repository.Repositories{
		Article:       s.Articles,
		Category:      s.Categories,
		Advertisement: s.Advertisements,
		Media:         s.Media,
		User:          s.Users,
	}, s
}

// Store exposes the concrete mocks behind a Repositories value.
type Store struct {
	Articles       *MockArticleRepository
	Categories     *MockCategoryRepository
	Advertisements *MockAdvertisementRepository
	Media          *MockMediaRepository
	Users          *MockUserRepository
}
