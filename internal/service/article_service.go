package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/metrics"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/repository"
)

const (
	featuredLimit = 5
	breakingLimit = 3
	trendingLimit = 10
	latestLimit   = 10
	relatedLimit  = 5
	maxListLimit  = 50
	statsTopLimit = 10
)

var articleSorts = map[string]bool{
	"publishedAt": true, "createdAt": true, "updatedAt": true,
	"views": true, "likes": true, "shares": true, "title": true,
}

var newestFirst = []pagination.SortField{{Field: "publishedAt", Desc: true}}

// articleService implements ArticleService
type articleService struct {
	deps
	log zerolog.Logger
}

func newArticleService(d deps, log zerolog.Logger) *articleService {
	return &articleService{
		deps: d,
		log:  log.With().Str("service", "article").Logger(),
	}
}

func (s *articleService) List(ctx context.Context, p *policy.Principal, q models.ArticleQuery, listing policy.Listing) (*ListResult[*models.Article], error) {
	if listing == policy.ListingCMS {
		if p == nil {
			return nil, apperr.Unauthenticated("authentication required")
		}
		if q.Status != "" && !models.ValidArticleStatuses[models.ArticleStatus(q.Status)] {
			return nil, invalid("status", "invalid status")
		}
	}

	scope := policy.ScopeArticles(p, q, listing, s.now())
	params := s.page(q.Page, q.Limit)

	fallback := "-publishedAt"
	if listing == policy.ListingCMS {
		fallback = "-createdAt"
	}

	items, total, err := s.repos.Article.List(ctx, filterOf(scope), repository.ListOptions{
		Sort:   pagination.ParseSort(q.Sort, fallback, articleSorts),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, translate(err, "articles")
	}
	return &ListResult[*models.Article]{Items: items, Pagination: params.NewPage(total)}, nil
}

func filterOf(scope policy.ArticleScope) repository.ArticleFilter {
	return repository.ArticleFilter{
		Status:        scope.Status,
		PublishedFrom: scope.PublishedFrom,
		PublishedTo:   scope.PublishedTo,
		AuthorID:      scope.AuthorID,
		CategoryID:    scope.CategoryID,
		Tag:           scope.Tag,
		Search:        scope.Search,
		IsFeatured:    scope.IsFeatured,
		IsBreaking:    scope.IsBreaking,
		IsTrending:    scope.IsTrending,
	}
}

// publicFilter matches articles visible to anonymous readers at now.
func (s *articleService) publicFilter() repository.ArticleFilter {
	published := models.ArticleStatusPublished
	now := s.now()
	return repository.ArticleFilter{Status: &published, PublishedTo: &now}
}

// find resolves an identifier that is either an ID or a slug.
func (s *articleService) find(ctx context.Context, identifier string) (*models.Article, error) {
	var (
		article *models.Article
		err     error
	)
	if _, parseErr := uuid.Parse(identifier); parseErr == nil {
		article, err = s.repos.Article.GetByID(ctx, identifier)
	} else {
		article, err = s.repos.Article.GetBySlug(ctx, identifier)
	}
	if err != nil {
		return nil, translate(err, "article")
	}
	if article == nil {
		return nil, apperr.NotFound("article not found")
	}
	return article, nil
}

// findVisible resolves identifier and hides unpublished articles from
// everyone but admins and their author.
func (s *articleService) findVisible(ctx context.Context, p *policy.Principal, identifier string) (*models.Article, error) {
	article, err := s.find(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !article.IsVisibleAt(s.now()) && !p.IsAdmin() && !p.Owns(article.AuthorID) {
		return nil, apperr.NotFound("article not found")
	}
	return article, nil
}

func (s *articleService) Get(ctx context.Context, p *policy.Principal, identifier string, countView bool) (*models.Article, error) {
	article, err := s.findVisible(ctx, p, identifier)
	if err != nil {
		return nil, err
	}
	if !countView || !article.IsVisibleAt(s.now()) {
		return article, nil
	}

	updated, err := s.repos.Article.Increment(ctx, article.ID, models.CounterViews, 1)
	if err != nil {
		// the read already succeeded; a lost view is not worth failing it
		s.log.Warn().Err(err).Str("article_id", article.ID).Msg("Failed to count article view")
		return article, nil
	}
	metrics.ObserveArticleEvent(string(models.CounterViews))
	if updated != nil {
		return updated, nil
	}
	return article, nil
}

func (s *articleService) top(ctx context.Context, filter repository.ArticleFilter, sort []pagination.SortField, limit int) ([]*models.Article, error) {
	items, _, err := s.repos.Article.List(ctx, filter, repository.ListOptions{Sort: sort, Limit: limit})
	if err != nil {
		return nil, translate(err, "articles")
	}
	return items, nil
}

func (s *articleService) Featured(ctx context.Context, limit string) ([]*models.Article, error) {
	filter := s.publicFilter()
	filter.IsFeatured = boolPtr(true)
	return s.top(ctx, filter, newestFirst, limitOf(limit, featuredLimit, maxListLimit))
}

func (s *articleService) Breaking(ctx context.Context) ([]*models.Article, error) {
	filter := s.publicFilter()
	filter.IsBreaking = boolPtr(true)
	return s.top(ctx, filter, newestFirst, breakingLimit)
}

func (s *articleService) Trending(ctx context.Context, limit string) ([]*models.Article, error) {
	filter := s.publicFilter()
	filter.IsTrending = boolPtr(true)
	sort := []pagination.SortField{{Field: "views", Desc: true}, {Field: "publishedAt", Desc: true}}
	return s.top(ctx, filter, sort, limitOf(limit, trendingLimit, maxListLimit))
}

func (s *articleService) Latest(ctx context.Context, limit string) ([]*models.Article, error) {
	return s.top(ctx, s.publicFilter(), newestFirst, limitOf(limit, latestLimit, maxListLimit))
}

func (s *articleService) Related(ctx context.Context, p *policy.Principal, identifier, limit string) ([]*models.Article, error) {
	article, err := s.findVisible(ctx, p, identifier)
	if err != nil {
		return nil, err
	}
	filter := s.publicFilter()
	filter.CategoryID = article.CategoryID
	filter.ExcludeID = article.ID
	return s.top(ctx, filter, newestFirst, limitOf(limit, relatedLimit, maxListLimit))
}

func (s *articleService) Search(ctx context.Context, query, page, limit string) (*ListResult[*models.Article], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q", "search query is required")
	}

	params := s.page(page, limit)
	filter := s.publicFilter()
	filter.Search = query

	items, total, err := s.repos.Article.List(ctx, filter, repository.ListOptions{
		Sort:   newestFirst,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, translate(err, "articles")
	}
	return &ListResult[*models.Article]{Items: items, Pagination: params.NewPage(total)}, nil
}

func (s *articleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	var (
		byStatus map[models.ArticleStatus]int
		views    int64
		top      []*models.Article
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.repos.Article.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.repos.Article.SumViews(gctx, repository.ArticleFilter{})
		return err
	})
	g.Go(func() error {
		published := models.ArticleStatusPublished
		var err error
		top, _, err = s.repos.Article.List(gctx, repository.ArticleFilter{Status: &published}, repository.ListOptions{
			Sort:  []pagination.SortField{{Field: "views", Desc: true}},
			Limit: statsTopLimit,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "article stats")
	}

	stats := &models.ArticleStats{
		PublishedArticles: byStatus[models.ArticleStatusPublished],
		DraftArticles:     byStatus[models.ArticleStatusDraft],
		ArchivedArticles:  byStatus[models.ArticleStatusArchived],
		TotalViews:        views,
		TopArticles:       make([]models.ArticleSummary, 0, len(top)),
	}
	for _, n := range byStatus {
		stats.TotalArticles += n
	}
	for _, a := range top {
		stats.TopArticles = append(stats.TopArticles, a.Summary())
	}
	return stats, nil
}

func (s *articleService) requireCategory(ctx context.Context, id string) error {
	category, err := s.repos.Category.GetByID(ctx, id)
	if err != nil {
		return translate(err, "category")
	}
	if category == nil {
		return invalid("categoryId", "category not found")
	}
	return nil
}

func isPublishing(status models.ArticleStatus) bool {
	return status == models.ArticleStatusPublished || status == models.ArticleStatusScheduled
}

func (s *articleService) Create(ctx context.Context, p *policy.Principal, in *models.ArticleInput) (*models.Article, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	if !policy.Can(p, policy.CreateArticle) {
		return nil, apperr.Forbidden("you do not have permission to create articles")
	}
	if err := s.validator.ValidateArticle(in, true); err != nil {
		return nil, translate(err, "article")
	}

	status := models.ArticleStatusDraft
	if in.Status != nil {
		status = *in.Status
	}
	if isPublishing(status) && !policy.Can(p, policy.PublishArticle) {
		return nil, apperr.Forbidden("you do not have permission to publish articles")
	}
	if status == models.ArticleStatusScheduled && in.ScheduledAt == nil {
		return nil, invalid("scheduledAt", "scheduled articles need a scheduled date")
	}
	if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
		return nil, err
	}

	title := in.Title.Trimmed()
	slugText, err := uniqueSlug(ctx, title.En, "article", "", s.repos.Article.SlugExists)
	if err != nil {
		return nil, translate(err, "article")
	}

	now := s.now()
	article := &models.Article{
		ID:            uuid.New().String(),
		Title:         title,
		Slug:          slugText,
		Content:       in.Content.Trimmed(),
		CategoryID:    *in.CategoryID,
		AuthorID:      p.ID,
		Tags:          normalizeTags(in.Tags),
		Status:        status,
		ScheduledAt:   in.ScheduledAt,
		AllowComments: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Excerpt != nil {
		article.Excerpt = in.Excerpt.Trimmed()
	}
	if in.FeaturedImage != nil {
		article.FeaturedImage = *in.FeaturedImage
	}
	if in.IsFeatured != nil {
		article.IsFeatured = *in.IsFeatured
	}
	if in.IsBreaking != nil {
		article.IsBreaking = *in.IsBreaking
	}
	if in.IsTrending != nil {
		article.IsTrending = *in.IsTrending
	}
	if in.AllowComments != nil {
		article.AllowComments = *in.AllowComments
	}
	if status == models.ArticleStatusPublished {
		article.PublishedAt = &now
	}
	article.ReadTime = models.ReadTimeMinutes(article.Content.En)

	if err := s.repos.Article.Create(ctx, article); err != nil {
		return nil, translate(err, "article")
	}

	s.log.Info().Str("article_id", article.ID).Str("author_id", p.ID).Str("status", string(status)).Msg("Article created")
	return article, nil
}

func (s *articleService) Update(ctx context.Context, p *policy.Principal, identifier string, in *models.ArticleInput) (*models.Article, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	article, err := s.find(ctx, identifier)
	if err != nil {
		return nil, err
	}
	res := policy.Resource{Kind: policy.ResourceArticle, OwnerID: article.AuthorID}
	if !policy.Can(p, policy.EditArticle) || !policy.CanMutate(p, res, policy.ActionUpdate) {
		return nil, apperr.Forbidden("you do not have permission to edit this article")
	}
	if err := s.validator.ValidateArticle(in, false); err != nil {
		return nil, translate(err, "article")
	}

	if in.Status != nil && *in.Status != article.Status && isPublishing(*in.Status) && !policy.Can(p, policy.PublishArticle) {
		return nil, apperr.Forbidden("you do not have permission to publish articles")
	}
	if in.CategoryID != nil && *in.CategoryID != article.CategoryID {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		article.CategoryID = *in.CategoryID
	}

	if in.Title != nil {
		title := in.Title.Trimmed()
		if title.En != article.Title.En {
			article.Slug, err = uniqueSlug(ctx, title.En, "article", article.ID, s.repos.Article.SlugExists)
			if err != nil {
				return nil, translate(err, "article")
			}
		}
		article.Title = title
	}
	if in.Content != nil {
		article.Content = in.Content.Trimmed()
		article.ReadTime = models.ReadTimeMinutes(article.Content.En)
	}
	if in.Excerpt != nil {
		article.Excerpt = in.Excerpt.Trimmed()
	}
	if in.FeaturedImage != nil {
		article.FeaturedImage = *in.FeaturedImage
	}
	if in.Tags != nil {
		article.Tags = normalizeTags(in.Tags)
	}
	if in.ScheduledAt != nil {
		article.ScheduledAt = in.ScheduledAt
	}
	if in.IsFeatured != nil {
		article.IsFeatured = *in.IsFeatured
	}
	if in.IsBreaking != nil {
		article.IsBreaking = *in.IsBreaking
	}
	if in.IsTrending != nil {
		article.IsTrending = *in.IsTrending
	}
	if in.AllowComments != nil {
		article.AllowComments = *in.AllowComments
	}

	now := s.now()
	if in.Status != nil {
		article.Status = *in.Status
	}
	if article.Status == models.ArticleStatusScheduled && article.ScheduledAt == nil {
		return nil, invalid("scheduledAt", "scheduled articles need a scheduled date")
	}
	if article.Status == models.ArticleStatusPublished && article.PublishedAt == nil {
		article.PublishedAt = &now
	}
	article.UpdatedAt = now

	if err := s.repos.Article.Update(ctx, article); err != nil {
		return nil, translate(err, "article")
	}

	s.log.Info().Str("article_id", article.ID).Str("user_id", p.ID).Msg("Article updated")
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, p *policy.Principal, identifier string) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	article, err := s.find(ctx, identifier)
	if err != nil {
		return err
	}
	res := policy.Resource{Kind: policy.ResourceArticle, OwnerID: article.AuthorID}
	if !policy.Can(p, policy.DeleteArticle) || !policy.CanMutate(p, res, policy.ActionDelete) {
		return apperr.Forbidden("you do not have permission to delete this article")
	}

	if err := s.repos.Article.Delete(ctx, article.ID); err != nil {
		return translate(err, "article")
	}

	s.log.Info().Str("article_id", article.ID).Str("user_id", p.ID).Msg("Article deleted")
	return nil
}

func (s *articleService) Like(ctx context.Context, identifier string) (*models.Article, error) {
	return s.bump(ctx, identifier, models.CounterLikes)
}

func (s *articleService) Share(ctx context.Context, identifier string) (*models.Article, error) {
	return s.bump(ctx, identifier, models.CounterShares)
}

// bump increments a counter on a publicly visible article.
func (s *articleService) bump(ctx context.Context, identifier string, counter models.ArticleCounter) (*models.Article, error) {
	article, err := s.findVisible(ctx, nil, identifier)
	if err != nil {
		return nil, err
	}
	updated, err := s.repos.Article.Increment(ctx, article.ID, counter, 1)
	if err != nil {
		return nil, translate(err, "article")
	}
	if updated == nil {
		return nil, apperr.NotFound("article not found")
	}
	metrics.ObserveArticleEvent(string(counter))
	return updated, nil
}

// normalizeTags trims tags and drops blanks and duplicates, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
