package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/news-portal-api/internal/analytics"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/repository"
)

const (
	defaultRangeDays   = 30
	maxRangeDays       = 365
	recentArticleCount = 5
	defaultTopArticles = 10
	defaultActiveUsers = 10
)

// ArticleCounts breaks the article total down by status.
type ArticleCounts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
}

// Overview is the dashboard landing summary.
type Overview struct {
	Articles       ArticleCounts           `json:"articles"`
	Users          int                     `json:"users"`
	Categories     int                     `json:"categories"`
	Advertisements int                     `json:"advertisements"`
	Media          int                     `json:"media"`
	TotalViews     int64                   `json:"totalViews"`
	RecentArticles []models.ArticleSummary `json:"recentArticles"`
}

// dashboardService implements DashboardService
type dashboardService struct {
	deps
	log zerolog.Logger
}

func newDashboardService(d deps, log zerolog.Logger) *dashboardService {
	return &dashboardService{
		deps: d,
		log:  log.With().Str("service", "dashboard").Logger(),
	}
}

func (s *dashboardService) Overview(ctx context.Context) (*Overview, error) {
	var (
		out      Overview
		byStatus map[models.ArticleStatus]int
		recent   []*models.Article
	)
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.repos.Article.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Users, err = s.repos.User.Count(gctx, repository.UserFilter{IsActive: boolPtr(true)})
		return err
	})
	g.Go(func() error {
		var err error
		out.Categories, err = s.repos.Category.Count(gctx, repository.CategoryFilter{IsActive: boolPtr(true)})
		return err
	})
	g.Go(func() error {
		var err error
		out.Advertisements, err = s.repos.Advertisement.Count(gctx, repository.AdvertisementFilter{IsActive: boolPtr(true)})
		return err
	})
	g.Go(func() error {
		var err error
		out.Media, err = s.repos.Media.Count(gctx, repository.MediaFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		out.TotalViews, err = s.repos.Article.SumViews(gctx, repository.ArticleFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		recent, _, err = s.repos.Article.List(gctx, publishedBetween(time.Time{}, now), repository.ListOptions{
			Sort:  newestFirst,
			Limit: recentArticleCount,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "dashboard overview")
	}

	for _, n := range byStatus {
		out.Articles.Total += n
	}
	out.Articles.Published = byStatus[models.ArticleStatusPublished]
	out.Articles.Draft = byStatus[models.ArticleStatusDraft]
	out.RecentArticles = make([]models.ArticleSummary, 0, len(recent))
	for _, a := range recent {
		out.RecentArticles = append(out.RecentArticles, a.Summary())
	}
	return &out, nil
}

// collect streams every article matching filter into memory.
func (s *dashboardService) collect(ctx context.Context, filter repository.ArticleFilter) ([]*models.Article, error) {
	var articles []*models.Article
	err := s.repos.Article.StreamAll(ctx, filter, func(a *models.Article) error {
		articles = append(articles, a)
		return nil
	})
	return articles, err
}

func (s *dashboardService) ArticleStats(ctx context.Context, start, end *time.Time) ([]analytics.DailyStats, error) {
	now := s.now()
	to := now
	if end != nil {
		to = end.UTC()
	}
	from := to.AddDate(0, 0, -defaultRangeDays)
	if start != nil {
		from = start.UTC()
	}
	if from.After(to) {
		return nil, invalid("startDate", "start date must not be after end date")
	}

	articles, err := s.collect(ctx, repository.ArticleFilter{PublishedFrom: &from, PublishedTo: &to})
	if err != nil {
		return nil, translate(err, "article stats")
	}
	return analytics.DailyArticleStats(articles, from, to), nil
}

// daysAgo parses a day count clamped to [1, maxRangeDays] and returns the
// instant that many days before now.
func (s *dashboardService) daysAgo(days string) time.Time {
	return s.now().AddDate(0, 0, -limitOf(days, defaultRangeDays, maxRangeDays))
}

func (s *dashboardService) TopArticles(ctx context.Context, limit, days string) ([]models.ArticleSummary, error) {
	start := s.daysAgo(days)
	published := models.ArticleStatusPublished
	now := s.now()

	articles, _, err := s.repos.Article.List(ctx, repository.ArticleFilter{
		Status:        &published,
		PublishedFrom: &start,
		PublishedTo:   &now,
	}, repository.ListOptions{
		Sort:  []pagination.SortField{{Field: "views", Desc: true}},
		Limit: limitOf(limit, defaultTopArticles, maxListLimit),
	})
	if err != nil {
		return nil, translate(err, "top articles")
	}

	out := make([]models.ArticleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Summary())
	}
	return out, nil
}

func (s *dashboardService) CategoryDistribution(ctx context.Context) ([]analytics.CategoryShare, error) {
	var (
		groups     []repository.GroupCount
		categories []*models.Category
	)
	published := models.ArticleStatusPublished

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.repos.Article.GroupByCategory(gctx, repository.ArticleFilter{Status: &published})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.repos.Category.List(gctx, repository.CategoryFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "category distribution")
	}

	counts := make([]analytics.CategoryCount, 0, len(groups))
	for _, gc := range groups {
		counts = append(counts, analytics.CategoryCount{CategoryID: gc.Key, Count: gc.Count, Views: gc.Views})
	}
	return analytics.CategoryDistribution(counts, categories), nil
}

func (s *dashboardService) UserActivity(ctx context.Context, limit string) ([]analytics.UserActivityRow, error) {
	var (
		users  []*models.User
		counts map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, _, err = s.repos.User.List(gctx, repository.UserFilter{}, repository.ListOptions{
			Sort: []pagination.SortField{{Field: "createdAt"}},
		})
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repos.Article.CountByAuthor(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "user activity")
	}

	return analytics.UserActivity(users, counts, limitOf(limit, defaultActiveUsers, maxListLimit)), nil
}

func (s *dashboardService) TrafficTrends(ctx context.Context, days string) ([]analytics.DailyTrafficPoint, error) {
	start := s.daysAgo(days)

	articles, err := s.collect(ctx, publishedBetween(start, s.now()))
	if err != nil {
		return nil, translate(err, "traffic trends")
	}
	return analytics.DailyTraffic(articles, start), nil
}
