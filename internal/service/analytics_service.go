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
	"github.com/news-portal-api/internal/timewindow"
)

// analyticsService implements AnalyticsService
type analyticsService struct {
	deps
	log zerolog.Logger
}

func newAnalyticsService(d deps, log zerolog.Logger) *analyticsService {
	return &analyticsService{
		deps: d,
		log:  log.With().Str("service", "analytics").Logger(),
	}
}

// publishedBetween matches published articles with from <= publishedAt <= to.
func publishedBetween(from, to time.Time) repository.ArticleFilter {
	published := models.ArticleStatusPublished
	return repository.ArticleFilter{Status: &published, PublishedFrom: &from, PublishedTo: &to}
}

func (s *analyticsService) Realtime(ctx context.Context) (*analytics.RealtimeSnapshot, error) {
	now := s.now()
	var in analytics.RealtimeInput

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		since := now.Add(-analytics.ActiveUserWindow)
		var err error
		in.ActiveUsers, err = s.repos.User.Count(gctx, repository.UserFilter{IsActive: boolPtr(true), LastLoginFrom: &since})
		return err
	})
	g.Go(func() error {
		var err error
		in.HourViews, err = s.repos.Article.SumViews(gctx, publishedBetween(now.Add(-time.Hour), now))
		return err
	})
	g.Go(func() error {
		var err error
		in.DayViews, err = s.repos.Article.SumViews(gctx, publishedBetween(now.Add(-24*time.Hour), now))
		return err
	})
	g.Go(func() error {
		published := models.ArticleStatusPublished
		var err error
		in.TopArticles, _, err = s.repos.Article.List(gctx, repository.ArticleFilter{Status: &published, PublishedTo: &now}, repository.ListOptions{
			Sort:  []pagination.SortField{{Field: "views", Desc: true}},
			Limit: analytics.TopPagesLimit,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "realtime analytics")
	}

	snap := analytics.Realtime(in)
	return &snap, nil
}

func (s *analyticsService) Traffic(ctx context.Context, window, interval string) (*TrafficReport, error) {
	now := s.now()
	span := timewindow.ParseDuration(window, timewindow.DefaultWindow)
	step := analytics.EffectiveInterval(span, timewindow.ParseDuration(interval, timewindow.DefaultInterval))
	start := now.Add(-span)

	var articles []*models.Article
	err := s.repos.Article.StreamAll(ctx, publishedBetween(start, now), func(a *models.Article) error {
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, translate(err, "traffic analytics")
	}

	return &TrafficReport{
		WindowStart: start,
		WindowEnd:   now,
		Interval:    step.String(),
		Buckets:     analytics.TrafficTrend(articles, start, now, step),
	}, nil
}

func (s *analyticsService) Content(ctx context.Context, limit, sort, order string) ([]analytics.ContentItem, error) {
	q := analytics.NormalizeContentQuery(limit, sort, order)
	published := models.ArticleStatusPublished
	now := s.now()

	articles, _, err := s.repos.Article.List(ctx, repository.ArticleFilter{Status: &published, PublishedTo: &now}, repository.ListOptions{
		Sort:  []pagination.SortField{{Field: q.Sort, Desc: q.Desc}},
		Limit: q.Limit,
	})
	if err != nil {
		return nil, translate(err, "content analytics")
	}
	return analytics.ContentPerformance(articles), nil
}

func (s *analyticsService) AdSummary(ctx context.Context, window string) (*analytics.AdPerformance, error) {
	now := s.now()
	start := timewindow.WindowStart(now, window, timewindow.DefaultSummaryWindow)

	ads, _, err := s.repos.Advertisement.List(ctx, repository.AdvertisementFilter{
		IsActive:     boolPtr(true),
		StartsBefore: &now,
		EndsAfter:    &start,
	}, repository.ListOptions{Sort: []pagination.SortField{{Field: "createdAt"}}})
	if err != nil {
		return nil, translate(err, "ad analytics")
	}

	summary := analytics.AdSummary(ads)
	return &summary, nil
}

func (s *analyticsService) TopAds(ctx context.Context, limit, sort, order string) ([]analytics.TopAd, error) {
	q := analytics.NormalizeTopAdsQuery(limit, sort, order)

	// CTR is derived, so ranking by it needs every candidate in memory
	opts := repository.ListOptions{Sort: []pagination.SortField{{Field: "createdAt"}}}
	if q.Sort != "ctr" {
		opts = repository.ListOptions{
			Sort:  []pagination.SortField{{Field: q.Sort, Desc: q.Desc}},
			Limit: q.Limit,
		}
	}

	ads, _, err := s.repos.Advertisement.List(ctx, repository.AdvertisementFilter{IsActive: boolPtr(true)}, opts)
	if err != nil {
		return nil, translate(err, "ad analytics")
	}
	return analytics.TopAds(ads, q), nil
}

func (s *analyticsService) MediaSummary(ctx context.Context) (*analytics.MediaSummary, error) {
	var (
		counts map[models.MediaType]int
		size   int64
		recent []*models.Media
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.repos.Media.CountByType(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		size, err = s.repos.Media.TotalSize(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, _, err = s.repos.Media.List(gctx, repository.MediaFilter{}, repository.ListOptions{
			Sort:  []pagination.SortField{{Field: "createdAt", Desc: true}},
			Limit: analytics.RecentUploadsLimit,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "media analytics")
	}

	summary := analytics.MediaUsage(counts, size, recent)
	return &summary, nil
}

func (s *analyticsService) AuthStats(ctx context.Context, window string) (*analytics.AuthSummary, error) {
	start := timewindow.WindowStart(s.now(), window, timewindow.DefaultSummaryWindow)

	users, _, err := s.repos.User.List(ctx, repository.UserFilter{IsActive: boolPtr(true)}, repository.ListOptions{
		Sort: []pagination.SortField{{Field: "createdAt"}},
	})
	if err != nil {
		return nil, translate(err, "auth analytics")
	}

	summary := analytics.AuthStats(users, start)
	return &summary, nil
}
