package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/news-portal-api/internal/analytics"
	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/models"
)

// seedNewsroom fills every collection: four users, two categories, four
// articles, four ads and three media items.
func seedNewsroom(t *testing.T, f *fixture) {
	t.Helper()
	seedUsers(t, f)
	seedArticles(t, f)
	seedAds(t, f)
	seedMedia(t, f)
}

func TestAnalyticsService_Realtime(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)
	ctx := context.Background()
	require.NoError(t, f.store.Users.RecordLogin(ctx, editor.ID, testNow.Add(-5*time.Minute), ""))
	require.NoError(t, f.store.Users.RecordLogin(ctx, admin.ID, testNow.Add(-time.Hour), ""))

	snap, err := f.svc.Analytics.Realtime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ActiveUsers)
	assert.Equal(t, int64(2), snap.PageViewsPerMinute, "90 views in the last hour")
	assert.Equal(t, []analytics.TopPage{
		{Path: "/articles/match-report", Views: 90},
		{Path: "/articles/election-results", Views: 40},
	}, snap.TopPages)
	assert.True(t, snap.ReferrersEstimated)
	require.Len(t, snap.Referrers, 4)
	assert.Equal(t, int64(52), snap.Referrers[0].Sessions)
}

func TestAnalyticsService_Traffic(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)

	report, err := f.svc.Analytics.Traffic(context.Background(), "24h", "6h")
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(-24*time.Hour), report.WindowStart)
	assert.Equal(t, testNow, report.WindowEnd)
	assert.Equal(t, "6h0m0s", report.Interval)
	require.Len(t, report.Buckets, 4)
	last := report.Buckets[3]
	assert.Equal(t, int64(130), last.PageViews)
	assert.Equal(t, 2, last.UniqueUsers)

	// an interval wider than the window collapses to a single bucket
	report, err = f.svc.Analytics.Traffic(context.Background(), "1h", "7d")
	require.NoError(t, err)
	assert.Equal(t, "1h0m0s", report.Interval)
	require.Len(t, report.Buckets, 1)
	assert.Equal(t, int64(90), report.Buckets[0].PageViews)
}

func TestAnalyticsService_Content(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)

	items, err := f.svc.Analytics.Content(context.Background(), "", "bogus", "asc")
	require.NoError(t, err)
	require.Len(t, items, 2, "future-dated articles are not reported")
	assert.Equal(t, artPublished, items[0].ArticleID)
	assert.Equal(t, artOther, items[1].ArticleID)
}

func TestAnalyticsService_Ads(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)
	ctx := context.Background()

	summary, err := f.svc.Analytics.AdSummary(ctx, "24h")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), summary.Totals.Impressions)
	assert.Equal(t, int64(35), summary.Totals.Clicks)
	assert.InDelta(t, 0.0233, summary.Totals.CTR, 1e-9)
	require.Len(t, summary.ByPosition, 2)
	assert.Equal(t, "top", summary.ByPosition[0].Position)
	assert.Equal(t, int64(1300), summary.ByPosition[0].Impressions)

	// the expired ad ended before a thirty minute window opens
	summary, err = f.svc.Analytics.AdSummary(ctx, "30m")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), summary.Totals.Impressions)

	top, err := f.svc.Analytics.TopAds(ctx, "", "", "")
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, adSidebar, top[0].AdID)
	assert.Equal(t, adTop, top[1].AdID)
	assert.Equal(t, 0.0, top[2].CTR)

	top, err = f.svc.Analytics.TopAds(ctx, "1", "clicks", "desc")
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, adTop, top[0].AdID)
}

func TestAnalyticsService_MediaAndAuth(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)
	ctx := context.Background()

	media, err := f.svc.Analytics.MediaSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, analytics.MediaCounts{Image: 2, Video: 1}, media.Counts)
	require.Len(t, media.RecentUploads, 3)
	assert.Equal(t, mediaVideo, media.RecentUploads[0].ID)

	require.NoError(t, f.store.Users.RecordLogin(ctx, editor.ID, testNow.Add(-2*time.Hour), ""))
	require.NoError(t, f.store.Users.RecordLogin(ctx, admin.ID, testNow.Add(-48*time.Hour), ""))
	stats, err := f.svc.Analytics.AuthStats(ctx, "24h")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Logins)
	assert.Equal(t, 2, stats.ByRole[models.RoleEditorial])
}

func TestAnalyticsService_SummaryWindowFallback(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()
	f.addAd(t, "30000000-0000-4000-8000-000000000009", "top", 1, func(ad *models.Advertisement) {
		ad.StartDate = testNow.AddDate(0, 0, -5)
		ad.EndDate = testNow.AddDate(0, 0, -3)
		ad.Impressions = 100
	})
	require.NoError(t, f.store.Users.RecordLogin(ctx, editor.ID, testNow.AddDate(0, 0, -3), ""))

	for _, window := range []string{"", "soon"} {
		summary, err := f.svc.Analytics.AdSummary(ctx, window)
		require.NoError(t, err)
		assert.Equal(t, int64(100), summary.Totals.Impressions, "window %q covers the last seven days", window)

		stats, err := f.svc.Analytics.AuthStats(ctx, window)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Logins, "window %q covers the last seven days", window)
	}

	summary, err := f.svc.Analytics.AdSummary(ctx, "24h")
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Totals.Impressions)

	stats, err := f.svc.Analytics.AuthStats(ctx, "24h")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Logins)
}

func TestAnalyticsService_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Users.Err = assert.AnError

	_, err := f.svc.Analytics.Realtime(context.Background())
	requireKind(t, err, apperr.KindUpstream)
}

func TestDashboardService_Overview(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)

	o, err := f.svc.Dashboard.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ArticleCounts{Total: 4, Published: 3, Draft: 1}, o.Articles)
	assert.Equal(t, 4, o.Users)
	assert.Equal(t, 2, o.Categories)
	assert.Equal(t, 3, o.Advertisements)
	assert.Equal(t, 3, o.Media)
	assert.Equal(t, int64(130), o.TotalViews)
	require.Len(t, o.RecentArticles, 2)
	assert.Equal(t, artOther, o.RecentArticles[0].ID)
}

func TestDashboardService_ArticleStats(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)
	f.addArticle(t, "20000000-0000-4000-8000-000000000009", "Last Week", admin.ID, catNews,
		published(testNow.AddDate(0, 0, -7)), withViews(5))
	ctx := context.Background()

	stats, err := f.svc.Dashboard.ArticleStats(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []analytics.DailyStats{
		{Date: "2026-03-03", Count: 1, Views: 5},
		{Date: "2026-03-10", Count: 2, Views: 130},
	}, stats)

	start := testNow.AddDate(0, 0, -1)
	stats, err = f.svc.Dashboard.ArticleStats(ctx, &start, nil)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	end := testNow.AddDate(0, 0, -2)
	_, err = f.svc.Dashboard.ArticleStats(ctx, &start, &end)
	requireKind(t, err, apperr.KindInvalidInput)
}

func TestDashboardService_Rankings(t *testing.T) {
	f := newFixture(t)
	seedNewsroom(t, f)
	ctx := context.Background()

	top, err := f.svc.Dashboard.TopArticles(ctx, "", "7")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, artOther, top[0].ID)

	dist, err := f.svc.Dashboard.CategoryDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, dist, 2)
	assert.Equal(t, catNews, dist[0].CategoryID)
	assert.Equal(t, 2, dist[0].Count)
	assert.Equal(t, "Sports", dist[1].CategoryName.En)

	activity, err := f.svc.Dashboard.UserActivity(ctx, "2")
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, editor.ID, activity[0].ID)
	assert.Equal(t, 3, activity[0].ArticleCount)

	trends, err := f.svc.Dashboard.TrafficTrends(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []analytics.DailyTrafficPoint{{Date: "2026-03-10", Articles: 2, Views: 130}}, trends)
}
