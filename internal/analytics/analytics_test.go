package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/news-portal-api/internal/analytics"
	"github.com/news-portal-api/internal/models"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func published(id, author string, at time.Time, views int64) *models.Article {
	return &models.Article{
		ID:          id,
		Slug:        id,
		Title:       models.Localized{En: "Title " + id},
		AuthorID:    author,
		Status:      models.ArticleStatusPublished,
		PublishedAt: &at,
		Views:       views,
	}
}

func TestCTR(t *testing.T) {
	tests := []struct {
		name        string
		clicks      int64
		impressions int64
		want        float64
	}{
		{"regular", 10, 200, 0.05},
		{"no traffic", 0, 0, 0},
		{"clicks without impressions", 7, 0, 0},
		{"rounded to four places", 1, 3, 0.3333},
		{"capped at one", 50, 10, 1},
		{"negative clicks", -4, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analytics.CTR(tt.clicks, tt.impressions)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestTrafficTrend_SingleRecentArticle(t *testing.T) {
	start := now.Add(-24 * time.Hour)
	articles := []*models.Article{published("a1", "u1", now.Add(-30*time.Minute), 120)}

	buckets := analytics.TrafficTrend(articles, start, now, time.Hour)

	require.Len(t, buckets, 24)
	for i, b := range buckets {
		if i == 23 {
			assert.Equal(t, int64(120), b.PageViews)
			assert.Equal(t, 1, b.UniqueUsers)
			continue
		}
		assert.Zero(t, b.PageViews, "bucket %d", i)
		assert.Zero(t, b.UniqueUsers, "bucket %d", i)
	}
}

func TestTrafficTrend_BucketsAreContiguous(t *testing.T) {
	windows := []time.Duration{5 * time.Minute, 90 * time.Minute, 24 * time.Hour, 7 * 24 * time.Hour}
	intervals := []time.Duration{time.Minute, 7 * time.Minute, time.Hour, 48 * time.Hour}

	for _, window := range windows {
		for _, interval := range intervals {
			t.Run(fmt.Sprintf("%s/%s", window, interval), func(t *testing.T) {
				start := now.Add(-window)
				buckets := analytics.TrafficTrend(nil, start, now, interval)

				step := analytics.EffectiveInterval(window, interval)
				require.Len(t, buckets, analytics.BucketCount(window, step))
				for i, b := range buckets {
					assert.True(t, b.Timestamp.Equal(start.Add(time.Duration(i)*step)))
				}
			})
		}
	}
}

func TestTrafficTrend_ConservesViews(t *testing.T) {
	start := now.Add(-6 * time.Hour)
	draft := &models.Article{ID: "d", Status: models.ArticleStatusDraft, Views: 1000}
	articles := []*models.Article{
		published("start-edge", "u1", start, 10),
		published("boundary", "u2", start.Add(2*time.Hour), 20),
		published("boundary-2", "u2", start.Add(2*time.Hour), 5),
		published("late", "u3", now.Add(-time.Second), 40),
		published("too-old", "u1", start.Add(-time.Second), 500),
		published("at-now", "u1", now, 700),
		draft,
	}

	buckets := analytics.TrafficTrend(articles, start, now, time.Hour)

	var total int64
	for _, b := range buckets {
		total += b.PageViews
	}
	assert.Equal(t, int64(75), total)
	assert.Equal(t, int64(10), buckets[0].PageViews)
	assert.Equal(t, int64(25), buckets[2].PageViews)
	assert.Equal(t, 1, buckets[2].UniqueUsers, "two articles by one author count once")
	assert.Equal(t, int64(40), buckets[5].PageViews)
}

func TestTrafficTrend_IntervalClamp(t *testing.T) {
	start := now.Add(-2 * time.Hour)

	buckets := analytics.TrafficTrend(nil, start, now, 10*24*time.Hour)
	assert.Len(t, buckets, 1, "interval wider than window collapses to one bucket")

	buckets = analytics.TrafficTrend(nil, start, now, time.Minute)
	assert.Len(t, buckets, 24, "interval below five minutes is raised to five minutes")
}

func TestRealtime(t *testing.T) {
	top := make([]*models.Article, 0, 7)
	for i := 0; i < 7; i++ {
		top = append(top, published(fmt.Sprintf("slug-%d", i), "u", now, int64(100-i)))
	}

	snap := analytics.Realtime(analytics.RealtimeInput{
		ActiveUsers: 3,
		HourViews:   600,
		DayViews:    2000,
		TopArticles: top,
	})

	assert.Equal(t, 3, snap.ActiveUsers)
	assert.Equal(t, int64(10), snap.PageViewsPerMinute)
	require.Len(t, snap.TopPages, 5)
	assert.Equal(t, "/articles/slug-0", snap.TopPages[0].Path)
	assert.True(t, snap.ReferrersEstimated)
	assert.Equal(t, []analytics.Referrer{
		{Source: "google", Sessions: 800},
		{Source: "facebook", Sessions: 500},
		{Source: "twitter", Sessions: 300},
		{Source: "direct", Sessions: 400},
	}, snap.Referrers)
}

func TestRealtime_Fallbacks(t *testing.T) {
	t.Run("day rate when hour is empty", func(t *testing.T) {
		snap := analytics.Realtime(analytics.RealtimeInput{DayViews: 2880})
		assert.Equal(t, int64(2), snap.PageViewsPerMinute)
	})

	t.Run("hour rate rounding to zero falls back to day", func(t *testing.T) {
		snap := analytics.Realtime(analytics.RealtimeInput{HourViews: 20, DayViews: 4320})
		assert.Equal(t, int64(3), snap.PageViewsPerMinute)
	})

	t.Run("no views at all", func(t *testing.T) {
		snap := analytics.Realtime(analytics.RealtimeInput{ActiveUsers: 4})
		assert.Zero(t, snap.PageViewsPerMinute)
		assert.NotNil(t, snap.TopPages)
		// base is max(4*2, 25) = 25
		assert.Equal(t, int64(10), snap.Referrers[0].Sessions)
		assert.Equal(t, int64(6), snap.Referrers[1].Sessions)
		assert.Equal(t, int64(4), snap.Referrers[2].Sessions)
		assert.Equal(t, int64(5), snap.Referrers[3].Sessions)
	})
}

func TestNormalizeContentQuery(t *testing.T) {
	q := analytics.NormalizeContentQuery("", "", "")
	assert.Equal(t, analytics.RankQuery{Sort: "views", Desc: true, Limit: 10}, q)

	q = analytics.NormalizeContentQuery("500", "likes", "asc")
	assert.Equal(t, analytics.RankQuery{Sort: "likes", Desc: false, Limit: 100}, q)

	q = analytics.NormalizeContentQuery("-2", "password", "sideways")
	assert.Equal(t, analytics.RankQuery{Sort: "views", Desc: true, Limit: 1}, q)
}

func TestContentPerformance(t *testing.T) {
	a := published("a1", "u1", now, 9)
	a.Likes, a.Shares = 3, 1

	items := analytics.ContentPerformance([]*models.Article{a})
	require.Len(t, items, 1)
	assert.Equal(t, analytics.ContentItem{ArticleID: "a1", Title: "Title a1", Views: 9, Likes: 3, Shares: 1}, items[0])
}

func ad(id, position string, impressions, clicks int64) *models.Advertisement {
	return &models.Advertisement{ID: id, Position: position, Impressions: impressions, Clicks: clicks, IsActive: true}
}

func TestAdSummary(t *testing.T) {
	summary := analytics.AdSummary([]*models.Advertisement{
		ad("1", "top", 200, 10),
		ad("2", "sidebar-top", 0, 0),
		ad("3", "top", 300, 15),
	})

	assert.Equal(t, analytics.AdTotals{Impressions: 500, Clicks: 25, CTR: 0.05}, summary.Totals)
	require.Len(t, summary.ByPosition, 2)
	assert.Equal(t, "top", summary.ByPosition[0].Position)
	assert.Equal(t, 0.05, summary.ByPosition[0].CTR)
	assert.Equal(t, "sidebar-top", summary.ByPosition[1].Position)
	assert.Zero(t, summary.ByPosition[1].CTR)

	empty := analytics.AdSummary(nil)
	assert.Zero(t, empty.Totals.CTR)
	assert.NotNil(t, empty.ByPosition)
}

func TestTopAds(t *testing.T) {
	ads := []*models.Advertisement{
		ad("low", "top", 100, 1),
		ad("tie-a", "top", 100, 5),
		ad("high", "top", 100, 20),
		ad("tie-b", "top", 200, 10),
		ad("none", "top", 0, 0),
	}

	rows := analytics.TopAds(ads, analytics.NormalizeTopAdsQuery("3", "", ""))
	require.Len(t, rows, 3)
	assert.Equal(t, "high", rows[0].AdID)
	assert.Equal(t, "tie-a", rows[1].AdID, "equal CTR keeps retrieval order")
	assert.Equal(t, "tie-b", rows[2].AdID)

	rows = analytics.TopAds(ads, analytics.NormalizeTopAdsQuery("", "ctr", "asc"))
	require.Len(t, rows, 5)
	assert.Equal(t, "none", rows[0].AdID)

	rows = analytics.TopAds(ads, analytics.NormalizeTopAdsQuery("2", "clicks", "desc"))
	assert.Equal(t, []string{"low", "tie-a"}, []string{rows[0].AdID, rows[1].AdID}, "store order is kept for stored columns")
}

func TestNormalizeTopAdsQuery(t *testing.T) {
	assert.Equal(t, 50, analytics.NormalizeTopAdsQuery("1000", "", "").Limit)
	assert.Equal(t, "ctr", analytics.NormalizeTopAdsQuery("", "views", "").Sort)
}

func TestMediaUsage(t *testing.T) {
	recent := make([]*models.Media, 0, 6)
	for i := 0; i < 6; i++ {
		recent = append(recent, &models.Media{ID: fmt.Sprint(i), Filename: fmt.Sprintf("f%d.png", i), Type: models.MediaImage})
	}

	summary := analytics.MediaUsage(map[models.MediaType]int{models.MediaImage: 4, models.MediaVideo: 2}, 3*1024*1024+512*1024, recent)

	assert.Equal(t, analytics.MediaCounts{Image: 4, Video: 2, Document: 0}, summary.Counts)
	assert.Equal(t, 3.5, summary.StorageMB)
	assert.Len(t, summary.RecentUploads, 5)

	assert.Equal(t, 0.01, analytics.MediaUsage(nil, 10000, nil).StorageMB)
}

func TestAuthStats(t *testing.T) {
	windowStart := now.Add(-7 * 24 * time.Hour)
	recent := now.Add(-time.Hour)
	old := now.Add(-30 * 24 * time.Hour)

	users := []*models.User{
		{ID: "1", Role: models.RoleAdmin, IsActive: true, LastLogin: &recent},
		{ID: "2", Role: models.RoleEditorial, IsActive: true, LastLogin: &old},
		{ID: "3", Role: models.RoleEditorial, IsActive: true},
		{ID: "4", Role: models.RoleEditorial, IsActive: false, LastLogin: &recent},
		{ID: "5", Role: models.RoleSuperAdmin, IsActive: true, LastLogin: &windowStart},
	}

	stats := analytics.AuthStats(users, windowStart)
	assert.Equal(t, 2, stats.Logins)
	assert.Zero(t, stats.FailedLogins)
	assert.Zero(t, stats.PasswordResets)
	assert.Equal(t, map[models.Role]int{models.RoleAdmin: 1, models.RoleEditorial: 2, models.RoleSuperAdmin: 1}, stats.ByRole)
}

func TestDailyArticleStats(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 23, 59, 0, 0, time.UTC)

	stats := analytics.DailyArticleStats([]*models.Article{
		published("b", "u", day2, 3),
		published("a", "u", day1, 1),
		published("c", "u", day1.Add(time.Hour), 2),
		published("out", "u", day1.AddDate(0, -1, 0), 100),
	}, day1.Add(-time.Hour), now)

	assert.Equal(t, []analytics.DailyStats{
		{Date: "2024-06-01", Count: 2, Views: 3},
		{Date: "2024-06-02", Count: 1, Views: 3},
	}, stats)
}

func TestDailyTraffic(t *testing.T) {
	day := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	a := published("a", "u", day, 10)
	a.Likes, a.Shares = 2, 1
	b := published("b", "u", day.Add(time.Hour), 5)

	points := analytics.DailyTraffic([]*models.Article{a, b}, day.Add(-24*time.Hour))
	assert.Equal(t, []analytics.DailyTrafficPoint{{Date: "2024-06-10", Articles: 2, Views: 15, Likes: 2, Shares: 1}}, points)
}

func TestCategoryDistribution(t *testing.T) {
	cats := []*models.Category{
		{ID: "c1", Name: models.Localized{En: "Politics", Bn: "রাজনীতি"}},
		{ID: "c2", Name: models.Localized{En: "Sports", Bn: "খেলা"}},
	}

	rows := analytics.CategoryDistribution([]analytics.CategoryCount{
		{CategoryID: "c1", Count: 2, Views: 30},
		{CategoryID: "gone", Count: 10, Views: 1},
		{CategoryID: "c2", Count: 5, Views: 20},
	}, cats)

	require.Len(t, rows, 2)
	assert.Equal(t, "Sports", rows[0].CategoryName.En)
	assert.Equal(t, 5, rows[0].Count)
	assert.Equal(t, int64(30), rows[1].TotalViews)
}

func TestUserActivity(t *testing.T) {
	users := []*models.User{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}

	rows := analytics.UserActivity(users, map[string]int{"b": 4, "c": 1}, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, 4, rows[0].ArticleCount)
	assert.Equal(t, "c", rows[1].ID)
}
