package analytics

import (
	"time"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/timewindow"
)

// TrendBucket is one interval of a traffic trend.
type TrendBucket struct {
	Timestamp   time.Time `json:"ts"`
	PageViews   int64     `json:"pageViews"`
	UniqueUsers int       `json:"uniqueUsers"`
}

// EffectiveInterval bounds interval to [MinDuration, max(window, MinDuration)].
func EffectiveInterval(window, interval time.Duration) time.Duration {
	upper := window
	if upper < timewindow.MinDuration {
		upper = timewindow.MinDuration
	}
	return timewindow.Clamp(interval, timewindow.MinDuration, upper)
}

// BucketCount is ceil(window/interval), at least 1.
func BucketCount(window, interval time.Duration) int {
	if window <= 0 || interval <= 0 {
		return 1
	}
	n := int((window + interval - 1) / interval)
	if n < 1 {
		n = 1
	}
	return n
}

// TrafficTrend spreads the views of published articles over fixed-width
// buckets covering [windowStart, now). An article lands in bucket
// floor((publishedAt-windowStart)/interval), capped at the last bucket.
// Articles that are unpublished or published outside the window are skipped.
// UniqueUsers counts distinct authors per bucket.
func TrafficTrend(articles []*models.Article, windowStart, now time.Time, interval time.Duration) []TrendBucket {
	window := now.Sub(windowStart)
	step := EffectiveInterval(window, interval)
	count := BucketCount(window, step)

	buckets := make([]TrendBucket, count)
	authors := make([]map[string]struct{}, count)
	for i := range buckets {
		buckets[i].Timestamp = windowStart.Add(time.Duration(i) * step)
		authors[i] = make(map[string]struct{})
	}

	for _, a := range articles {
		if a.Status != models.ArticleStatusPublished || a.PublishedAt == nil {
			continue
		}
		at := *a.PublishedAt
		if at.Before(windowStart) || !at.Before(now) {
			continue
		}

		idx := int(at.Sub(windowStart) / step)
		if idx >= count {
			idx = count - 1
		}
		buckets[idx].PageViews += a.Views
		if a.AuthorID != "" {
			authors[idx][a.AuthorID] = struct{}{}
		}
	}

	for i := range buckets {
		buckets[i].UniqueUsers = len(authors[i])
	}
	return buckets
}
