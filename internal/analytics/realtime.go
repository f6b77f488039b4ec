package analytics

import (
	"math"
	"time"

	"github.com/news-portal-api/internal/models"
)

const (
	// ActiveUserWindow is how recently a login must be to count as active.
	ActiveUserWindow = 15 * time.Minute
	// TopPagesLimit is the number of pages in a realtime snapshot.
	TopPagesLimit = 5

	minReferrerBase = 25
	minDirect       = 5
)

// RealtimeInput is the snapshot a realtime report is computed from.
type RealtimeInput struct {
	ActiveUsers int
	// HourViews and DayViews sum views of articles published in the last
	// hour and the last 24 hours.
	HourViews int64
	DayViews  int64
	// TopArticles are the most viewed published articles, highest first.
	TopArticles []*models.Article
}

// TopPage is a page ranked by views.
type TopPage struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Referrer is an estimated traffic source.
type Referrer struct {
	Source   string `json:"source"`
	Sessions int64  `json:"sessions"`
}

// RealtimeSnapshot is the realtime analytics report.
type RealtimeSnapshot struct {
	ActiveUsers        int        `json:"activeUsers"`
	PageViewsPerMinute int64      `json:"pageViewsPerMinute"`
	TopPages           []TopPage  `json:"topPages"`
	Referrers          []Referrer `json:"referrers"`
	// ReferrersEstimated is always true: referrers are a fixed proportional
	// split, not measured traffic sources.
	ReferrersEstimated bool `json:"referrersEstimated"`
}

// Realtime builds the realtime snapshot.
func Realtime(in RealtimeInput) RealtimeSnapshot {
	snap := RealtimeSnapshot{
		ActiveUsers:        in.ActiveUsers,
		PageViewsPerMinute: pageViewsPerMinute(in.HourViews, in.DayViews),
		TopPages:           make([]TopPage, 0, TopPagesLimit),
		Referrers:          referrers(referrerBase(in)),
		ReferrersEstimated: true,
	}

	for i, a := range in.TopArticles {
		if i == TopPagesLimit {
			break
		}
		snap.TopPages = append(snap.TopPages, TopPage{Path: "/articles/" + a.Slug, Views: a.Views})
	}
	return snap
}

func pageViewsPerMinute(hourViews, dayViews int64) int64 {
	if perMinute := roundDiv(hourViews, 60); perMinute > 0 {
		return perMinute
	}
	return roundDiv(dayViews, 1440)
}

func referrerBase(in RealtimeInput) int64 {
	if in.DayViews > 0 {
		return in.DayViews
	}
	if in.HourViews > 0 {
		return in.HourViews
	}
	base := int64(in.ActiveUsers) * 2
	if base < minReferrerBase {
		base = minReferrerBase
	}
	return base
}

func referrers(base int64) []Referrer {
	direct := share(base, 0.2)
	if direct < minDirect {
		direct = minDirect
	}
	return []Referrer{
		{Source: "google", Sessions: share(base, 0.4)},
		{Source: "facebook", Sessions: share(base, 0.25)},
		{Source: "twitter", Sessions: share(base, 0.15)},
		{Source: "direct", Sessions: direct},
	}
}

func share(base int64, fraction float64) int64 {
	return int64(math.Round(float64(base) * fraction))
}

func roundDiv(v, d int64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(math.Round(float64(v) / float64(d)))
}
