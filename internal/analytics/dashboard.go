package analytics

import (
	"sort"
	"time"

	"github.com/news-portal-api/internal/models"
)

const dayLayout = "2006-01-02"

// DailyStats aggregates articles published on one UTC day.
type DailyStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Views int64  `json:"views"`
}

// DailyArticleStats groups articles with publishedAt in [start, end] by UTC
// day, oldest first.
func DailyArticleStats(articles []*models.Article, start, end time.Time) []DailyStats {
	byDay := make(map[string]*DailyStats)
	for _, a := range articles {
		if a.PublishedAt == nil || a.PublishedAt.Before(start) || a.PublishedAt.After(end) {
			continue
		}
		day := a.PublishedAt.UTC().Format(dayLayout)
		s, ok := byDay[day]
		if !ok {
			s = &DailyStats{Date: day}
			byDay[day] = s
		}
		s.Count++
		s.Views += a.Views
	}

	out := make([]DailyStats, 0, len(byDay))
	for _, s := range byDay {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DailyTrafficPoint aggregates counters of articles published on one UTC day.
type DailyTrafficPoint struct {
	Date     string `json:"date"`
	Articles int    `json:"articles"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Shares   int64  `json:"shares"`
}

// DailyTraffic groups published articles with publishedAt at or after start
// by UTC day, oldest first.
func DailyTraffic(articles []*models.Article, start time.Time) []DailyTrafficPoint {
	byDay := make(map[string]*DailyTrafficPoint)
	for _, a := range articles {
		if a.Status != models.ArticleStatusPublished || a.PublishedAt == nil || a.PublishedAt.Before(start) {
			continue
		}
		day := a.PublishedAt.UTC().Format(dayLayout)
		p, ok := byDay[day]
		if !ok {
			p = &DailyTrafficPoint{Date: day}
			byDay[day] = p
		}
		p.Articles++
		p.Views += a.Views
		p.Likes += a.Likes
		p.Shares += a.Shares
	}

	out := make([]DailyTrafficPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CategoryCount is a grouped article count for one category.
type CategoryCount struct {
	CategoryID string
	Count      int
	Views      int64
}

// CategoryShare is one row of the category distribution.
type CategoryShare struct {
	CategoryID   string           `json:"categoryId"`
	CategoryName models.Localized `json:"categoryName"`
	Count        int              `json:"count"`
	TotalViews   int64            `json:"totalViews"`
}

// CategoryDistribution joins grouped counts to category names. Groups whose
// category no longer exists are dropped. Rows are ordered by count, highest
// first, then by category ID.
func CategoryDistribution(counts []CategoryCount, categories []*models.Category) []CategoryShare {
	names := make(map[string]models.Localized, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	out := make([]CategoryShare, 0, len(counts))
	for _, c := range counts {
		name, ok := names[c.CategoryID]
		if !ok {
			continue
		}
		out = append(out, CategoryShare{
			CategoryID:   c.CategoryID,
			CategoryName: name,
			Count:        c.Count,
			TotalViews:   c.Views,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

// UserActivityRow is one row of the user activity ranking.
type UserActivityRow struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	ArticleCount int         `json:"articleCount"`
	LastLogin    *time.Time  `json:"lastLogin,omitempty"`
}

// UserActivity ranks users by authored article count, highest first, and
// keeps the first limit rows. Users without articles rank with a count of 0.
func UserActivity(users []*models.User, articleCounts map[string]int, limit int) []UserActivityRow {
	out := make([]UserActivityRow, 0, len(users))
	for _, u := range users {
		out = append(out, UserActivityRow{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			ArticleCount: articleCounts[u.ID],
			LastLogin:    u.LastLogin,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ArticleCount > out[j].ArticleCount })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
