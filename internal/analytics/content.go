package analytics

import (
	"strconv"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
)

const (
	DefaultContentLimit = 10
	MaxContentLimit     = 100
)

var contentSorts = map[string]bool{"views": true, "likes": true, "shares": true, "publishedAt": true}

// RankQuery is a normalised top-N request.
type RankQuery struct {
	Sort  string
	Desc  bool
	Limit int
}

// NormalizeContentQuery bounds a content performance request: sort is one
// of views, likes, shares or publishedAt (default views), order is desc
// unless "asc", limit is clamped to [1, 100] (default 10).
func NormalizeContentQuery(limit, sort, order string) RankQuery {
	if !contentSorts[sort] {
		sort = "views"
	}
	return RankQuery{
		Sort:  sort,
		Desc:  order != "asc",
		Limit: pagination.ClampLimit(atoi(limit), DefaultContentLimit, MaxContentLimit),
	}
}

// ContentItem is one row of the content performance report.
type ContentItem struct {
	ArticleID string `json:"articleId"`
	Title     string `json:"title"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Shares    int64  `json:"shares"`
}

// ContentPerformance projects already ranked articles into report rows.
func ContentPerformance(articles []*models.Article) []ContentItem {
	items := make([]ContentItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, ContentItem{
			ArticleID: a.ID,
			Title:     a.Title.En,
			Views:     a.Views,
			Likes:     a.Likes,
			Shares:    a.Shares,
		})
	}
	return items
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
