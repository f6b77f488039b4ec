package models

import (
	"math"
	"strings"
	"time"
)

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
	ArticleStatusScheduled ArticleStatus = "scheduled"
)

// ValidArticleStatuses defines allowed article statuses
var ValidArticleStatuses = map[ArticleStatus]bool{
	ArticleStatusDraft:     true,
	ArticleStatusPublished: true,
	ArticleStatusArchived:  true,
	ArticleStatusScheduled: true,
}

// WordsPerMinute is the reading speed used to derive ReadTime.
const WordsPerMinute = 200

// Article represents a news article
type Article struct {
	ID            string        `json:"id"`
	Title         Localized     `json:"title"`
	Slug          string        `json:"slug"`
	Excerpt       Localized     `json:"excerpt"`
	Content       Localized     `json:"content"`
	FeaturedImage string        `json:"featuredImage,omitempty"`
	CategoryID    string        `json:"categoryId"`
	AuthorID      string        `json:"authorId"`
	Tags          []string      `json:"tags"`
	Status        ArticleStatus `json:"status"`
	PublishedAt   *time.Time    `json:"publishedAt,omitempty"`
	ScheduledAt   *time.Time    `json:"scheduledAt,omitempty"`
	IsFeatured    bool          `json:"isFeatured"`
	IsBreaking    bool          `json:"isBreaking"`
	IsTrending    bool          `json:"isTrending"`
	AllowComments bool          `json:"allowComments"`
	Views         int64         `json:"views"`
	Likes         int64         `json:"likes"`
	Shares        int64         `json:"shares"`
	ReadTime      int           `json:"readTime"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// IsVisibleAt reports whether the article is publicly visible at t.
func (a *Article) IsVisibleAt(t time.Time) bool {
	return a.Status == ArticleStatusPublished && a.PublishedAt != nil && !a.PublishedAt.After(t)
}

// ReadTimeMinutes derives reading time in minutes from the English content.
func ReadTimeMinutes(content string) int {
	words := len(strings.Fields(content))
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// ArticleCounter names a monotonic article counter.
type ArticleCounter string

const (
	CounterViews  ArticleCounter = "views"
	CounterLikes  ArticleCounter = "likes"
	CounterShares ArticleCounter = "shares"
)

// ArticleInput is the payload for creating or updating an article.
// Nil pointers on update mean "leave unchanged".
type ArticleInput struct {
	Title         *Localized     `json:"title"`
	Excerpt       *Localized     `json:"excerpt"`
	Content       *Localized     `json:"content"`
	FeaturedImage *string        `json:"featuredImage"`
	CategoryID    *string        `json:"categoryId"`
	Tags          []string       `json:"tags"`
	Status        *ArticleStatus `json:"status"`
	ScheduledAt   *time.Time     `json:"scheduledAt"`
	IsFeatured    *bool          `json:"isFeatured"`
	IsBreaking    *bool          `json:"isBreaking"`
	IsTrending    *bool          `json:"isTrending"`
	AllowComments *bool          `json:"allowComments"`
}

// ArticleQuery holds the client-requested article list filters.
type ArticleQuery struct {
	Status     string
	CategoryID string
	AuthorID   string
	Tag        string
	Search     string
	IsFeatured *bool
	IsBreaking *bool
	IsTrending *bool
	StartDate  *time.Time
	EndDate    *time.Time
	Page       string
	Limit      string
	Sort       string
}

// ArticleStats summarises the article collection.
type ArticleStats struct {
	TotalArticles     int              `json:"totalArticles"`
	PublishedArticles int              `json:"publishedArticles"`
	DraftArticles     int              `json:"draftArticles"`
	ArchivedArticles  int              `json:"archivedArticles"`
	TotalViews        int64            `json:"totalViews"`
	TopArticles       []ArticleSummary `json:"topArticles"`
}

// ArticleSummary is a compact article projection used in rankings.
type ArticleSummary struct {
	ID          string     `json:"id"`
	Title       Localized  `json:"title"`
	Slug        string     `json:"slug"`
	Views       int64      `json:"views"`
	Likes       int64      `json:"likes"`
	Shares      int64      `json:"shares"`
	AuthorID    string     `json:"authorId"`
	CategoryID  string     `json:"categoryId"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Summary projects the article into an ArticleSummary.
func (a *Article) Summary() ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Views:       a.Views,
		Likes:       a.Likes,
		Shares:      a.Shares,
		AuthorID:    a.AuthorID,
		CategoryID:  a.CategoryID,
		PublishedAt: a.PublishedAt,
	}
}
