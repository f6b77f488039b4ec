package policy

import (
	"time"

	"github.com/news-portal-api/internal/models"
)

// Listing distinguishes the public article listing from the CMS listing.
type Listing int

const (
	ListingPublic Listing = iota
	ListingCMS
)

// ArticleScope is the effective article predicate after policy narrowing.
// Nil fields do not constrain.
type ArticleScope struct {
	Status        *models.ArticleStatus
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	AuthorID      string
	CategoryID    string
	Tag           string
	Search        string
	IsFeatured    *bool
	IsBreaking    *bool
	IsTrending    *bool
}

// ScopeArticles narrows the requested article filters for principal p.
//
// Public listings and unauthenticated callers only see published articles
// whose publishedAt is not in the future; the requested status is ignored and
// the requested end date is capped at now. On the CMS listing admins see
// everything and their status filter is honoured, while editorial users are
// pinned to their own articles in any status.
func ScopeArticles(p *Principal, req models.ArticleQuery, listing Listing, now time.Time) ArticleScope {
	scope := ArticleScope{
		CategoryID: req.CategoryID,
		AuthorID:   req.AuthorID,
		Tag:        req.Tag,
		Search:     req.Search,
		IsFeatured: req.IsFeatured,
		IsBreaking: req.IsBreaking,
		IsTrending: req.IsTrending,
	}

	if p == nil || listing == ListingPublic {
		published := models.ArticleStatusPublished
		scope.Status = &published
		scope.PublishedFrom = req.StartDate
		to := now
		if req.EndDate != nil && req.EndDate.Before(now) {
			to = *req.EndDate
		}
		scope.PublishedTo = &to
		return scope
	}

	if req.Status != "" {
		status := models.ArticleStatus(req.Status)
		scope.Status = &status
	}
	scope.PublishedFrom = req.StartDate
	scope.PublishedTo = req.EndDate

	if !p.IsAdmin() {
		scope.AuthorID = p.ID
	}
	return scope
}

// ScopeMedia returns the uploader ID the media listing must be restricted to.
// Non-admins are always pinned to themselves; admins may filter by
// requestedUploader or pass "" to see everything. ok is false for an
// unauthenticated principal, who may not list media at all.
func ScopeMedia(p *Principal, requestedUploader string) (uploader string, ok bool) {
	if p == nil {
		return "", false
	}
	if p.IsAdmin() {
		return requestedUploader, true
	}
	return p.ID, true
}
