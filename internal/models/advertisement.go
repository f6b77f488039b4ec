package models

import "time"

// ValidAdTypes defines allowed advertisement types
var ValidAdTypes = []interface{}{"banner", "sidebar", "in-content", "popup"}

// ValidAdPositions defines allowed advertisement positions
var ValidAdPositions = []interface{}{"top", "middle", "bottom", "sidebar-top", "sidebar-middle", "sidebar-bottom"}

// ValidDisplayPages defines the pages an advertisement may be shown on
var ValidDisplayPages = []interface{}{"home", "article", "category", "all"}

// Advertisement is a scheduled ad placement with tracking counters.
type Advertisement struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Title        Localized `json:"title"`
	Description  Localized `json:"description"`
	Type         string    `json:"type"`
	Position     string    `json:"position"`
	ImageURL     string    `json:"imageUrl"`
	LinkURL      string    `json:"linkUrl"`
	OpenInNewTab bool      `json:"openInNewTab"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `json:"isActive"`
	Priority     int       `json:"priority"`
	DisplayPages []string  `json:"displayPages"`
	Impressions  int64     `json:"impressions"`
	Clicks       int64     `json:"clicks"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CurrentlyActive reports whether the ad is enabled and inside its window at t.
func (a *Advertisement) CurrentlyActive(t time.Time) bool {
	return a.IsActive && !t.Before(a.StartDate) && !t.After(a.EndDate)
}

// AdCounter names a monotonic advertisement counter.
type AdCounter string

const (
	CounterImpressions AdCounter = "impressions"
	CounterClicks      AdCounter = "clicks"
)

// AdvertisementInput is the payload for creating or updating an advertisement.
type AdvertisementInput struct {
	Name         *string    `json:"name"`
	Title        *Localized `json:"title"`
	Description  *Localized `json:"description"`
	Type         *string    `json:"type"`
	Position     *string    `json:"position"`
	ImageURL     *string    `json:"imageUrl"`
	LinkURL      *string    `json:"linkUrl"`
	OpenInNewTab *bool      `json:"openInNewTab"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	IsActive     *bool      `json:"isActive"`
	Priority     *int       `json:"priority"`
	DisplayPages []string   `json:"displayPages"`
}

// AdvertisementStats summarises ad delivery.
type AdvertisementStats struct {
	TotalAds         int              `json:"totalAds"`
	ActiveAds        int              `json:"activeAds"`
	TotalImpressions int64            `json:"totalImpressions"`
	TotalClicks      int64            `json:"totalClicks"`
	AverageCTR       float64          `json:"averageCtr"`
	TopPerforming    []*Advertisement `json:"topPerformingAds"`
}
