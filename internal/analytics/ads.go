package analytics

import (
	"sort"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
)

const (
	DefaultTopAdsLimit = 10
	MaxTopAdsLimit     = 50
)

var adSorts = map[string]bool{"ctr": true, "impressions": true, "clicks": true}

// AdTotals are summed ad counters with their CTR.
type AdTotals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// PositionTotals are AdTotals for one ad position.
type PositionTotals struct {
	Position string `json:"position"`
	AdTotals
}

// AdPerformance is the ad performance summary.
type AdPerformance struct {
	Totals     AdTotals         `json:"totals"`
	ByPosition []PositionTotals `json:"byPosition"`
}

// AdSummary sums impressions and clicks overall and per position. Callers
// pass the ads that are enabled and whose schedule overlaps the window.
// Positions appear in the order they are first seen.
func AdSummary(ads []*models.Advertisement) AdPerformance {
	out := AdPerformance{ByPosition: []PositionTotals{}}
	index := make(map[string]int)

	for _, ad := range ads {
		out.Totals.Impressions += ad.Impressions
		out.Totals.Clicks += ad.Clicks

		i, ok := index[ad.Position]
		if !ok {
			i = len(out.ByPosition)
			index[ad.Position] = i
			out.ByPosition = append(out.ByPosition, PositionTotals{Position: ad.Position})
		}
		out.ByPosition[i].Impressions += ad.Impressions
		out.ByPosition[i].Clicks += ad.Clicks
	}

	out.Totals.CTR = CTR(out.Totals.Clicks, out.Totals.Impressions)
	for i := range out.ByPosition {
		p := &out.ByPosition[i]
		p.CTR = CTR(p.Clicks, p.Impressions)
	}
	return out
}

// NormalizeTopAdsQuery bounds a top-ads request: sort is one of ctr,
// impressions or clicks (default ctr), order is desc unless "asc", limit is
// clamped to [1, 50] (default 10).
func NormalizeTopAdsQuery(limit, sort, order string) RankQuery {
	if !adSorts[sort] {
		sort = "ctr"
	}
	return RankQuery{
		Sort:  sort,
		Desc:  order != "asc",
		Limit: pagination.ClampLimit(atoi(limit), DefaultTopAdsLimit, MaxTopAdsLimit),
	}
}

// TopAd is one row of the top ads report.
type TopAd struct {
	AdID        string  `json:"adId"`
	Title       string  `json:"title"`
	Position    string  `json:"position"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// TopAds projects ads into report rows. When q sorts by ctr the rows are
// ranked here, since CTR is not stored; ties keep retrieval order. Other
// sorts are expected to arrive already ordered. The result holds at most
// q.Limit rows.
func TopAds(ads []*models.Advertisement, q RankQuery) []TopAd {
	rows := make([]TopAd, 0, len(ads))
	for _, ad := range ads {
		rows = append(rows, TopAd{
			AdID:        ad.ID,
			Title:       ad.Title.En,
			Position:    ad.Position,
			Impressions: ad.Impressions,
			Clicks:      ad.Clicks,
			CTR:         CTR(ad.Clicks, ad.Impressions),
		})
	}

	if q.Sort == "ctr" {
		sort.SliceStable(rows, func(i, j int) bool {
			if q.Desc {
				return rows[i].CTR > rows[j].CTR
			}
			return rows[i].CTR < rows[j].CTR
		})
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows
}
