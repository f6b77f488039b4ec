package service

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/metrics"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/repository"
)

const adStatsTopLimit = 10

var adSorts = map[string]bool{
	"priority": true, "createdAt": true, "startDate": true, "endDate": true,
	"impressions": true, "clicks": true, "name": true,
}

// advertisementService implements AdvertisementService
type advertisementService struct {
	deps
	log zerolog.Logger
}

func newAdvertisementService(d deps, log zerolog.Logger) *advertisementService {
	return &advertisementService{
		deps: d,
		log:  log.With().Str("service", "advertisement").Logger(),
	}
}

func (s *advertisementService) List(ctx context.Context, q AdvertisementQuery) (*ListResult[*models.Advertisement], error) {
	params := s.page(q.Page, q.Limit)
	filter := repository.AdvertisementFilter{
		IsActive: q.IsActive,
		Type:     q.Type,
		Position: q.Position,
	}

	items, total, err := s.repos.Advertisement.List(ctx, filter, repository.ListOptions{
		Sort:   pagination.ParseSort(q.Sort, "-priority,-createdAt", adSorts),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, translate(err, "advertisements")
	}
	return &ListResult[*models.Advertisement]{Items: items, Pagination: params.NewPage(total)}, nil
}

func (s *advertisementService) Active(ctx context.Context, adType, position, page string) ([]*models.Advertisement, error) {
	now := s.now()
	filter := repository.AdvertisementFilter{
		IsActive: boolPtr(true),
		ActiveAt: &now,
		Type:     strings.TrimSpace(adType),
		Position: strings.TrimSpace(position),
		Page:     strings.TrimSpace(page),
	}

	ads, _, err := s.repos.Advertisement.List(ctx, filter, repository.ListOptions{
		Sort: []pagination.SortField{{Field: "priority", Desc: true}, {Field: "createdAt", Desc: true}},
	})
	if err != nil {
		return nil, translate(err, "advertisements")
	}
	return ads, nil
}

func (s *advertisementService) find(ctx context.Context, id string) (*models.Advertisement, error) {
	if err := s.validator.ValidateID("id", id); err != nil {
		return nil, translate(err, "advertisement")
	}
	ad, err := s.repos.Advertisement.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "advertisement")
	}
	if ad == nil {
		return nil, apperr.NotFound("advertisement not found")
	}
	return ad, nil
}

func (s *advertisementService) Get(ctx context.Context, id string) (*models.Advertisement, error) {
	return s.find(ctx, id)
}

func (s *advertisementService) authorize(p *policy.Principal) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !policy.Can(p, policy.ManageAds) {
		return apperr.Forbidden("you do not have permission to manage advertisements")
	}
	return nil
}

func (s *advertisementService) Create(ctx context.Context, p *policy.Principal, in *models.AdvertisementInput) (*models.Advertisement, error) {
	if err := s.authorize(p); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAdvertisement(in, true); err != nil {
		return nil, translate(err, "advertisement")
	}

	now := s.now()
	ad := &models.Advertisement{
		ID:           uuid.New().String(),
		IsActive:     true,
		OpenInNewTab: true,
		DisplayPages: []string{"all"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyAdInput(ad, in)

	if err := s.repos.Advertisement.Create(ctx, ad); err != nil {
		return nil, translate(err, "advertisement")
	}

	s.log.Info().Str("ad_id", ad.ID).Str("position", ad.Position).Msg("Advertisement created")
	return ad, nil
}

func applyAdInput(ad *models.Advertisement, in *models.AdvertisementInput) {
	if in.Name != nil {
		ad.Name = strings.TrimSpace(*in.Name)
	}
	if in.Title != nil {
		ad.Title = in.Title.Trimmed()
	}
	if in.Description != nil {
		ad.Description = in.Description.Trimmed()
	}
	if in.Type != nil {
		ad.Type = *in.Type
	}
	if in.Position != nil {
		ad.Position = *in.Position
	}
	if in.ImageURL != nil {
		ad.ImageURL = *in.ImageURL
	}
	if in.LinkURL != nil {
		ad.LinkURL = *in.LinkURL
	}
	if in.OpenInNewTab != nil {
		ad.OpenInNewTab = *in.OpenInNewTab
	}
	if in.StartDate != nil {
		ad.StartDate = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		ad.EndDate = in.EndDate.UTC()
	}
	if in.IsActive != nil {
		ad.IsActive = *in.IsActive
	}
	if in.Priority != nil {
		ad.Priority = *in.Priority
	}
	if len(in.DisplayPages) > 0 {
		ad.DisplayPages = append([]string(nil), in.DisplayPages...)
	}
}

func (s *advertisementService) Update(ctx context.Context, p *policy.Principal, id string, in *models.AdvertisementInput) (*models.Advertisement, error) {
	if err := s.authorize(p); err != nil {
		return nil, err
	}
	ad, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAdvertisement(in, false); err != nil {
		return nil, translate(err, "advertisement")
	}

	applyAdInput(ad, in)
	if err := s.validator.ValidateAdSchedule(ad.StartDate, ad.EndDate); err != nil {
		return nil, translate(err, "advertisement")
	}
	ad.UpdatedAt = s.now()

	if err := s.repos.Advertisement.Update(ctx, ad); err != nil {
		return nil, translate(err, "advertisement")
	}

	s.log.Info().Str("ad_id", ad.ID).Msg("Advertisement updated")
	return ad, nil
}

func (s *advertisementService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	if err := s.authorize(p); err != nil {
		return err
	}
	if err := s.validator.ValidateID("id", id); err != nil {
		return translate(err, "advertisement")
	}
	if err := s.repos.Advertisement.Delete(ctx, id); err != nil {
		return translate(err, "advertisement")
	}

	s.log.Info().Str("ad_id", id).Msg("Advertisement deleted")
	return nil
}

func (s *advertisementService) TrackImpression(ctx context.Context, id string) error {
	return s.track(ctx, id, models.CounterImpressions)
}

func (s *advertisementService) TrackClick(ctx context.Context, id string) error {
	return s.track(ctx, id, models.CounterClicks)
}

func (s *advertisementService) track(ctx context.Context, id string, counter models.AdCounter) error {
	if err := s.validator.ValidateID("id", id); err != nil {
		return translate(err, "advertisement")
	}
	ad, err := s.repos.Advertisement.Increment(ctx, id, counter, 1)
	if err != nil {
		return translate(err, "advertisement")
	}
	if ad == nil {
		return apperr.NotFound("advertisement not found")
	}
	metrics.ObserveAdEvent(string(counter))
	return nil
}

func (s *advertisementService) Stats(ctx context.Context) (*models.AdvertisementStats, error) {
	ads, _, err := s.repos.Advertisement.List(ctx, repository.AdvertisementFilter{}, repository.ListOptions{
		Sort: []pagination.SortField{{Field: "clicks", Desc: true}, {Field: "impressions", Desc: true}},
	})
	if err != nil {
		return nil, translate(err, "advertisement stats")
	}

	now := s.now()
	stats := &models.AdvertisementStats{TotalAds: len(ads)}
	for _, ad := range ads {
		if ad.CurrentlyActive(now) {
			stats.ActiveAds++
		}
		stats.TotalImpressions += ad.Impressions
		stats.TotalClicks += ad.Clicks
	}
	if stats.TotalImpressions > 0 {
		pct := float64(stats.TotalClicks) / float64(stats.TotalImpressions) * 100
		stats.AverageCTR = math.Round(pct*100) / 100
	}

	top := ads
	if len(top) > adStatsTopLimit {
		top = top[:adStatsTopLimit]
	}
	stats.TopPerforming = top
	return stats, nil
}
