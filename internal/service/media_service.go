package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/news-portal-api/internal/analytics"
	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/repository"
	"github.com/news-portal-api/internal/storage"
)

const defaultMediaFolder = "general"

var mediaSorts = map[string]bool{"createdAt": true, "size": true, "filename": true}

var mediaTypes = map[models.MediaType]bool{
	models.MediaImage:    true,
	models.MediaVideo:    true,
	models.MediaDocument: true,
}

// mediaService implements MediaService
type mediaService struct {
	deps
	store storage.ObjectStore
	log   zerolog.Logger
}

func newMediaService(d deps, store storage.ObjectStore, log zerolog.Logger) *mediaService {
	if store == nil {
		store = storage.Noop{}
	}
	return &mediaService{
		deps:  d,
		store: store,
		log:   log.With().Str("service", "media").Logger(),
	}
}

func (s *mediaService) List(ctx context.Context, p *policy.Principal, q models.MediaQuery) (*ListResult[*models.Media], error) {
	uploader, ok := policy.ScopeMedia(p, q.UploadedBy)
	if !ok {
		return nil, apperr.Unauthenticated("authentication required")
	}
	if q.Type != "" && !mediaTypes[models.MediaType(q.Type)] {
		return nil, invalid("type", "invalid media type")
	}

	params := s.page(q.Page, q.Limit)
	filter := repository.MediaFilter{
		Type:       models.MediaType(q.Type),
		Folder:     q.Folder,
		UploaderID: uploader,
		Search:     strings.TrimSpace(q.Search),
	}
	items, total, err := s.repos.Media.List(ctx, filter, repository.ListOptions{
		Sort:   pagination.ParseSort(q.Sort, "-createdAt", mediaSorts),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, translate(err, "media")
	}
	return &ListResult[*models.Media]{Items: items, Pagination: params.NewPage(total)}, nil
}

func (s *mediaService) find(ctx context.Context, id string) (*models.Media, error) {
	if err := s.validator.ValidateID("id", id); err != nil {
		return nil, translate(err, "media")
	}
	media, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "media")
	}
	if media == nil {
		return nil, apperr.NotFound("media not found")
	}
	return media, nil
}

func (s *mediaService) Get(ctx context.Context, p *policy.Principal, id string) (*models.Media, error) {
	media, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !media.IsPublic && !p.IsAdmin() && !p.Owns(media.UploaderID) {
		return nil, apperr.Forbidden("you do not have access to this media")
	}
	return media, nil
}

func (s *mediaService) authorizeUpload(p *policy.Principal) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !policy.Can(p, policy.UploadMedia) {
		return apperr.Forbidden("you do not have permission to upload media")
	}
	return nil
}

func (s *mediaService) Upload(ctx context.Context, p *policy.Principal, file Upload, meta models.MediaInput) (*models.Media, error) {
	if err := s.authorizeUpload(p); err != nil {
		return nil, err
	}
	if file.Size <= 0 {
		return nil, invalid("file", "file is empty")
	}
	if limit := s.cfg.Storage.MaxUploadSize; limit > 0 && file.Size > limit {
		return nil, invalid("file", "file exceeds the maximum upload size")
	}

	folder := strings.TrimSpace(meta.Folder)
	if folder == "" {
		folder = defaultMediaFolder
	}
	filename := uuid.New().String() + strings.ToLower(filepath.Ext(file.OriginalName))
	key := folder + "/" + filename

	url, err := s.store.Put(ctx, key, file.Reader, file.Size, file.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return nil, apperr.Upstream("media storage is not configured", err)
		}
		return nil, apperr.Upstream("failed to store media", err)
	}

	meta.URL = url
	meta.Filename = filename
	meta.OriginalName = file.OriginalName
	meta.ObjectKey = key
	meta.MimeType = file.ContentType
	meta.Size = file.Size
	meta.Folder = folder

	media, err := s.register(ctx, p, &meta)
	if err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("key", key).Msg("Failed to remove orphaned media object")
		}
		return nil, err
	}
	return media, nil
}

func (s *mediaService) Register(ctx context.Context, p *policy.Principal, in *models.MediaInput) (*models.Media, error) {
	if err := s.authorizeUpload(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.URL) == "" {
		return nil, invalid("url", "url is required")
	}
	return s.register(ctx, p, in)
}

func (s *mediaService) register(ctx context.Context, p *policy.Principal, in *models.MediaInput) (*models.Media, error) {
	if in.Folder == "" {
		in.Folder = defaultMediaFolder
	}
	if in.Type == "" {
		in.Type = models.MediaTypeFromMIME(in.MimeType)
	}
	if err := s.validator.ValidateMedia(in); err != nil {
		return nil, translate(err, "media")
	}

	now := s.now()
	media := &models.Media{
		ID:           uuid.New().String(),
		Filename:     in.Filename,
		OriginalName: in.OriginalName,
		URL:          strings.TrimSpace(in.URL),
		ObjectKey:    in.ObjectKey,
		MimeType:     in.MimeType,
		Type:         in.Type,
		Size:         in.Size,
		Width:        in.Width,
		Height:       in.Height,
		Duration:     in.Duration,
		UploaderID:   p.ID,
		Folder:       in.Folder,
		Tags:         normalizeTags(in.Tags),
		IsPublic:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if media.OriginalName == "" {
		media.OriginalName = media.Filename
	}
	if in.Alt != nil {
		media.Alt = in.Alt.Trimmed()
	}
	if in.Caption != nil {
		media.Caption = in.Caption.Trimmed()
	}
	if in.IsPublic != nil {
		media.IsPublic = *in.IsPublic
	}

	if err := s.repos.Media.Create(ctx, media); err != nil {
		return nil, translate(err, "media")
	}

	s.log.Info().Str("media_id", media.ID).Str("uploader_id", p.ID).Int64("size", media.Size).Msg("Media registered")
	return media, nil
}

func (s *mediaService) Update(ctx context.Context, p *policy.Principal, id string, in *models.MediaUpdate) (*models.Media, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	media, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(p, policy.Resource{Kind: policy.ResourceMedia, OwnerID: media.UploaderID}, policy.ActionUpdate) {
		return nil, apperr.Forbidden("you do not have permission to update this media")
	}
	if err := s.validator.ValidateMediaUpdate(in); err != nil {
		return nil, translate(err, "media")
	}

	if in.Alt != nil {
		media.Alt = in.Alt.Trimmed()
	}
	if in.Caption != nil {
		media.Caption = in.Caption.Trimmed()
	}
	if in.Tags != nil {
		media.Tags = normalizeTags(in.Tags)
	}
	if in.Folder != nil {
		media.Folder = strings.TrimSpace(*in.Folder)
	}
	if in.IsPublic != nil {
		media.IsPublic = *in.IsPublic
	}
	media.UpdatedAt = s.now()

	if err := s.repos.Media.Update(ctx, media); err != nil {
		return nil, translate(err, "media")
	}
	return media, nil
}

func (s *mediaService) Delete(ctx context.Context, p *policy.Principal, id string) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	media, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	res := policy.Resource{Kind: policy.ResourceMedia, OwnerID: media.UploaderID}
	if !policy.Can(p, policy.DeleteMedia) || !policy.CanMutate(p, res, policy.ActionDelete) {
		return apperr.Forbidden("you do not have permission to delete this media")
	}

	if media.ObjectKey != "" {
		if err := s.store.Remove(ctx, media.ObjectKey); err != nil {
			s.log.Warn().Err(err).Str("media_id", media.ID).Str("key", media.ObjectKey).Msg("Failed to remove media object")
		}
	}
	if err := s.repos.Media.Delete(ctx, media.ID); err != nil {
		return translate(err, "media")
	}

	s.log.Info().Str("media_id", media.ID).Str("user_id", p.ID).Msg("Media deleted")
	return nil
}

func (s *mediaService) Stats(ctx context.Context) (*models.MediaStats, error) {
	var (
		byType map[models.MediaType]int
		size   int64
		recent []*models.Media
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byType, err = s.repos.Media.CountByType(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		size, err = s.repos.Media.TotalSize(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, _, err = s.repos.Media.List(gctx, repository.MediaFilter{}, repository.ListOptions{
			Sort:  []pagination.SortField{{Field: "createdAt", Desc: true}},
			Limit: analytics.RecentUploadsLimit,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "media stats")
	}

	stats := &models.MediaStats{
		ImageCount:    byType[models.MediaImage],
		VideoCount:    byType[models.MediaVideo],
		DocumentCount: byType[models.MediaDocument],
		TotalSize:     size,
		RecentUploads: recent,
	}
	for _, n := range byType {
		stats.TotalMedia += n
	}
	return stats, nil
}
