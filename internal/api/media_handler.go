package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/config"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/service"
)

// MediaHandler handles media endpoints
type MediaHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "media").Logger(),
	}
}

// List handles GET /v1/media
func (h *MediaHandler) List(c *gin.Context) {
	res, err := h.services.Media.List(c.Request.Context(), principalOf(c), models.MediaQuery{
		Type:       c.Query("type"),
		Folder:     c.Query("folder"),
		UploadedBy: c.Query("uploadedBy"),
		Search:     c.Query("search"),
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
		Sort:       c.Query("sort"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, res.Items, res.Pagination)
}

func (h *MediaHandler) Get(c *gin.Context) {
	media, err := h.services.Media.Get(c.Request.Context(), principalOf(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", media)
}

func (h *MediaHandler) Stats(c *gin.Context) {
	stats, err := h.services.Media.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// Create handles POST /v1/media
// Accepts a multipart file upload or a JSON body describing an externally hosted object
func (h *MediaHandler) Create(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.upload(c)
		return
	}

	var in models.MediaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "file upload or media url is required")
		return
	}
	media, err := h.services.Media.Register(c.Request.Context(), principalOf(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Media created successfully", media)
}

func (h *MediaHandler) upload(c *gin.Context) {
	if limit := h.cfg.Storage.MaxUploadSize; limit > 0 {
		// leave room for the multipart envelope and metadata fields
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+(1<<20))
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, h.log, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	meta := models.MediaInput{
		Folder:   c.PostForm("folder"),
		IsPublic: boolForm(c, "isPublic"),
	}
	if tags := c.PostForm("tags"); tags != "" {
		meta.Tags = strings.Split(tags, ",")
	}
	if alt := (models.Localized{En: c.PostForm("altEn"), Bn: c.PostForm("altBn")}); !alt.IsZero() {
		meta.Alt = &alt
	}
	if caption := (models.Localized{En: c.PostForm("captionEn"), Bn: c.PostForm("captionBn")}); !caption.IsZero() {
		meta.Caption = &caption
	}

	upload := service.Upload{
		Reader:       file,
		OriginalName: header.Filename,
		Size:         header.Size,
		ContentType:  contentType,
	}
	media, err := h.services.Media.Upload(c.Request.Context(), principalOf(c), upload, meta)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("media_id", media.ID).
		Str("file", header.Filename).
		Int64("size_bytes", header.Size).
		Msg("Media uploaded")
	respond(c, http.StatusCreated, "Media uploaded successfully", media)
}

// Update handles PUT /v1/media/:id
func (h *MediaHandler) Update(c *gin.Context) {
	var in models.MediaUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	media, err := h.services.Media.Update(c.Request.Context(), principalOf(c), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Media updated successfully", media)
}

// Delete handles DELETE /v1/media/:id
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.services.Media.Delete(c.Request.Context(), principalOf(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Media deleted successfully", nil)
}
