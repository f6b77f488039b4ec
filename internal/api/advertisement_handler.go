package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/service"
)

// AdvertisementHandler handles advertisement endpoints
type AdvertisementHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdvertisementHandler creates a new AdvertisementHandler
func NewAdvertisementHandler(services *service.Services, log zerolog.Logger) *AdvertisementHandler {
	return &AdvertisementHandler{
		services: services,
		log:      log.With().Str("handler", "advertisement").Logger(),
	}
}

// Active handles GET /v1/advertisements/active
func (h *AdvertisementHandler) Active(c *gin.Context) {
	ads, err := h.services.Advertisement.Active(c.Request.Context(), c.Query("type"), c.Query("position"), c.Query("page"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", ads)
}

// List handles GET /v1/advertisements
func (h *AdvertisementHandler) List(c *gin.Context) {
	res, err := h.services.Advertisement.List(c.Request.Context(), service.AdvertisementQuery{
		Type:     c.Query("type"),
		Position: c.Query("position"),
		IsActive: boolQuery(c, "isActive"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, res.Items, res.Pagination)
}

func (h *AdvertisementHandler) Get(c *gin.Context) {
	ad, err := h.services.Advertisement.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", ad)
}

func (h *AdvertisementHandler) Stats(c *gin.Context) {
	stats, err := h.services.Advertisement.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// Create handles POST /v1/advertisements
func (h *AdvertisementHandler) Create(c *gin.Context) {
	var in models.AdvertisementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	ad, err := h.services.Advertisement.Create(c.Request.Context(), principalOf(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Advertisement created successfully", ad)
}

// Update handles PUT /v1/advertisements/:id
func (h *AdvertisementHandler) Update(c *gin.Context) {
	var in models.AdvertisementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	ad, err := h.services.Advertisement.Update(c.Request.Context(), principalOf(c), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Advertisement updated successfully", ad)
}

// Delete handles DELETE /v1/advertisements/:id
func (h *AdvertisementHandler) Delete(c *gin.Context) {
	if err := h.services.Advertisement.Delete(c.Request.Context(), principalOf(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Advertisement deleted successfully", nil)
}

// Impression handles POST /v1/advertisements/:id/impression
func (h *AdvertisementHandler) Impression(c *gin.Context) {
	if err := h.services.Advertisement.TrackImpression(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Impression tracked", nil)
}

// Click handles POST /v1/advertisements/:id/click
func (h *AdvertisementHandler) Click(c *gin.Context) {
	if err := h.services.Advertisement.TrackClick(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Click tracked", nil)
}
