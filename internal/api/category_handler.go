package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/service"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		services: services,
		log:      log.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.services.Category.List(c.Request.Context(), service.CategoryQuery{
		IsActive:   boolQuery(c, "isActive"),
		ShowInMenu: boolQuery(c, "showInMenu"),
		Parent:     c.Query("parent"),
		Search:     c.Query("search"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", items)
}

func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.services.Category.Tree(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", tree)
}

func (h *CategoryHandler) Menu(c *gin.Context) {
	menu, err := h.services.Category.Menu(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", menu)
}

// Get handles GET /v1/categories/:identifier
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.services.Category.Get(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", category)
}

// Articles handles GET /v1/categories/:identifier/articles
func (h *CategoryHandler) Articles(c *gin.Context) {
	res, page, err := h.services.Category.Articles(c.Request.Context(), c.Param("identifier"), c.Query("page"), c.Query("limit"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, res, *page)
}

// Create handles POST /v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	category, err := h.services.Category.Create(c.Request.Context(), principalOf(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "Category created successfully", category)
}

// Update handles PUT /v1/categories/:identifier
func (h *CategoryHandler) Update(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	category, err := h.services.Category.Update(c.Request.Context(), principalOf(c), c.Param("identifier"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Category updated successfully", category)
}

// Delete handles DELETE /v1/categories/:identifier
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.services.Category.Delete(c.Request.Context(), principalOf(c), c.Param("identifier")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Category deleted successfully", nil)
}
