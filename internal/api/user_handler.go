package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/service"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	res, err := h.services.User.List(c.Request.Context(), models.UserQuery{
		Role:     c.Query("role"),
		IsActive: boolQuery(c, "isActive"),
		Search:   c.Query("search"),
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

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.services.User.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.services.User.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// Create handles POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var in models.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	user, err := h.services.User.Create(c.Request.Context(), principalOf(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User created")
	respond(c, http.StatusCreated, "User created successfully", user)
}

// Update handles PUT /v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var in models.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	user, err := h.services.User.Update(c.Request.Context(), principalOf(c), c.Param("id"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "User updated successfully", user)
}

// Deactivate handles DELETE /v1/users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.services.User.Deactivate(c.Request.Context(), principalOf(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "User deactivated successfully", nil)
}

// DeletePermanently handles DELETE /v1/users/:id/permanent
func (h *UserHandler) DeletePermanently(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.User.DeletePermanently(c.Request.Context(), principalOf(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Warn().Str("user_id", id).Msg("User permanently deleted")
	respond(c, http.StatusOK, "User permanently deleted", nil)
}
