package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/service"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

func (h *ArticleHandler) query(c *gin.Context) (models.ArticleQuery, bool) {
	start, ok := timeQuery(c, "startDate")
	if !ok {
		badRequest(c, h.log, "startDate must be a date")
		return models.ArticleQuery{}, false
	}
	end, ok := timeQuery(c, "endDate")
	if !ok {
		badRequest(c, h.log, "endDate must be a date")
		return models.ArticleQuery{}, false
	}
	return models.ArticleQuery{
		Status:     c.Query("status"),
		CategoryID: c.Query("category"),
		AuthorID:   c.Query("author"),
		Tag:        c.Query("tag"),
		Search:     c.Query("search"),
		IsFeatured: boolQuery(c, "isFeatured"),
		IsBreaking: boolQuery(c, "isBreaking"),
		IsTrending: boolQuery(c, "isTrending"),
		StartDate:  start,
		EndDate:    end,
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
		Sort:       c.Query("sort"),
	}, true
}

// List handles GET /v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	h.list(c, policy.ListingPublic)
}

// Manage handles GET /v1/articles/manage
func (h *ArticleHandler) Manage(c *gin.Context) {
	h.list(c, policy.ListingCMS)
}

func (h *ArticleHandler) list(c *gin.Context, listing policy.Listing) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	res, err := h.services.Article.List(c.Request.Context(), principalOf(c), q, listing)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, res.Items, res.Pagination)
}

// Get handles GET /v1/articles/:identifier. Anonymous reads count a view.
func (h *ArticleHandler) Get(c *gin.Context) {
	p := principalOf(c)
	article, err := h.services.Article.Get(c.Request.Context(), p, c.Param("identifier"), p == nil)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", article)
}

func (h *ArticleHandler) Featured(c *gin.Context) {
	items, err := h.services.Article.Featured(c.Request.Context(), c.Query("limit"))
	h.respondList(c, items, err)
}

func (h *ArticleHandler) Breaking(c *gin.Context) {
	items, err := h.services.Article.Breaking(c.Request.Context())
	h.respondList(c, items, err)
}

func (h *ArticleHandler) Trending(c *gin.Context) {
	items, err := h.services.Article.Trending(c.Request.Context(), c.Query("limit"))
	h.respondList(c, items, err)
}

func (h *ArticleHandler) Latest(c *gin.Context) {
	items, err := h.services.Article.Latest(c.Request.Context(), c.Query("limit"))
	h.respondList(c, items, err)
}

func (h *ArticleHandler) Related(c *gin.Context) {
	items, err := h.services.Article.Related(c.Request.Context(), principalOf(c), c.Param("identifier"), c.Query("limit"))
	h.respondList(c, items, err)
}

func (h *ArticleHandler) respondList(c *gin.Context, items []*models.Article, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", items)
}

// Search handles GET /v1/articles/search?q=
func (h *ArticleHandler) Search(c *gin.Context) {
	res, err := h.services.Article.Search(c.Request.Context(), c.Query("q"), c.Query("page"), c.Query("limit"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, res.Items, res.Pagination)
}

func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.services.Article.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var in models.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	article, err := h.services.Article.Create(c.Request.Context(), principalOf(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("Article created")
	respond(c, http.StatusCreated, "Article created successfully", article)
}

// Update handles PUT /v1/articles/:identifier
func (h *ArticleHandler) Update(c *gin.Context) {
	var in models.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.log, "invalid request body")
		return
	}
	article, err := h.services.Article.Update(c.Request.Context(), principalOf(c), c.Param("identifier"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Article updated successfully", article)
}

// Delete handles DELETE /v1/articles/:identifier
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), principalOf(c), c.Param("identifier")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Article deleted successfully", nil)
}

func (h *ArticleHandler) Like(c *gin.Context) {
	article, err := h.services.Article.Like(c.Request.Context(), c.Param("identifier"))
	h.respondCounters(c, article, err)
}

func (h *ArticleHandler) Share(c *gin.Context) {
	article, err := h.services.Article.Share(c.Request.Context(), c.Param("identifier"))
	h.respondCounters(c, article, err)
}

func (h *ArticleHandler) respondCounters(c *gin.Context, article *models.Article, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"likes":  article.Likes,
		"shares": article.Shares,
	})
}
