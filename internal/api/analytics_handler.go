package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/service"
)

// AnalyticsHandler handles analytics and dashboard endpoints. Every route is admin only.
type AnalyticsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(services *service.Services, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		services: services,
		log:      log.With().Str("handler", "analytics").Logger(),
	}
}

// reply writes data, or err when the report failed.
func (h *AnalyticsHandler) reply(c *gin.Context, data interface{}, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", data)
}

func (h *AnalyticsHandler) Realtime(c *gin.Context) {
	snap, err := h.services.Analytics.Realtime(c.Request.Context())
	h.reply(c, snap, err)
}

// Traffic handles GET /v1/analytics/traffic?window=&interval=
func (h *AnalyticsHandler) Traffic(c *gin.Context) {
	report, err := h.services.Analytics.Traffic(c.Request.Context(), c.Query("window"), c.Query("interval"))
	h.reply(c, report, err)
}

func (h *AnalyticsHandler) Content(c *gin.Context) {
	items, err := h.services.Analytics.Content(c.Request.Context(), c.Query("limit"), c.Query("sort"), c.Query("order"))
	h.reply(c, items, err)
}

func (h *AnalyticsHandler) AdSummary(c *gin.Context) {
	summary, err := h.services.Analytics.AdSummary(c.Request.Context(), c.Query("window"))
	h.reply(c, summary, err)
}

func (h *AnalyticsHandler) TopAds(c *gin.Context) {
	ads, err := h.services.Analytics.TopAds(c.Request.Context(), c.Query("limit"), c.Query("sort"), c.Query("order"))
	h.reply(c, ads, err)
}

func (h *AnalyticsHandler) MediaSummary(c *gin.Context) {
	summary, err := h.services.Analytics.MediaSummary(c.Request.Context())
	h.reply(c, summary, err)
}

func (h *AnalyticsHandler) Auth(c *gin.Context) {
	stats, err := h.services.Analytics.AuthStats(c.Request.Context(), c.Query("window"))
	h.reply(c, stats, err)
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.services.Dashboard.Overview(c.Request.Context())
	h.reply(c, overview, err)
}

// ArticleStats handles GET /v1/dashboard/articles/stats?startDate=&endDate=
func (h *AnalyticsHandler) ArticleStats(c *gin.Context) {
	start, ok := timeQuery(c, "startDate")
	if !ok {
		badRequest(c, h.log, "startDate must be a date")
		return
	}
	end, ok := timeQuery(c, "endDate")
	if !ok {
		badRequest(c, h.log, "endDate must be a date")
		return
	}
	stats, err := h.services.Dashboard.ArticleStats(c.Request.Context(), start, end)
	h.reply(c, stats, err)
}

func (h *AnalyticsHandler) TopArticles(c *gin.Context) {
	top, err := h.services.Dashboard.TopArticles(c.Request.Context(), c.Query("limit"), c.Query("days"))
	h.reply(c, top, err)
}

func (h *AnalyticsHandler) CategoryDistribution(c *gin.Context) {
	dist, err := h.services.Dashboard.CategoryDistribution(c.Request.Context())
	h.reply(c, dist, err)
}

func (h *AnalyticsHandler) UserActivity(c *gin.Context) {
	rows, err := h.services.Dashboard.UserActivity(c.Request.Context(), c.Query("limit"))
	h.reply(c, rows, err)
}

func (h *AnalyticsHandler) TrafficTrends(c *gin.Context) {
	trends, err := h.services.Dashboard.TrafficTrends(c.Request.Context(), c.Query("days"))
	h.reply(c, trends, err)
}
