package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/config"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/service"
)

// NewRouter creates and configures the Gin router. A nil limiter disables rate limiting.
func NewRouter(services *service.Services, cfg *config.Config, limiter RateLimiter, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware(cfg.Server.CORSOrigin))

	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	articles := NewArticleHandler(services, log)
	categories := NewCategoryHandler(services, log)
	ads := NewAdvertisementHandler(services, log)
	media := NewMediaHandler(services, cfg, log)
	users := NewUserHandler(services, log)
	authHandler := NewAuthHandler(services, log)
	reports := NewAnalyticsHandler(services, log)

	protect := authenticate(services.Auth, log, false)
	optional := authenticate(services.Auth, log, true)
	admin := requireAdmin(log)

	v1 := router.Group("/v1")
	if limiter != nil {
		v1.Use(rateLimitMiddleware(limiter, log))
	}
	{
		a := v1.Group("/auth")
		{
			a.POST("/login", authHandler.Login)
			a.POST("/refresh-token", authHandler.Refresh)
			a.POST("/logout", protect, authHandler.Logout)
			a.GET("/me", protect, authHandler.Me)
			a.PUT("/change-password", protect, authHandler.ChangePassword)
			a.PUT("/profile", protect, authHandler.UpdateProfile)
		}

		art := v1.Group("/articles")
		{
			art.GET("", optional, articles.List)
			art.GET("/manage", protect, articles.Manage)
			art.GET("/featured", articles.Featured)
			art.GET("/breaking", articles.Breaking)
			art.GET("/trending", articles.Trending)
			art.GET("/latest", articles.Latest)
			art.GET("/search", articles.Search)
			art.GET("/stats", protect, admin, articles.Stats)
			art.GET("/:identifier", optional, articles.Get)
			art.GET("/:identifier/related", optional, articles.Related)
			art.POST("/:identifier/like", articles.Like)
			art.POST("/:identifier/share", articles.Share)
			art.POST("", protect, requirePermission(log, policy.CreateArticle), articles.Create)
			art.PUT("/:identifier", protect, articles.Update)
			art.DELETE("/:identifier", protect, articles.Delete)
		}

		cat := v1.Group("/categories")
		{
			cat.GET("", categories.List)
			cat.GET("/tree", categories.Tree)
			cat.GET("/menu", categories.Menu)
			cat.GET("/:identifier", categories.Get)
			cat.GET("/:identifier/articles", categories.Articles)
			cat.POST("", protect, categories.Create)
			cat.PUT("/:identifier", protect, categories.Update)
			cat.DELETE("/:identifier", protect, categories.Delete)
		}

		ad := v1.Group("/advertisements")
		{
			ad.GET("/active", ads.Active)
			ad.POST("/:id/impression", ads.Impression)
			ad.POST("/:id/click", ads.Click)
			ad.GET("", protect, admin, ads.List)
			ad.GET("/stats", protect, admin, ads.Stats)
			ad.GET("/:id", protect, admin, ads.Get)
			ad.POST("", protect, ads.Create)
			ad.PUT("/:id", protect, ads.Update)
			ad.DELETE("/:id", protect, ads.Delete)
		}

		md := v1.Group("/media", protect)
		{
			md.GET("", media.List)
			md.GET("/stats", admin, media.Stats)
			md.GET("/:id", media.Get)
			md.POST("", media.Create)
			md.PUT("/:id", media.Update)
			md.DELETE("/:id", media.Delete)
		}

		u := v1.Group("/users", protect, admin)
		{
			u.GET("", users.List)
			u.GET("/stats", users.Stats)
			u.GET("/:id", users.Get)
			u.POST("", users.Create)
			u.PUT("/:id", users.Update)
			u.DELETE("/:id", users.Deactivate)
			u.DELETE("/:id/permanent", requireSuperAdmin(log), users.DeletePermanently)
		}

		an := v1.Group("/analytics", protect, admin)
		{
			an.GET("/realtime", reports.Realtime)
			an.GET("/traffic", reports.Traffic)
			an.GET("/content", reports.Content)
			an.GET("/ads/summary", reports.AdSummary)
			an.GET("/ads/top", reports.TopAds)
			an.GET("/media/summary", reports.MediaSummary)
			an.GET("/auth", reports.Auth)
		}

		dash := v1.Group("/dashboard", protect, admin)
		{
			dash.GET("/overview", reports.Overview)
			dash.GET("/articles/stats", reports.ArticleStats)
			dash.GET("/articles/top", reports.TopArticles)
			dash.GET("/categories/distribution", reports.CategoryDistribution)
			dash.GET("/users/activity", reports.UserActivity)
			dash.GET("/traffic/trends", reports.TrafficTrends)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"status":  "not_found",
			"message": "route " + c.Request.URL.Path + " not found",
		})
	})

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "news-portal-api",
	})
}
