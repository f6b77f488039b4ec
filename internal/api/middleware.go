package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/metrics"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/ratelimit"
	"github.com/news-portal-api/internal/service"
)

const principalKey = "principal"

// RateLimiter counts a request against a client key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"status":  "error",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", clientIP(c)).
			Msg("Request completed")
	}
}

// metricsMiddleware records request counts and latency per route template.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// corsMiddleware handles CORS
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if origin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// clientIP prefers the proxy-supplied client address over the socket peer.
func clientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// rateLimitMiddleware rejects clients over quota. A limiter failure rejects too.
func rateLimitMiddleware(limiter RateLimiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), clientIP(c))
		if err != nil {
			log.Error().Err(err).Msg("Rate limiter unavailable")
		} else {
			h := c.Writer.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		}
		if err != nil || !res.Allowed {
			metrics.RateLimitedTotal.Inc()
			respondError(c, log, apperr.New(apperr.KindRateLimited, "too many requests from this IP, please try again later"))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// authenticate resolves the bearer token into a principal. With optional set,
// a missing or bad token lets the request through anonymously.
func authenticate(auth service.AuthService, log zerolog.Logger, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if optional {
				c.Next()
				return
			}
			respondError(c, log, apperr.Unauthenticated("you are not logged in"))
			return
		}

		p, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if optional && apperr.Is(err, apperr.KindUnauthenticated) {
				c.Next()
				return
			}
			respondError(c, log, err)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// requireRole admits principals that pass allowed.
func requireRole(log zerolog.Logger, allowed func(*policy.Principal) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(principalOf(c)) {
			respondError(c, log, apperr.Forbidden("you do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

func requireAdmin(log zerolog.Logger) gin.HandlerFunc {
	return requireRole(log, func(p *policy.Principal) bool { return p.IsAdmin() })
}

func requireSuperAdmin(log zerolog.Logger) gin.HandlerFunc {
	return requireRole(log, func(p *policy.Principal) bool { return p.IsSuperAdmin() })
}

func requirePermission(log zerolog.Logger, capability policy.Capability) gin.HandlerFunc {
	return requireRole(log, func(p *policy.Principal) bool { return policy.Can(p, capability) })
}

// principalOf returns the authenticated caller, or nil for anonymous requests.
func principalOf(c *gin.Context) *policy.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*policy.Principal)
	return p
}
