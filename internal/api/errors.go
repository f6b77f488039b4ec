package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/validation"
)

// statusOf maps an error kind to its HTTP status.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// respondError writes err as a failure envelope. Upstream causes are logged
// and never shown to the client.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	body := gin.H{
		"success": false,
		"status":  string(kind),
		"message": apperr.MessageOf(err),
	}

	var verrs validation.Errors
	if kind == apperr.KindInvalidInput && errors.As(err, &verrs) {
		body["errors"] = verrs
	}

	if kind == apperr.KindUpstream {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, body)
}

// badRequest reports a malformed request body or parameter.
func badRequest(c *gin.Context, log zerolog.Logger, message string) {
	respondError(c, log, apperr.InvalidInput(message))
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func respondPage(c *gin.Context, data interface{}, page pagination.Page) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": page,
	})
}
