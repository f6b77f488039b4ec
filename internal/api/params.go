package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// boolQuery parses an optional boolean query parameter. Malformed values
// count as absent.
func boolQuery(c *gin.Context, name string) *bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// timeQuery parses an optional RFC 3339 or YYYY-MM-DD query parameter.
func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func boolForm(c *gin.Context, name string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(c.PostForm(name)))
	if err != nil {
		return nil
	}
	return &b
}
