package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowedHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	// Browsers need these to read export filenames and report cache state.
	exposedHeaders = "Content-Disposition, X-Cache, X-Request-ID"
	maxAge         = "600"
)

// New returns a CORS middleware for the report UI. An empty list allows any
// origin. Credentials are only allowed when a concrete origin is echoed back.
func New(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[normalize(origin)] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if allowed := allowOrigin(originSet, c.GetHeader("Origin")); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Headers", allowedHeaders)
			h.Set("Access-Control-Allow-Methods", allowedMethods)
			h.Set("Access-Control-Expose-Headers", exposedHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// allowOrigin returns the Allow-Origin value for a request, or "" when the
// origin is refused.
func allowOrigin(originSet map[string]struct{}, origin string) string {
	if origin == "" {
		if len(originSet) == 0 {
			return "*"
		}
		return ""
	}
	if len(originSet) == 0 {
		return origin
	}
	if _, ok := originSet[normalize(origin)]; ok {
		return origin
	}
	return ""
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
