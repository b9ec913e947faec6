package http

import (
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware builds the CORS middleware from a comma-separated origin list. It
// returns nil when CORS is disabled or no usable origin remains.
//
// "*" allows every origin but then disables credentials, since browsers reject credentialed
// wildcard responses. Entries that are not http(s) origins are dropped with a warning.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr, logger)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured - CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Case-Session"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		logger.Warn("CORS allows every origin; credentials are disabled")
		config.AllowAllOrigins = true
	} else {
		logger.Info("CORS enabled", slog.Any("origins", origins))
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}

	return cors.New(config)
}

// parseOrigins splits the list, trims entries and keeps "*" and scheme://host[:port] origins.
func parseOrigins(originsStr string, logger *slog.Logger) []string {
	origins := make([]string, 0)
	for part := range strings.SplitSeq(originsStr, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin == "" {
			continue
		}
		if origin != "*" && !isOrigin(origin) {
			logger.Warn("ignoring invalid CORS origin", slog.String("origin", origin))
			continue
		}
		if !slices.Contains(origins, origin) {
			origins = append(origins, origin)
		}
	}
	return origins
}

func isOrigin(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path == "" && u.RawQuery == ""
}
