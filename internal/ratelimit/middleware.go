package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
)

// KeyFunc picks the bucket a request is counted against. ok is false when the request
// carries no usable key.
type KeyFunc func(c *gin.Context) (key string, ok bool)

// ClientIPKey counts requests per client address as resolved by gin.
func ClientIPKey(c *gin.Context) (string, bool) {
	return "ip:" + c.ClientIP(), true
}

// ActorKey counts requests per authenticated actor. It must run after AuthenticationMiddleware.
func ActorKey(c *gin.Context) (string, bool) {
	actor, ok := actorHttp.GetActor(c.Request.Context())
	if !ok || actor == nil {
		return "", false
	}
	return "actor:" + actor.ID.String(), true
}

// Middleware rejects requests over the limit with 429 and a Retry-After header. When the
// limiter store fails the request is let through and the failure logged.
func Middleware(limiter Limiter, keyFunc KeyFunc, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := keyFunc(c)
		if !ok {
			logger.Error("rate limit middleware: no key for request")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Error("rate limit check failed", slog.Any("error", err))
			c.Next()
			return
		}
		if decision.Allowed {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
		logger.Debug("rate limit exceeded", slog.String("key", key), slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": "Too many requests. Please retry after the specified delay.",
		})
		c.Abort()
	}
}
