package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	actorService "github.com/caseguard/caseguard/internal/actor/service"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
)

// Authorizer decides whether an actor may perform a request.
type Authorizer interface {
	Authorize(ctx context.Context, actorID uuid.UUID, req abacDomain.Request) (abacDomain.Decision, error)
}

// AuthenticationMiddleware provides authentication via Bearer token in the Authorization header.
//
// The plain token is hashed with tokenService.HashToken and resolved through
// tokenUseCase.Authenticate. On success the actor is stored in the request context for
// GetActor.
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Invalid/expired/revoked token → 401 Unauthorized
//   - Inactive actor → 403 Forbidden
//   - Other errors → 500 Internal Server Error
func AuthenticationMiddleware(
	tokenUseCase actorUseCase.TokenUseCase,
	tokenService actorService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		actor, err := tokenUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(plainToken))
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))

		logger.Debug("authentication successful",
			slog.String("actor_id", actor.ID.String()),
			slog.String("role", string(actor.Role)))

		c.Next()
	}
}

// AuthorizationMiddleware asks the policy evaluator whether the authenticated actor may
// perform action. It MUST run after AuthenticationMiddleware.
//
// A denial answers 403 with the denial reason. An evaluation failure answers 503: the
// request is refused, never let through.
func AuthorizationMiddleware(
	authorizer Authorizer,
	action abacDomain.Action,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		if !ok || actor == nil {
			logger.Debug("authorization failed: no authenticated actor in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		decision, err := authorizer.Authorize(c.Request.Context(), actor.ID, abacDomain.Request{
			Action:       action,
			ResourceType: resourceType(action),
			ResourceID:   c.Param("id"),
		})
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if denied := decision.Err(action); denied != nil {
			logger.Debug("authorization failed",
				slog.String("actor_id", actor.ID.String()),
				slog.String("action", string(action)),
				slog.String("reason", decision.Reason))
			httputil.HandleErrorGin(c, denied, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// resourceType is the action's leading segment, e.g. "case" for case.view.
func resourceType(action abacDomain.Action) string {
	kind, _, _ := strings.Cut(string(action), ".")
	return kind
}
