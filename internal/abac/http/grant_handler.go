package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/abac/http/dto"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
)

// GrantHandler handles HTTP requests for the attributes an actor holds.
type GrantHandler struct {
	grantUseCase abacUseCase.GrantUseCase
	logger       *slog.Logger
}

// NewGrantHandler creates a new grant handler with required dependencies.
func NewGrantHandler(grantUseCase abacUseCase.GrantUseCase, logger *slog.Logger) *GrantHandler {
	return &GrantHandler{
		grantUseCase: grantUseCase,
		logger:       logger,
	}
}

// CreateHandler assigns an attribute to an actor, replacing a previous grant of it.
// POST /v1/actors/:id/attributes
func (h *GrantHandler) CreateHandler(c *gin.Context) {
	granter, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	actorID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.GrantRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	grant, err := h.grantUseCase.Grant(c.Request.Context(), &abacDomain.GrantInput{
		ActorID:     actorID,
		AttributeID: uuid.MustParse(req.AttributeID),
		GrantedBy:   granter.ID,
		ExpiresAt:   req.ExpiresAt,
		Reason:      req.Reason,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapGrantToResponse(grant, time.Now().UTC()))
}

// ListHandler returns every grant of the actor, expired ones flagged inactive.
// GET /v1/actors/:id/attributes
func (h *GrantHandler) ListHandler(c *gin.Context) {
	actorID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	held, err := h.grantUseCase.ListByActor(c.Request.Context(), actorID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.MapHeldToResponse(held, time.Now().UTC())})
}

// RevokeHandler removes an attribute from an actor.
// DELETE /v1/actors/:id/attributes/:attributeId
func (h *GrantHandler) RevokeHandler(c *gin.Context) {
	actorID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}
	attributeID, ok := parseUUIDParam(c, "attributeId", h.logger)
	if !ok {
		return
	}

	if err := h.grantUseCase.Revoke(c.Request.Context(), actorID, attributeID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
