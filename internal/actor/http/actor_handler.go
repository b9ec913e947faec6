package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	"github.com/caseguard/caseguard/internal/actor/http/dto"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
	"github.com/caseguard/caseguard/internal/httputil"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// ActorHandler handles HTTP requests for actor management.
type ActorHandler struct {
	actorUseCase actorUseCase.ActorUseCase
	logger       *slog.Logger
}

// NewActorHandler creates a new actor handler with required dependencies.
func NewActorHandler(actorUseCase actorUseCase.ActorUseCase, logger *slog.Logger) *ActorHandler {
	return &ActorHandler{
		actorUseCase: actorUseCase,
		logger:       logger,
	}
}

// CreateHandler creates an actor with a generated secret.
// POST /v1/actors - Requires user.create.
// Returns 201 Created with ID and plain text secret.
func (h *ActorHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.actorUseCase.Create(c.Request.Context(), &actorDomain.CreateActorInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateActorResponse{
		ID:     output.ID.String(),
		Secret: output.PlainSecret,
	})
}

// GetHandler retrieves an actor by ID.
// GET /v1/actors/:id - Requires user.list.
func (h *ActorHandler) GetHandler(c *gin.Context) {
	actorID, ok := h.parseID(c)
	if !ok {
		return
	}

	actor, err := h.actorUseCase.Get(c.Request.Context(), actorID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapActorToResponse(actor))
}

// ListHandler lists actors with offset/limit pagination.
// GET /v1/actors - Requires user.list.
func (h *ActorHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	actors, err := h.actorUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewListResponse(dto.MapActorsToResponse(actors), offset, limit))
}

// UpdateHandler replaces the mutable fields of an actor.
// PUT /v1/actors/:id - Requires user.edit.
func (h *ActorHandler) UpdateHandler(c *gin.Context) {
	actorID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	actor, err := h.actorUseCase.Update(c.Request.Context(), actorID, &actorDomain.UpdateActorInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapActorToResponse(actor))
}

// DeactivateHandler deactivates an actor and revokes its tokens.
// DELETE /v1/actors/:id - Requires user.deactivate.
// Returns 204 No Content.
func (h *ActorHandler) DeactivateHandler(c *gin.Context) {
	actorID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.actorUseCase.Deactivate(c.Request.Context(), actorID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// UnlockHandler clears an actor's lockout.
// POST /v1/actors/:id/unlock - Requires user.edit.
// Returns 204 No Content.
func (h *ActorHandler) UnlockHandler(c *gin.Context) {
	actorID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.actorUseCase.Unlock(c.Request.Context(), actorID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *ActorHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	actorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid actor ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return actorID, true
}
