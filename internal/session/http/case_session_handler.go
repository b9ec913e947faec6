// Package http provides the case session endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
	"github.com/caseguard/caseguard/internal/session/http/dto"
	sessionUseCase "github.com/caseguard/caseguard/internal/session/usecase"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// SessionHeader carries the case session token on session-scoped requests.
const SessionHeader = "X-Case-Session"

// CaseSessionHandler handles HTTP requests for case sessions.
type CaseSessionHandler struct {
	sessionUseCase sessionUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewCaseSessionHandler creates a new case session handler with required dependencies.
func NewCaseSessionHandler(sessionUseCase sessionUseCase.SessionUseCase, logger *slog.Logger) *CaseSessionHandler {
	return &CaseSessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// OpenHandler opens a session with the case password.
// POST /v1/case-sessions - Requires an authenticated actor.
func (h *CaseSessionHandler) OpenHandler(c *gin.Context) {
	actor, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	opened, err := h.sessionUseCase.OpenWithPassword(
		c.Request.Context(),
		actor.ID,
		uuid.MustParse(req.CaseID),
		req.Password,
	)
	if err != nil {
		httputil.HandleCredentialErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOpenedSessionToResponse(opened))
}

// OpenWithLinkHandler opens a session from the one-click link token.
// POST /v1/case-sessions/link - No bearer token; the credential token authenticates.
func (h *CaseSessionHandler) OpenWithLinkHandler(c *gin.Context) {
	var req dto.OpenSessionWithLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	opened, err := h.sessionUseCase.OpenWithLink(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleCredentialErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOpenedSessionToResponse(opened))
}

// CurrentHandler describes the session named by the X-Case-Session header.
// GET /v1/case-sessions/current
func (h *CaseSessionHandler) CurrentHandler(c *gin.Context) {
	session, err := h.sessionUseCase.Current(c.Request.Context(), c.GetHeader(SessionHeader))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// CloseHandler ends the session named by the X-Case-Session header.
// DELETE /v1/case-sessions/current
func (h *CaseSessionHandler) CloseHandler(c *gin.Context) {
	if err := h.sessionUseCase.Close(c.Request.Context(), c.GetHeader(SessionHeader)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
