// Package http provides the case registry endpoints.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	"github.com/caseguard/caseguard/internal/cases/http/dto"
	casesUseCase "github.com/caseguard/caseguard/internal/cases/usecase"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// CaseHandler handles HTTP requests for cases.
type CaseHandler struct {
	caseUseCase casesUseCase.CaseUseCase
	logger      *slog.Logger
}

// NewCaseHandler creates a new case handler.
func NewCaseHandler(caseUseCase casesUseCase.CaseUseCase, logger *slog.Logger) *CaseHandler {
	return &CaseHandler{caseUseCase: caseUseCase, logger: logger}
}

// CreateHandler registers a new pending case.
// POST /v1/cases - Requires case.create and clearance for the classification.
func (h *CaseHandler) CreateHandler(c *gin.Context) {
	creator, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	created, err := h.caseUseCase.Create(c.Request.Context(), req.ToInput(creator.ID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCaseToResponse(created))
}

// GetHandler returns a case.
// GET /v1/cases/:id - Requires case.view; the use case checks clearance for the classification.
func (h *CaseHandler) GetHandler(c *gin.Context) {
	viewer, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid case id"), h.logger)
		return
	}

	found, err := h.caseUseCase.Get(c.Request.Context(), viewer.ID, caseID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCaseToResponse(found))
}
