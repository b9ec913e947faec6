// Package http provides the case assignment endpoint.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	"github.com/caseguard/caseguard/internal/assignment/http/dto"
	assignmentUseCase "github.com/caseguard/caseguard/internal/assignment/usecase"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// AssignmentHandler handles case assignment requests.
type AssignmentHandler struct {
	assignmentUseCase assignmentUseCase.AssignmentUseCase
	logger            *slog.Logger
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(
	assignmentUseCase assignmentUseCase.AssignmentUseCase,
	logger *slog.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{assignmentUseCase: assignmentUseCase, logger: logger}
}

// AssignHandler assigns the case and returns the one-time credential.
// POST /v1/cases/:id/assignment - case.assign.judge is checked by the use case.
func (h *AssignmentHandler) AssignHandler(c *gin.Context) {
	assigner, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid case id"), h.logger)
		return
	}

	var req dto.AssignCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := assignmentDomain.AssignInput{CaseID: caseID, AssignerID: assigner.ID}
	if req.AssigneeID != "" {
		assigneeID := uuid.MustParse(req.AssigneeID)
		input.AssigneeID = &assigneeID
	}

	result, err := h.assignmentUseCase.Assign(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusCreated, dto.MapResultToResponse(result))
}
