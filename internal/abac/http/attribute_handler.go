// Package http provides the administration endpoints for attributes, security policies,
// actor attribute grants and dry-run policy evaluation. Every route requires admin.abac.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/abac/http/dto"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	"github.com/caseguard/caseguard/internal/httputil"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// AttributeHandler handles HTTP requests for attribute management.
type AttributeHandler struct {
	attributeUseCase abacUseCase.AttributeUseCase
	logger           *slog.Logger
}

// NewAttributeHandler creates a new attribute handler with required dependencies.
func NewAttributeHandler(attributeUseCase abacUseCase.AttributeUseCase, logger *slog.Logger) *AttributeHandler {
	return &AttributeHandler{
		attributeUseCase: attributeUseCase,
		logger:           logger,
	}
}

// CreateHandler defines a new attribute.
// POST /v1/abac/attributes
func (h *AttributeHandler) CreateHandler(c *gin.Context) {
	var req dto.AttributeRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	attribute, err := h.attributeUseCase.Create(c.Request.Context(), &abacDomain.CreateAttributeInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Level:       req.Level,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAttributeToResponse(attribute))
}

// GetHandler retrieves an attribute by ID.
// GET /v1/abac/attributes/:id
func (h *AttributeHandler) GetHandler(c *gin.Context) {
	attributeID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	attribute, err := h.attributeUseCase.Get(c.Request.Context(), attributeID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAttributeToResponse(attribute))
}

// ListHandler lists attributes ordered by name.
// GET /v1/abac/attributes
func (h *AttributeHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	attributes, err := h.attributeUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewListResponse(dto.MapAttributesToResponse(attributes), offset, limit))
}

// UpdateHandler changes an attribute.
// PUT /v1/abac/attributes/:id - 409 when category or level changes on a referenced attribute.
func (h *AttributeHandler) UpdateHandler(c *gin.Context) {
	attributeID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.AttributeRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	attribute, err := h.attributeUseCase.Update(c.Request.Context(), attributeID, &abacDomain.UpdateAttributeInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Level:       req.Level,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAttributeToResponse(attribute))
}

// DeleteHandler removes an attribute with its rules and grants.
// DELETE /v1/abac/attributes/:id
func (h *AttributeHandler) DeleteHandler(c *gin.Context) {
	attributeID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	if err := h.attributeUseCase.Delete(c.Request.Context(), attributeID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

type validatable interface {
	Validate() error
}

// bindAndValidate binds the JSON body into req and runs its validation rules, writing the
// 422 response itself on failure.
func bindAndValidate(c *gin.Context, req validatable, logger *slog.Logger) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleValidationErrorGin(c, err, logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), logger)
		return false
	}
	return true
}

func parseUUIDParam(c *gin.Context, name string, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid %s format: must be a valid UUID", name),
			logger)
		return uuid.Nil, false
	}
	return id, true
}
