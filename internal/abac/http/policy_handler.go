package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/abac/http/dto"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
)

// PolicyHandler handles HTTP requests for security policies and their rules.
type PolicyHandler struct {
	policyUseCase abacUseCase.PolicyUseCase
	logger        *slog.Logger
}

// NewPolicyHandler creates a new policy handler with required dependencies.
func NewPolicyHandler(policyUseCase abacUseCase.PolicyUseCase, logger *slog.Logger) *PolicyHandler {
	return &PolicyHandler{
		policyUseCase: policyUseCase,
		logger:        logger,
	}
}

// CreateHandler defines a policy owned by the calling actor.
// POST /v1/abac/policies
func (h *PolicyHandler) CreateHandler(c *gin.Context) {
	actor, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.PolicyRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	policy, err := h.policyUseCase.Create(c.Request.Context(), &abacDomain.CreatePolicyInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
		CreatedBy:   actor.ID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPolicyToResponse(policy))
}

// GetHandler retrieves a policy with its rules.
// GET /v1/abac/policies/:id
func (h *PolicyHandler) GetHandler(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	policy, err := h.policyUseCase.Get(c.Request.Context(), policyID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPolicyToResponse(policy))
}

// ListHandler lists policies with their rules.
// GET /v1/abac/policies
func (h *PolicyHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	policies, err := h.policyUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewListResponse(dto.MapPoliciesToResponse(policies), offset, limit))
}

// UpdateHandler changes a policy's name, description or active flag.
// PUT /v1/abac/policies/:id
func (h *PolicyHandler) UpdateHandler(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.PolicyRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	policy, err := h.policyUseCase.Update(c.Request.Context(), policyID, &abacDomain.UpdatePolicyInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPolicyToResponse(policy))
}

// DeleteHandler removes a policy and its rules.
// DELETE /v1/abac/policies/:id
func (h *PolicyHandler) DeleteHandler(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	if err := h.policyUseCase.Delete(c.Request.Context(), policyID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// AddRuleHandler appends a rule to a policy.
// POST /v1/abac/policies/:id/rules
func (h *PolicyHandler) AddRuleHandler(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.RuleRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	rule, err := h.policyUseCase.AddRule(c.Request.Context(), policyID, &abacDomain.CreateRuleInput{
		AttributeID: uuid.MustParse(req.AttributeID),
		Operator:    req.Operator,
		Value:       req.Value,
		Action:      req.Action,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRuleToResponse(rule))
}

// RemoveRuleHandler deletes a rule from a policy.
// DELETE /v1/abac/policies/:id/rules/:ruleId
func (h *PolicyHandler) RemoveRuleHandler(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id", h.logger)
	if !ok {
		return
	}
	ruleID, ok := parseUUIDParam(c, "ruleId", h.logger)
	if !ok {
		return
	}

	if err := h.policyUseCase.RemoveRule(c.Request.Context(), policyID, ruleID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
