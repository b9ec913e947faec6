package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/abac/http/dto"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	"github.com/caseguard/caseguard/internal/httputil"
)

// EvaluateHandler answers what the evaluator would decide for an arbitrary actor, without
// performing the action.
type EvaluateHandler struct {
	evaluator abacUseCase.Evaluator
	logger    *slog.Logger
}

// NewEvaluateHandler creates a new evaluate handler with required dependencies.
func NewEvaluateHandler(evaluator abacUseCase.Evaluator, logger *slog.Logger) *EvaluateHandler {
	return &EvaluateHandler{
		evaluator: evaluator,
		logger:    logger,
	}
}

// DryRunHandler runs a dry-run evaluation.
// POST /v1/abac/evaluate - A denial is a 200 response with allowed=false.
func (h *EvaluateHandler) DryRunHandler(c *gin.Context) {
	var req dto.EvaluateRequest
	if !bindAndValidate(c, &req, h.logger) {
		return
	}

	decision, err := h.evaluator.Authorize(c.Request.Context(), uuid.MustParse(req.ActorID), abacDomain.Request{
		Action:            req.Action,
		ResourceType:      req.ResourceType,
		ResourceID:        req.ResourceID,
		RequiredClearance: req.RequiredClearance,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecisionResponse{Allowed: decision.Allowed, Reason: decision.Reason})
}
