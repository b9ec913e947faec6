package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	"github.com/caseguard/caseguard/internal/actor/http/dto"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
	"github.com/caseguard/caseguard/internal/httputil"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// TokenHandler handles HTTP requests for bearer token issuance.
type TokenHandler struct {
	tokenUseCase actorUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase actorUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueTokenHandler exchanges an actor's email and secret for a bearer token.
// POST /v1/token - No authentication required.
// Returns 201 Created with token and expiration time.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), &actorDomain.IssueTokenInput{
		Email:  req.Email,
		Secret: req.Secret,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueTokenResponse{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
	})
}
