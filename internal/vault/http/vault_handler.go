// Package http provides the identity vault endpoints: resolution and revocation of
// pseudonyms, the audit export of the access log and the caller's own case list.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	"github.com/caseguard/caseguard/internal/httputil"
	customValidation "github.com/caseguard/caseguard/internal/validation"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
	"github.com/caseguard/caseguard/internal/vault/http/dto"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for the identity vault.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(vaultUseCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// ResolveHandler returns the real identity behind a pseudonym. Every call is logged in the vault.
// POST /v1/vault/resolve - Requires vault.resolve.
func (h *VaultHandler) ResolveHandler(c *gin.Context) {
	requester, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.ResolveIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	resolved, err := h.vaultUseCase.ResolveIdentity(c.Request.Context(), req.Pseudonym, requester.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResolvedIdentityToResponse(resolved))
}

// RevokeHandler deletes a mapping after logging the revocation.
// DELETE /v1/vault/mappings/:pseudonym - Requires vault.resolve.
func (h *VaultHandler) RevokeHandler(c *gin.Context) {
	requester, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	pseudonym := c.Param("pseudonym")
	if !vaultDomain.IsPseudonym(pseudonym) {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid pseudonym format"), h.logger)
		return
	}

	if err := h.vaultUseCase.RevokeMapping(c.Request.Context(), pseudonym, requester.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListAccessLogsHandler exports the access log newest first.
// GET /v1/vault/access-logs?offset=0&limit=50&pseudonym=anon_... - Requires vault.audit.
func (h *VaultHandler) ListAccessLogsHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	filter := vaultDomain.AccessLogFilter{Pseudonym: c.Query("pseudonym")}
	if filter.Pseudonym != "" && !vaultDomain.IsPseudonym(filter.Pseudonym) {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid pseudonym parameter"), h.logger)
		return
	}

	entries, err := h.vaultUseCase.ListAccessLogs(c.Request.Context(), filter, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewListResponse(dto.MapAccessLogsToResponse(entries), offset, limit))
}

// MyCasesHandler lists the caller's own pseudonyms and cases.
// GET /v1/me/cases - Requires authentication only.
func (h *VaultHandler) MyCasesHandler(c *gin.Context) {
	actor, ok := actorHttp.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	pseudonyms, err := h.vaultUseCase.GetUserPseudonyms(c.Request.Context(), actor.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.MapCasePseudonymsToResponse(pseudonyms)})
}
