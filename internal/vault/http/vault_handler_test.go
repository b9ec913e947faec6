package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
	"github.com/caseguard/caseguard/internal/vault/http/dto"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

const testPseudonym = "anon_0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func withActor(actor *actorDomain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(actorHttp.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// mockVaultUseCase is a mock implementation of VaultUseCase for testing.
type mockVaultUseCase struct {
	mock.Mock
}

func (m *mockVaultUseCase) CreateMapping(ctx context.Context, userID, caseID, createdBy uuid.UUID) (string, error) {
	args := m.Called(ctx, userID, caseID, createdBy)
	return args.String(0), args.Error(1)
}

func (m *mockVaultUseCase) ResolveIdentity(
	ctx context.Context,
	pseudonym string,
	requestedBy uuid.UUID,
) (*vaultDomain.ResolvedIdentity, error) {
	args := m.Called(ctx, pseudonym, requestedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ResolvedIdentity), args.Error(1)
}

func (m *mockVaultUseCase) GetUserPseudonyms(
	ctx context.Context,
	userID uuid.UUID,
) ([]vaultDomain.CasePseudonym, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vaultDomain.CasePseudonym), args.Error(1)
}

func (m *mockVaultUseCase) VerifyAccess(
	ctx context.Context,
	userID, caseID uuid.UUID,
) (*vaultDomain.AccessCheck, error) {
	args := m.Called(ctx, userID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.AccessCheck), args.Error(1)
}

func (m *mockVaultUseCase) RevokeMapping(ctx context.Context, pseudonym string, revokedBy uuid.UUID) error {
	return m.Called(ctx, pseudonym, revokedBy).Error(0)
}

func (m *mockVaultUseCase) ListAccessLogs(
	ctx context.Context,
	filter vaultDomain.AccessLogFilter,
	offset, limit int,
) ([]*vaultDomain.IdentityAccessLog, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.IdentityAccessLog), args.Error(1)
}

func (m *mockVaultUseCase) VerifyAccessLogs(
	ctx context.Context,
	offset, limit int,
) (*vaultUseCase.VerifyReport, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultUseCase.VerifyReport), args.Error(1)
}

func setupRouter(uc *mockVaultUseCase, actor *actorDomain.Actor) *gin.Engine {
	handler := NewVaultHandler(uc, createTestLogger())
	router := gin.New()
	if actor != nil {
		router.Use(withActor(actor))
	}
	router.POST("/v1/vault/resolve", handler.ResolveHandler)
	router.DELETE("/v1/vault/mappings/:pseudonym", handler.RevokeHandler)
	router.GET("/v1/vault/access-logs", handler.ListAccessLogsHandler)
	router.GET("/v1/me/cases", handler.MyCasesHandler)
	return router
}

func TestVaultHandler_ResolveHandler(t *testing.T) {
	auditor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleAuditor, IsActive: true}

	t.Run("Success", func(t *testing.T) {
		uc := &mockVaultUseCase{}
		resolved := &vaultDomain.ResolvedIdentity{UserID: uuid.Must(uuid.NewV7()), CaseID: uuid.Must(uuid.NewV7())}
		uc.On("ResolveIdentity", mock.Anything, testPseudonym, auditor.ID).Return(resolved, nil)

		w := httptest.NewRecorder()
		setupRouter(uc, auditor).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/vault/resolve",
			jsonBody(t, dto.ResolveIdentityRequest{Pseudonym: testPseudonym})))

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ResolvedIdentityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, resolved.UserID.String(), response.UserID)
		assert.Equal(t, resolved.CaseID.String(), response.CaseID)
	})

	t.Run("Error_MalformedPseudonym", func(t *testing.T) {
		uc := &mockVaultUseCase{}

		w := httptest.NewRecorder()
		setupRouter(uc, auditor).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/vault/resolve",
			jsonBody(t, dto.ResolveIdentityRequest{Pseudonym: "judge@court.example"})))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		uc.AssertNotCalled(t, "ResolveIdentity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc := &mockVaultUseCase{}
		uc.On("ResolveIdentity", mock.Anything, testPseudonym, auditor.ID).Return(nil, vaultDomain.ErrMappingNotFound)

		w := httptest.NewRecorder()
		setupRouter(uc, auditor).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/vault/resolve",
			jsonBody(t, dto.ResolveIdentityRequest{Pseudonym: testPseudonym})))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_VaultUnavailable", func(t *testing.T) {
		uc := &mockVaultUseCase{}
		uc.On("ResolveIdentity", mock.Anything, testPseudonym, auditor.ID).
			Return(nil, apperrors.Unavailable(errors.New("refused"), "vault"))

		w := httptest.NewRecorder()
		setupRouter(uc, auditor).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/vault/resolve",
			jsonBody(t, dto.ResolveIdentityRequest{Pseudonym: testPseudonym})))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Error_NoActor", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(&mockVaultUseCase{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/vault/resolve",
			jsonBody(t, dto.ResolveIdentityRequest{Pseudonym: testPseudonym})))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestVaultHandler_RevokeHandler(t *testing.T) {
	admin := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleSuperAdmin, IsActive: true}

	t.Run("Success", func(t *testing.T) {
		uc := &mockVaultUseCase{}
		uc.On("RevokeMapping", mock.Anything, testPseudonym, admin.ID).Return(nil)

		w := httptest.NewRecorder()
		setupRouter(uc, admin).ServeHTTP(w,
			httptest.NewRequest(http.MethodDelete, "/v1/vault/mappings/"+testPseudonym, nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Error_InvalidPseudonym", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(&mockVaultUseCase{}, admin).ServeHTTP(w,
			httptest.NewRequest(http.MethodDelete, "/v1/vault/mappings/not-a-pseudonym", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestVaultHandler_ListAccessLogsHandler(t *testing.T) {
	auditor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleAuditor, IsActive: true}

	t.Run("Success_Filtered", func(t *testing.T) {
		uc := &mockVaultUseCase{}
		entry := &vaultDomain.IdentityAccessLog{
			ID:           uuid.Must(uuid.NewV7()),
			Pseudonym:    testPseudonym,
			AccessedBy:   auditor.ID,
			AccessReason: vaultDomain.ReasonResolveIdentity,
			AccessedAt:   time.Now().UTC(),
			Signature:    []byte("sig"),
		}
		uc.On("ListAccessLogs", mock.Anything, vaultDomain.AccessLogFilter{Pseudonym: testPseudonym}, 10, 20).
			Return([]*vaultDomain.IdentityAccessLog{entry}, nil)

		w := httptest.NewRecorder()
		setupRouter(uc, auditor).ServeHTTP(w, httptest.NewRequest(http.MethodGet,
			"/v1/vault/access-logs?offset=10&limit=20&pseudonym="+testPseudonym, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "signature")
		var response struct {
			Data   []dto.AccessLogResponse `json:"data"`
			Offset int                     `json:"offset"`
			Limit  int                     `json:"limit"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "resolve_identity", response.Data[0].AccessReason)
		assert.Equal(t, 10, response.Offset)
		assert.Equal(t, 20, response.Limit)
	})

	t.Run("Error_LimitAboveMaximum", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(&mockVaultUseCase{}, auditor).ServeHTTP(w,
			httptest.NewRequest(http.MethodGet, "/v1/vault/access-logs?limit=500", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_InvalidPseudonymFilter", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(&mockVaultUseCase{}, auditor).ServeHTTP(w,
			httptest.NewRequest(http.MethodGet, "/v1/vault/access-logs?pseudonym=bob", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVaultHandler_MyCasesHandler(t *testing.T) {
	judge := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleJudge, IsActive: true}

	t.Run("Success", func(t *testing.T) {
		uc := &mockVaultUseCase{}
		caseID := uuid.Must(uuid.NewV7())
		uc.On("GetUserPseudonyms", mock.Anything, judge.ID).
			Return([]vaultDomain.CasePseudonym{{Pseudonym: testPseudonym, CaseID: caseID}}, nil)

		w := httptest.NewRecorder()
		setupRouter(uc, judge).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/me/cases", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Data []dto.CasePseudonymResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []dto.CasePseudonymResponse{{Pseudonym: testPseudonym, CaseID: caseID.String()}}, response.Data)
	})

	t.Run("Success_EmptyIsArray", func(t *testing.T) {
		uc := &mockVaultUseCase{}
		uc.On("GetUserPseudonyms", mock.Anything, judge.ID).Return([]vaultDomain.CasePseudonym{}, nil)

		w := httptest.NewRecorder()
		setupRouter(uc, judge).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/me/cases", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})
}
