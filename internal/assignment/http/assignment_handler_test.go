package http

import (
	"bytes"
	"context"
	"encoding/json"
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

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	"github.com/caseguard/caseguard/internal/assignment/http/dto"
	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withActor(actor *actorDomain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(actorHttp.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

type mockAssignmentUseCase struct {
	mock.Mock
}

func (m *mockAssignmentUseCase) Assign(
	ctx context.Context,
	input assignmentDomain.AssignInput,
) (*assignmentDomain.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignmentDomain.Result), args.Error(1)
}

func setupRouter(uc *mockAssignmentUseCase, actor *actorDomain.Actor) *gin.Engine {
	handler := NewAssignmentHandler(uc, createTestLogger())
	router := gin.New()
	if actor != nil {
		router.Use(withActor(actor))
	}
	router.POST("/v1/cases/:id/assignment", handler.AssignHandler)
	return router
}

func newResult(caseID uuid.UUID) *assignmentDomain.Result {
	return &assignmentDomain.Result{
		CaseID:    caseID,
		Pseudonym: "anon_0123456789abcdef0123456789abcdef",
		Credential: &credentialDomain.IssuedCredential{
			Address:   "case-0a1b2c3d@courts.example",
			Password:  "Aa1!Aa1!Aa1!Aa1!",
			Token:     "signed.jwt.token",
			ExpiresAt: time.Now().Add(72 * time.Hour).UTC(),
		},
		AssignedAt: time.Now().UTC(),
	}
}

func TestAssignmentHandler_AssignHandler(t *testing.T) {
	assigner := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleSecretary, IsActive: true}
	caseID := uuid.Must(uuid.NewV7())
	url := "/v1/cases/" + caseID.String() + "/assignment"

	t.Run("Success_RandomJudge", func(t *testing.T) {
		uc := &mockAssignmentUseCase{}
		uc.On("Assign", mock.Anything, assignmentDomain.AssignInput{CaseID: caseID, AssignerID: assigner.ID}).
			Return(newResult(caseID), nil)

		w := httptest.NewRecorder()
		setupRouter(uc, assigner).ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		var response dto.AssignmentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, caseID.String(), response.CaseID)
		assert.Equal(t, "signed.jwt.token", response.Credential.Token)
		assert.Empty(t, response.Warning)
		uc.AssertExpectations(t)
	})

	t.Run("Success_ExplicitAssigneeWithWarning", func(t *testing.T) {
		uc := &mockAssignmentUseCase{}
		assigneeID := uuid.Must(uuid.NewV7())
		result := newResult(caseID)
		result.Warning = assignmentDomain.WarningNotificationFailed
		uc.On("Assign", mock.Anything, mock.MatchedBy(func(input assignmentDomain.AssignInput) bool {
			return input.AssigneeID != nil && *input.AssigneeID == assigneeID
		})).Return(result, nil)

		body := bytes.NewBufferString(`{"assignee_id":"` + assigneeID.String() + `"}`)
		w := httptest.NewRecorder()
		setupRouter(uc, assigner).ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, body))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"warning":"notification_failed"`)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(&mockAssignmentUseCase{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_InvalidCaseID", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(&mockAssignmentUseCase{}, assigner).
			ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/cases/42/assignment", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_InvalidAssigneeID", func(t *testing.T) {
		uc := &mockAssignmentUseCase{}
		w := httptest.NewRecorder()
		setupRouter(uc, assigner).ServeHTTP(w,
			httptest.NewRequest(http.MethodPost, url, bytes.NewBufferString(`{"assignee_id":"judge-1"}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		uc.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything)
	})

	t.Run("Error_Forbidden", func(t *testing.T) {
		uc := &mockAssignmentUseCase{}
		uc.On("Assign", mock.Anything, mock.Anything).
			Return(nil, abacDomain.Deny("missing attribute assign_cases").Err(abacDomain.ActionCaseAssignJudge))

		w := httptest.NewRecorder()
		setupRouter(uc, assigner).ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_AlreadyAssigned", func(t *testing.T) {
		uc := &mockAssignmentUseCase{}
		uc.On("Assign", mock.Anything, mock.Anything).Return(nil, assignmentDomain.ErrAlreadyAssigned)

		w := httptest.NewRecorder()
		setupRouter(uc, assigner).ServeHTTP(w, httptest.NewRequest(http.MethodPost, url, nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
