// Package http provides the API server: router setup, health endpoints and the shared
// middleware every route runs behind.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	abacHttp "github.com/caseguard/caseguard/internal/abac/http"
	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	actorService "github.com/caseguard/caseguard/internal/actor/service"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
	assignmentHttp "github.com/caseguard/caseguard/internal/assignment/http"
	casesHttp "github.com/caseguard/caseguard/internal/cases/http"
	"github.com/caseguard/caseguard/internal/config"
	"github.com/caseguard/caseguard/internal/metrics"
	"github.com/caseguard/caseguard/internal/ratelimit"
	sessionHttp "github.com/caseguard/caseguard/internal/session/http"
	vaultHttp "github.com/caseguard/caseguard/internal/vault/http"
)

// readinessTimeout bounds each database ping of /ready.
const readinessTimeout = 2 * time.Second

// Server is the API server. It never exposes /metrics; see MetricsServer.
type Server struct {
	caseDB  *sql.DB
	vaultDB *sql.DB
	server  *http.Server
	router  *gin.Engine
	logger  *slog.Logger
}

// Routes holds the handlers and the middleware dependencies of the API.
type Routes struct {
	TokenHandler       *actorHttp.TokenHandler
	ActorHandler       *actorHttp.ActorHandler
	AttributeHandler   *abacHttp.AttributeHandler
	PolicyHandler      *abacHttp.PolicyHandler
	GrantHandler       *abacHttp.GrantHandler
	EvaluateHandler    *abacHttp.EvaluateHandler
	CaseHandler        *casesHttp.CaseHandler
	AssignmentHandler  *assignmentHttp.AssignmentHandler
	VaultHandler       *vaultHttp.VaultHandler
	CaseSessionHandler *sessionHttp.CaseSessionHandler

	Authorizer   actorHttp.Authorizer
	TokenUseCase actorUseCase.TokenUseCase
	TokenService actorService.TokenService

	// APILimiter limits authenticated requests per actor. Nil disables it.
	APILimiter ratelimit.Limiter
	// LoginLimiter limits login endpoints per client IP. Nil disables it.
	LoginLimiter ratelimit.Limiter

	// MetricsProvider enables HTTP request metrics when set.
	MetricsProvider *metrics.Provider
}

// NewServer creates the API server. Both connections are pinged by /ready.
func NewServer(caseDB, vaultDB *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		caseDB:  caseDB,
		vaultDB: vaultDB,
		logger:  logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the route table.
func (s *Server) SetupRouter(cfg *config.Config, routes Routes) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if routes.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(routes.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	login := s.limit(routes.LoginLimiter, ratelimit.ClientIPKey)
	authenticated := []gin.HandlerFunc{
		actorHttp.AuthenticationMiddleware(routes.TokenUseCase, routes.TokenService, s.logger),
	}
	if routes.APILimiter != nil {
		authenticated = append(authenticated, ratelimit.Middleware(routes.APILimiter, ratelimit.ActorKey, s.logger))
	}
	authorize := func(action abacDomain.Action) gin.HandlerFunc {
		return actorHttp.AuthorizationMiddleware(routes.Authorizer, action, s.logger)
	}

	v1 := router.Group("/v1")

	v1.POST("/token", append(login, routes.TokenHandler.IssueTokenHandler)...)
	v1.POST("/case-sessions/link", append(login, routes.CaseSessionHandler.OpenWithLinkHandler)...)

	api := v1.Group("")
	api.Use(authenticated...)
	{
		actors := api.Group("/actors")
		actors.POST("", authorize(abacDomain.ActionUserCreate), routes.ActorHandler.CreateHandler)
		actors.GET("", authorize(abacDomain.ActionUserList), routes.ActorHandler.ListHandler)
		actors.GET("/:id", authorize(abacDomain.ActionUserList), routes.ActorHandler.GetHandler)
		actors.PUT("/:id", authorize(abacDomain.ActionUserEdit), routes.ActorHandler.UpdateHandler)
		actors.DELETE("/:id", authorize(abacDomain.ActionUserDeactivate), routes.ActorHandler.DeactivateHandler)
		actors.POST("/:id/unlock", authorize(abacDomain.ActionUserEdit), routes.ActorHandler.UnlockHandler)

		grants := actors.Group("/:id/attributes", authorize(abacDomain.ActionAdminABAC))
		grants.POST("", routes.GrantHandler.CreateHandler)
		grants.GET("", routes.GrantHandler.ListHandler)
		grants.DELETE("/:attributeId", routes.GrantHandler.RevokeHandler)

		abac := api.Group("/abac", authorize(abacDomain.ActionAdminABAC))
		abac.POST("/attributes", routes.AttributeHandler.CreateHandler)
		abac.GET("/attributes", routes.AttributeHandler.ListHandler)
		abac.GET("/attributes/:id", routes.AttributeHandler.GetHandler)
		abac.PUT("/attributes/:id", routes.AttributeHandler.UpdateHandler)
		abac.DELETE("/attributes/:id", routes.AttributeHandler.DeleteHandler)
		abac.POST("/policies", routes.PolicyHandler.CreateHandler)
		abac.GET("/policies", routes.PolicyHandler.ListHandler)
		abac.GET("/policies/:id", routes.PolicyHandler.GetHandler)
		abac.PUT("/policies/:id", routes.PolicyHandler.UpdateHandler)
		abac.DELETE("/policies/:id", routes.PolicyHandler.DeleteHandler)
		abac.POST("/policies/:id/rules", routes.PolicyHandler.AddRuleHandler)
		abac.DELETE("/policies/:id/rules/:ruleId", routes.PolicyHandler.RemoveRuleHandler)
		abac.POST("/evaluate", routes.EvaluateHandler.DryRunHandler)

		cases := api.Group("/cases")
		cases.POST("", authorize(abacDomain.ActionCaseCreate), routes.CaseHandler.CreateHandler)
		cases.GET("/:id", authorize(abacDomain.ActionCaseView), routes.CaseHandler.GetHandler)
		cases.POST("/:id/assignment", routes.AssignmentHandler.AssignHandler)

		api.GET("/me/cases", routes.VaultHandler.MyCasesHandler)

		vault := api.Group("/vault")
		vault.POST("/resolve", authorize(abacDomain.ActionVaultResolve), routes.VaultHandler.ResolveHandler)
		vault.DELETE("/mappings/:pseudonym", authorize(abacDomain.ActionVaultResolve), routes.VaultHandler.RevokeHandler)
		vault.GET("/access-logs", authorize(abacDomain.ActionVaultAudit), routes.VaultHandler.ListAccessLogsHandler)

		sessions := api.Group("/case-sessions")
		sessions.POST("", append(login, routes.CaseSessionHandler.OpenHandler)...)
		sessions.GET("/current", routes.CaseSessionHandler.CurrentHandler)
		sessions.DELETE("/current", routes.CaseSessionHandler.CloseHandler)
	}

	s.router = router
}

// limit returns the rate limit middleware as a chain prefix, or an empty chain when limiter
// is nil.
func (s *Server) limit(limiter ratelimit.Limiter, keyFunc ratelimit.KeyFunc) []gin.HandlerFunc {
	if limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{ratelimit.Middleware(limiter, keyFunc, s.logger)}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the case store and the identity vault. Either failing makes the
// instance not ready.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{
		"database": pingStatus(c.Request.Context(), s.caseDB),
		"vault":    pingStatus(c.Request.Context(), s.vaultDB),
	}

	status, code := "ready", http.StatusOK
	for _, v := range components {
		if v != "ok" {
			status, code = "not_ready", http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

func pingStatus(ctx context.Context, db *sql.DB) string {
	if db == nil {
		return "error"
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return "error"
	}
	return "ok"
}
