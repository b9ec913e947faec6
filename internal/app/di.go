// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	abacHttp "github.com/caseguard/caseguard/internal/abac/http"
	abacSeed "github.com/caseguard/caseguard/internal/abac/seed"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	actorService "github.com/caseguard/caseguard/internal/actor/service"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
	assignmentHttp "github.com/caseguard/caseguard/internal/assignment/http"
	assignmentUseCase "github.com/caseguard/caseguard/internal/assignment/usecase"
	casesHttp "github.com/caseguard/caseguard/internal/cases/http"
	casesUseCase "github.com/caseguard/caseguard/internal/cases/usecase"
	"github.com/caseguard/caseguard/internal/config"
	cryptoService "github.com/caseguard/caseguard/internal/crypto/service"
	credentialService "github.com/caseguard/caseguard/internal/credential/service"
	credentialUseCase "github.com/caseguard/caseguard/internal/credential/usecase"
	"github.com/caseguard/caseguard/internal/database"
	"github.com/caseguard/caseguard/internal/http"
	"github.com/caseguard/caseguard/internal/keys"
	"github.com/caseguard/caseguard/internal/metrics"
	"github.com/caseguard/caseguard/internal/notification"
	"github.com/caseguard/caseguard/internal/ratelimit"
	sessionHttp "github.com/caseguard/caseguard/internal/session/http"
	sessionUseCase "github.com/caseguard/caseguard/internal/session/usecase"
	vaultHttp "github.com/caseguard/caseguard/internal/vault/http"
	vaultService "github.com/caseguard/caseguard/internal/vault/service"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
//
// Two database connections are held: the case store and the identity vault. They are never
// interchangeable; every vault component is built on VaultDB and VaultTxManager.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	vaultDB         *sql.DB
	redisClient     *redis.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager      database.TxManager
	vaultTxManager database.TxManager

	// Keys
	kmsService      keys.KMSService
	masterKey       *keys.MasterKey
	tokenSigner     credentialService.TokenSigner
	accessLogSigner vaultService.AccessLogSigner
	fieldCipher     cryptoService.FieldCipher

	// Services
	secretService actorService.SecretService
	tokenService  actorService.TokenService

	// Repositories
	actorRepository      actorUseCase.ActorRepository
	tokenRepository      actorUseCase.TokenRepository
	attributeRepository  abacUseCase.AttributeRepository
	policyRepository     abacUseCase.PolicyRepository
	grantRepository      abacUseCase.GrantRepository
	caseRepository       casesUseCase.CaseRepository
	assignmentRepository assignmentUseCase.AssignmentRepository
	credentialRepository credentialUseCase.CredentialRepository
	mappingRepository    vaultUseCase.MappingRepository
	accessLogRepository  vaultUseCase.AccessLogRepository
	sessionStore         sessionUseCase.SessionStore

	// Use Cases
	actorUseCase      actorUseCase.ActorUseCase
	tokenUseCase      actorUseCase.TokenUseCase
	attributeUseCase  abacUseCase.AttributeUseCase
	policyUseCase     abacUseCase.PolicyUseCase
	grantUseCase      abacUseCase.GrantUseCase
	evaluator         abacUseCase.Evaluator
	caseUseCase       casesUseCase.CaseUseCase
	assignmentUseCase assignmentUseCase.AssignmentUseCase
	credentialUseCase credentialUseCase.CredentialUseCase
	vaultUseCase      vaultUseCase.VaultUseCase
	sessionUseCase    sessionUseCase.SessionUseCase
	seeder            *abacSeed.Seeder

	// Notification and rate limiting
	notifier     notification.Notifier
	apiLimiter   ratelimit.Limiter
	loginLimiter ratelimit.Limiter

	// HTTP Handlers
	tokenHandler       *actorHttp.TokenHandler
	actorHandler       *actorHttp.ActorHandler
	attributeHandler   *abacHttp.AttributeHandler
	policyHandler      *abacHttp.PolicyHandler
	grantHandler       *abacHttp.GrantHandler
	evaluateHandler    *abacHttp.EvaluateHandler
	caseHandler        *casesHttp.CaseHandler
	assignmentHandler  *assignmentHttp.AssignmentHandler
	vaultHandler       *vaultHttp.VaultHandler
	caseSessionHandler *sessionHttp.CaseSessionHandler

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	sweeper       *credentialUseCase.Sweeper

	// Initialization flags and mutex for thread-safety
	mu                       sync.Mutex
	loggerInit               sync.Once
	dbInit                   sync.Once
	vaultDBInit              sync.Once
	redisClientInit          sync.Once
	metricsProviderInit      sync.Once
	businessMetricsInit      sync.Once
	txManagerInit            sync.Once
	vaultTxManagerInit       sync.Once
	kmsServiceInit           sync.Once
	masterKeyInit            sync.Once
	tokenSignerInit          sync.Once
	accessLogSignerInit      sync.Once
	fieldCipherInit          sync.Once
	secretServiceInit        sync.Once
	tokenServiceInit         sync.Once
	actorRepositoryInit      sync.Once
	tokenRepositoryInit      sync.Once
	attributeRepositoryInit  sync.Once
	policyRepositoryInit     sync.Once
	grantRepositoryInit      sync.Once
	caseRepositoryInit       sync.Once
	assignmentRepositoryInit sync.Once
	credentialRepositoryInit sync.Once
	mappingRepositoryInit    sync.Once
	accessLogRepositoryInit  sync.Once
	sessionStoreInit         sync.Once
	actorUseCaseInit         sync.Once
	tokenUseCaseInit         sync.Once
	attributeUseCaseInit     sync.Once
	policyUseCaseInit        sync.Once
	grantUseCaseInit         sync.Once
	evaluatorInit            sync.Once
	caseUseCaseInit          sync.Once
	assignmentUseCaseInit    sync.Once
	credentialUseCaseInit    sync.Once
	vaultUseCaseInit         sync.Once
	sessionUseCaseInit       sync.Once
	seederInit               sync.Once
	notifierInit             sync.Once
	limitersInit             sync.Once
	tokenHandlerInit         sync.Once
	actorHandlerInit         sync.Once
	attributeHandlerInit     sync.Once
	policyHandlerInit        sync.Once
	grantHandlerInit         sync.Once
	evaluateHandlerInit      sync.Once
	caseHandlerInit          sync.Once
	assignmentHandlerInit    sync.Once
	vaultHandlerInit         sync.Once
	caseSessionHandlerInit   sync.Once
	httpServerInit           sync.Once
	metricsServerInit        sync.Once
	sweeperInit              sync.Once
	initErrors               map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the case store connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// VaultDB returns the identity vault connection.
func (c *Container) VaultDB() (*sql.DB, error) {
	var err error
	c.vaultDBInit.Do(func() {
		c.vaultDB, err = c.initVaultDB()
		if err != nil {
			c.initErrors["vaultDB"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultDB"]; exists {
		return nil, storedErr
	}
	return c.vaultDB, nil
}

// TxManager returns the transaction manager of the case store.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// VaultTxManager returns the transaction manager of the identity vault.
func (c *Container) VaultTxManager() (database.TxManager, error) {
	var err error
	c.vaultTxManagerInit.Do(func() {
		c.vaultTxManager, err = c.initVaultTxManager()
		if err != nil {
			c.initErrors["vaultTxManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultTxManager"]; exists {
		return nil, storedErr
	}
	return c.vaultTxManager, nil
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are
// disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.masterKey != nil {
		c.masterKey.Close()
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.vaultDB != nil {
		if err := c.vaultDB.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("vault database close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the case store connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initVaultDB creates and configures the identity vault connection.
func (c *Container) initVaultDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.VaultDBDriver,
		ConnectionString:   c.config.VaultDBConnectionString,
		MaxOpenConnections: c.config.VaultDBMaxOpenConnections,
		MaxIdleConnections: c.config.VaultDBMaxIdleConnections,
		ConnMaxLifetime:    c.config.VaultDBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the case store connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initVaultTxManager creates the transaction manager using the vault connection.
func (c *Container) initVaultTxManager() (database.TxManager, error) {
	db, err := c.VaultDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder on top of the metrics provider.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// repositoryFor picks the repository implementation matching a driver's dialect.
func repositoryFor[T any](driver string, postgres, mysql func() T) (T, error) {
	switch driver {
	case "postgres", "pgx":
		return postgres(), nil
	case "mysql":
		return mysql(), nil
	default:
		var zero T
		return zero, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
