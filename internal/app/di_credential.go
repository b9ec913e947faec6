package app

import (
	"fmt"

	credentialRepository "github.com/caseguard/caseguard/internal/credential/repository"
	credentialUseCase "github.com/caseguard/caseguard/internal/credential/usecase"
	sessionHttp "github.com/caseguard/caseguard/internal/session/http"
	sessionRepository "github.com/caseguard/caseguard/internal/session/repository"
	sessionUseCase "github.com/caseguard/caseguard/internal/session/usecase"
)

// sessionKeyPrefix namespaces case sessions in a shared Redis.
const sessionKeyPrefix = "caseguard:session:"

// CredentialRepository returns the ephemeral credential repository based on database driver.
func (c *Container) CredentialRepository() (credentialUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepositoryInit.Do(func() {
		c.credentialRepository, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepository"]; exists {
		return nil, storedErr
	}
	return c.credentialRepository, nil
}

// CredentialUseCase returns the ephemeral credential use case.
func (c *Container) CredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// Sweeper returns the background worker that deletes expired credentials.
func (c *Container) Sweeper() (*credentialUseCase.Sweeper, error) {
	var err error
	c.sweeperInit.Do(func() {
		var useCase credentialUseCase.CredentialUseCase
		useCase, err = c.CredentialUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get credential use case for sweeper: %w", err)
			c.initErrors["sweeper"] = err
			return
		}
		c.sweeper = credentialUseCase.NewSweeper(useCase, c.config.CredentialCleanupInterval, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sweeper"]; exists {
		return nil, storedErr
	}
	return c.sweeper, nil
}

// SessionStore returns the case-session store selected by SESSION_STORE.
func (c *Container) SessionStore() (sessionUseCase.SessionStore, error) {
	var err error
	c.sessionStoreInit.Do(func() {
		c.sessionStore, err = c.initSessionStore()
		if err != nil {
			c.initErrors["sessionStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionStore"]; exists {
		return nil, storedErr
	}
	return c.sessionStore, nil
}

// SessionUseCase returns the case-session use case.
func (c *Container) SessionUseCase() (sessionUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// CaseSessionHandler returns the HTTP handler for case sessions.
func (c *Container) CaseSessionHandler() (*sessionHttp.CaseSessionHandler, error) {
	var err error
	c.caseSessionHandlerInit.Do(func() {
		var useCase sessionUseCase.SessionUseCase
		useCase, err = c.SessionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get session use case for case session handler: %w", err)
			c.initErrors["caseSessionHandler"] = err
			return
		}
		c.caseSessionHandler = sessionHttp.NewCaseSessionHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["caseSessionHandler"]; exists {
		return nil, storedErr
	}
	return c.caseSessionHandler, nil
}

func (c *Container) initCredentialRepository() (credentialUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() credentialUseCase.CredentialRepository {
			return credentialRepository.NewPostgreSQLCredentialRepository(db)
		},
		func() credentialUseCase.CredentialRepository {
			return credentialRepository.NewMySQLCredentialRepository(db)
		},
	)
}

func (c *Container) initCredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	repo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}
	signer, err := c.TokenSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get token signer for credential use case: %w", err)
	}

	baseUseCase := credentialUseCase.NewCredentialUseCase(
		credentialUseCase.Config{
			TTL:        c.config.CredentialTTL,
			MailDomain: c.config.CredentialMailDomain,
		},
		repo,
		c.SecretService(),
		c.TokenService(),
		signer,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}
	return credentialUseCase.NewCredentialUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initSessionStore() (sessionUseCase.SessionStore, error) {
	switch c.config.SessionStore {
	case "redis":
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for session store: %w", err)
		}
		return sessionRepository.NewRedisSessionStore(client, sessionKeyPrefix), nil
	case "memory", "":
		return sessionRepository.NewMemorySessionStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", c.config.SessionStore)
	}
}

func (c *Container) initSessionUseCase() (sessionUseCase.SessionUseCase, error) {
	vault, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for session use case: %w", err)
	}
	credentials, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for session use case: %w", err)
	}
	store, err := c.SessionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get session store for session use case: %w", err)
	}

	return sessionUseCase.NewSessionUseCase(vault, credentials, c.TokenService(), store, c.config.CaseSessionTTL), nil
}
