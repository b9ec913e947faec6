package app

import (
	"fmt"

	actorHttp "github.com/caseguard/caseguard/internal/actor/http"
	actorRepository "github.com/caseguard/caseguard/internal/actor/repository"
	actorService "github.com/caseguard/caseguard/internal/actor/service"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
)

// SecretService returns the secret service used for actor secrets and credential passwords.
func (c *Container) SecretService() actorService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = actorService.NewSecretService()
	})
	return c.secretService
}

// TokenService returns the token service for bearer and session tokens.
func (c *Container) TokenService() actorService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = actorService.NewTokenService()
	})
	return c.tokenService
}

// ActorRepository returns the actor repository based on database driver.
func (c *Container) ActorRepository() (actorUseCase.ActorRepository, error) {
	var err error
	c.actorRepositoryInit.Do(func() {
		c.actorRepository, err = c.initActorRepository()
		if err != nil {
			c.initErrors["actorRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actorRepository"]; exists {
		return nil, storedErr
	}
	return c.actorRepository, nil
}

// TokenRepository returns the bearer token repository based on database driver.
func (c *Container) TokenRepository() (actorUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepository"]; exists {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// ActorUseCase returns the actor use case.
func (c *Container) ActorUseCase() (actorUseCase.ActorUseCase, error) {
	var err error
	c.actorUseCaseInit.Do(func() {
		c.actorUseCase, err = c.initActorUseCase()
		if err != nil {
			c.initErrors["actorUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actorUseCase"]; exists {
		return nil, storedErr
	}
	return c.actorUseCase, nil
}

// TokenUseCase returns the token use case.
func (c *Container) TokenUseCase() (actorUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// ActorHandler returns the HTTP handler for actor management operations.
func (c *Container) ActorHandler() (*actorHttp.ActorHandler, error) {
	var err error
	c.actorHandlerInit.Do(func() {
		var useCase actorUseCase.ActorUseCase
		useCase, err = c.ActorUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get actor use case for actor handler: %w", err)
			c.initErrors["actorHandler"] = err
			return
		}
		c.actorHandler = actorHttp.NewActorHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actorHandler"]; exists {
		return nil, storedErr
	}
	return c.actorHandler, nil
}

// TokenHandler returns the HTTP handler for token operations.
func (c *Container) TokenHandler() (*actorHttp.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		var useCase actorUseCase.TokenUseCase
		useCase, err = c.TokenUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get token use case for token handler: %w", err)
			c.initErrors["tokenHandler"] = err
			return
		}
		c.tokenHandler = actorHttp.NewTokenHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initActorRepository creates the actor repository based on the database driver.
func (c *Container) initActorRepository() (actorUseCase.ActorRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for actor repository: %w", err)
	}

	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for actor repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() actorUseCase.ActorRepository {
			return actorRepository.NewPostgreSQLActorRepository(db, fieldCipher)
		},
		func() actorUseCase.ActorRepository { return actorRepository.NewMySQLActorRepository(db, fieldCipher) },
	)
}

// initTokenRepository creates the token repository based on the database driver.
func (c *Container) initTokenRepository() (actorUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() actorUseCase.TokenRepository { return actorRepository.NewPostgreSQLTokenRepository(db) },
		func() actorUseCase.TokenRepository { return actorRepository.NewMySQLTokenRepository(db) },
	)
}

// initActorUseCase creates the actor use case with all its dependencies.
func (c *Container) initActorUseCase() (actorUseCase.ActorUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for actor use case: %w", err)
	}

	actorRepo, err := c.ActorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get actor repository for actor use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for actor use case: %w", err)
	}

	baseUseCase := actorUseCase.NewActorUseCase(txManager, actorRepo, tokenRepo, c.SecretService())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for actor use case: %w", err)
	}
	return actorUseCase.NewActorUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (actorUseCase.TokenUseCase, error) {
	actorRepo, err := c.ActorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get actor repository for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	baseUseCase := actorUseCase.NewTokenUseCase(
		c.config,
		actorRepo,
		tokenRepo,
		c.SecretService(),
		c.TokenService(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}
	return actorUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
