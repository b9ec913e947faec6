package app

import (
	"fmt"

	vaultHttp "github.com/caseguard/caseguard/internal/vault/http"
	vaultRepository "github.com/caseguard/caseguard/internal/vault/repository"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

// MappingRepository returns the identity mapping repository on the vault connection.
func (c *Container) MappingRepository() (vaultUseCase.MappingRepository, error) {
	var err error
	c.mappingRepositoryInit.Do(func() {
		c.mappingRepository, err = c.initMappingRepository()
		if err != nil {
			c.initErrors["mappingRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mappingRepository"]; exists {
		return nil, storedErr
	}
	return c.mappingRepository, nil
}

// AccessLogRepository returns the vault access-log repository on the vault connection.
func (c *Container) AccessLogRepository() (vaultUseCase.AccessLogRepository, error) {
	var err error
	c.accessLogRepositoryInit.Do(func() {
		c.accessLogRepository, err = c.initAccessLogRepository()
		if err != nil {
			c.initErrors["accessLogRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessLogRepository"]; exists {
		return nil, storedErr
	}
	return c.accessLogRepository, nil
}

// VaultUseCase returns the identity vault use case.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// VaultHandler returns the HTTP handler for vault operations.
func (c *Container) VaultHandler() (*vaultHttp.VaultHandler, error) {
	var err error
	c.vaultHandlerInit.Do(func() {
		var useCase vaultUseCase.VaultUseCase
		useCase, err = c.VaultUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get vault use case for vault handler: %w", err)
			c.initErrors["vaultHandler"] = err
			return
		}
		c.vaultHandler = vaultHttp.NewVaultHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultHandler"]; exists {
		return nil, storedErr
	}
	return c.vaultHandler, nil
}

func (c *Container) initMappingRepository() (vaultUseCase.MappingRepository, error) {
	db, err := c.VaultDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault database for mapping repository: %w", err)
	}

	return repositoryFor(c.config.VaultDBDriver,
		func() vaultUseCase.MappingRepository { return vaultRepository.NewPostgreSQLMappingRepository(db) },
		func() vaultUseCase.MappingRepository { return vaultRepository.NewMySQLMappingRepository(db) },
	)
}

func (c *Container) initAccessLogRepository() (vaultUseCase.AccessLogRepository, error) {
	db, err := c.VaultDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault database for access log repository: %w", err)
	}

	return repositoryFor(c.config.VaultDBDriver,
		func() vaultUseCase.AccessLogRepository { return vaultRepository.NewPostgreSQLAccessLogRepository(db) },
		func() vaultUseCase.AccessLogRepository { return vaultRepository.NewMySQLAccessLogRepository(db) },
	)
}

func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	txManager, err := c.VaultTxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault tx manager for vault use case: %w", err)
	}
	mappingRepo, err := c.MappingRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping repository for vault use case: %w", err)
	}
	accessLogRepo, err := c.AccessLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log repository for vault use case: %w", err)
	}
	signer, err := c.AccessLogSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log signer for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(txManager, mappingRepo, accessLogRepo, signer)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
	}
	return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
