package app

import (
	"fmt"

	abacHttp "github.com/caseguard/caseguard/internal/abac/http"
	abacRepository "github.com/caseguard/caseguard/internal/abac/repository"
	abacSeed "github.com/caseguard/caseguard/internal/abac/seed"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
)

// AttributeRepository returns the security attribute repository based on database driver.
func (c *Container) AttributeRepository() (abacUseCase.AttributeRepository, error) {
	var err error
	c.attributeRepositoryInit.Do(func() {
		c.attributeRepository, err = c.initAttributeRepository()
		if err != nil {
			c.initErrors["attributeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["attributeRepository"]; exists {
		return nil, storedErr
	}
	return c.attributeRepository, nil
}

// PolicyRepository returns the security policy repository based on database driver.
func (c *Container) PolicyRepository() (abacUseCase.PolicyRepository, error) {
	var err error
	c.policyRepositoryInit.Do(func() {
		c.policyRepository, err = c.initPolicyRepository()
		if err != nil {
			c.initErrors["policyRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["policyRepository"]; exists {
		return nil, storedErr
	}
	return c.policyRepository, nil
}

// GrantRepository returns the attribute grant repository based on database driver.
func (c *Container) GrantRepository() (abacUseCase.GrantRepository, error) {
	var err error
	c.grantRepositoryInit.Do(func() {
		c.grantRepository, err = c.initGrantRepository()
		if err != nil {
			c.initErrors["grantRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantRepository"]; exists {
		return nil, storedErr
	}
	return c.grantRepository, nil
}

// AttributeUseCase returns the security attribute use case.
func (c *Container) AttributeUseCase() (abacUseCase.AttributeUseCase, error) {
	var err error
	c.attributeUseCaseInit.Do(func() {
		c.attributeUseCase, err = c.initAttributeUseCase()
		if err != nil {
			c.initErrors["attributeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["attributeUseCase"]; exists {
		return nil, storedErr
	}
	return c.attributeUseCase, nil
}

// PolicyUseCase returns the security policy use case.
func (c *Container) PolicyUseCase() (abacUseCase.PolicyUseCase, error) {
	var err error
	c.policyUseCaseInit.Do(func() {
		c.policyUseCase, err = c.initPolicyUseCase()
		if err != nil {
			c.initErrors["policyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["policyUseCase"]; exists {
		return nil, storedErr
	}
	return c.policyUseCase, nil
}

// GrantUseCase returns the attribute grant use case.
func (c *Container) GrantUseCase() (abacUseCase.GrantUseCase, error) {
	var err error
	c.grantUseCaseInit.Do(func() {
		c.grantUseCase, err = c.initGrantUseCase()
		if err != nil {
			c.initErrors["grantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantUseCase"]; exists {
		return nil, storedErr
	}
	return c.grantUseCase, nil
}

// Evaluator returns the policy decision point shared by the authorization middleware, the
// dry-run endpoint and case assignment.
func (c *Container) Evaluator() (abacUseCase.Evaluator, error) {
	var err error
	c.evaluatorInit.Do(func() {
		c.evaluator, err = c.initEvaluator()
		if err != nil {
			c.initErrors["evaluator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["evaluator"]; exists {
		return nil, storedErr
	}
	return c.evaluator, nil
}

// Seeder returns the ABAC catalog seeder.
func (c *Container) Seeder() (*abacSeed.Seeder, error) {
	var err error
	c.seederInit.Do(func() {
		c.seeder, err = c.initSeeder()
		if err != nil {
			c.initErrors["seeder"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["seeder"]; exists {
		return nil, storedErr
	}
	return c.seeder, nil
}

// AttributeHandler returns the HTTP handler for security attribute operations.
func (c *Container) AttributeHandler() (*abacHttp.AttributeHandler, error) {
	var err error
	c.attributeHandlerInit.Do(func() {
		var useCase abacUseCase.AttributeUseCase
		useCase, err = c.AttributeUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get attribute use case for attribute handler: %w", err)
			c.initErrors["attributeHandler"] = err
			return
		}
		c.attributeHandler = abacHttp.NewAttributeHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["attributeHandler"]; exists {
		return nil, storedErr
	}
	return c.attributeHandler, nil
}

// PolicyHandler returns the HTTP handler for security policy operations.
func (c *Container) PolicyHandler() (*abacHttp.PolicyHandler, error) {
	var err error
	c.policyHandlerInit.Do(func() {
		var useCase abacUseCase.PolicyUseCase
		useCase, err = c.PolicyUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get policy use case for policy handler: %w", err)
			c.initErrors["policyHandler"] = err
			return
		}
		c.policyHandler = abacHttp.NewPolicyHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["policyHandler"]; exists {
		return nil, storedErr
	}
	return c.policyHandler, nil
}

// GrantHandler returns the HTTP handler for attribute grant operations.
func (c *Container) GrantHandler() (*abacHttp.GrantHandler, error) {
	var err error
	c.grantHandlerInit.Do(func() {
		var useCase abacUseCase.GrantUseCase
		useCase, err = c.GrantUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get grant use case for grant handler: %w", err)
			c.initErrors["grantHandler"] = err
			return
		}
		c.grantHandler = abacHttp.NewGrantHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantHandler"]; exists {
		return nil, storedErr
	}
	return c.grantHandler, nil
}

// EvaluateHandler returns the HTTP handler for policy dry runs.
func (c *Container) EvaluateHandler() (*abacHttp.EvaluateHandler, error) {
	var err error
	c.evaluateHandlerInit.Do(func() {
		var evaluator abacUseCase.Evaluator
		evaluator, err = c.Evaluator()
		if err != nil {
			err = fmt.Errorf("failed to get evaluator for evaluate handler: %w", err)
			c.initErrors["evaluateHandler"] = err
			return
		}
		c.evaluateHandler = abacHttp.NewEvaluateHandler(evaluator, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["evaluateHandler"]; exists {
		return nil, storedErr
	}
	return c.evaluateHandler, nil
}

func (c *Container) initAttributeRepository() (abacUseCase.AttributeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for attribute repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() abacUseCase.AttributeRepository { return abacRepository.NewPostgreSQLAttributeRepository(db) },
		func() abacUseCase.AttributeRepository { return abacRepository.NewMySQLAttributeRepository(db) },
	)
}

func (c *Container) initPolicyRepository() (abacUseCase.PolicyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for policy repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() abacUseCase.PolicyRepository { return abacRepository.NewPostgreSQLPolicyRepository(db) },
		func() abacUseCase.PolicyRepository { return abacRepository.NewMySQLPolicyRepository(db) },
	)
}

func (c *Container) initGrantRepository() (abacUseCase.GrantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for grant repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() abacUseCase.GrantRepository { return abacRepository.NewPostgreSQLGrantRepository(db) },
		func() abacUseCase.GrantRepository { return abacRepository.NewMySQLGrantRepository(db) },
	)
}

func (c *Container) initAttributeUseCase() (abacUseCase.AttributeUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for attribute use case: %w", err)
	}
	attributeRepo, err := c.AttributeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get attribute repository for attribute use case: %w", err)
	}
	policyRepo, err := c.PolicyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy repository for attribute use case: %w", err)
	}
	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for attribute use case: %w", err)
	}

	baseUseCase := abacUseCase.NewAttributeUseCase(txManager, attributeRepo, policyRepo, grantRepo, c.Logger())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for attribute use case: %w", err)
	}
	return abacUseCase.NewAttributeUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initPolicyUseCase() (abacUseCase.PolicyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for policy use case: %w", err)
	}
	policyRepo, err := c.PolicyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy repository for policy use case: %w", err)
	}
	attributeRepo, err := c.AttributeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get attribute repository for policy use case: %w", err)
	}

	baseUseCase := abacUseCase.NewPolicyUseCase(txManager, policyRepo, attributeRepo)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for policy use case: %w", err)
	}
	return abacUseCase.NewPolicyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initGrantUseCase() (abacUseCase.GrantUseCase, error) {
	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for grant use case: %w", err)
	}
	attributeRepo, err := c.AttributeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get attribute repository for grant use case: %w", err)
	}

	return abacUseCase.NewGrantUseCase(grantRepo, attributeRepo), nil
}

func (c *Container) initEvaluator() (abacUseCase.Evaluator, error) {
	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for evaluator: %w", err)
	}
	policyRepo, err := c.PolicyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy repository for evaluator: %w", err)
	}

	baseEvaluator := abacUseCase.NewEvaluator(grantRepo, policyRepo, c.config.AuthzTimeout, c.Logger())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for evaluator: %w", err)
	}
	return abacUseCase.NewEvaluatorWithMetrics(baseEvaluator, businessMetrics), nil
}

func (c *Container) initSeeder() (*abacSeed.Seeder, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for seeder: %w", err)
	}
	attributeRepo, err := c.AttributeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get attribute repository for seeder: %w", err)
	}
	policyRepo, err := c.PolicyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy repository for seeder: %w", err)
	}
	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for seeder: %w", err)
	}
	actorRepo, err := c.ActorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get actor repository for seeder: %w", err)
	}

	return abacSeed.NewSeeder(txManager, attributeRepo, policyRepo, grantRepo, actorRepo, c.Logger()), nil
}
