package app

import (
	"fmt"

	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	assignmentHttp "github.com/caseguard/caseguard/internal/assignment/http"
	assignmentRepository "github.com/caseguard/caseguard/internal/assignment/repository"
	assignmentUseCase "github.com/caseguard/caseguard/internal/assignment/usecase"
	casesHttp "github.com/caseguard/caseguard/internal/cases/http"
	casesRepository "github.com/caseguard/caseguard/internal/cases/repository"
	casesUseCase "github.com/caseguard/caseguard/internal/cases/usecase"
)

// CaseRepository returns the case repository based on database driver.
func (c *Container) CaseRepository() (casesUseCase.CaseRepository, error) {
	var err error
	c.caseRepositoryInit.Do(func() {
		c.caseRepository, err = c.initCaseRepository()
		if err != nil {
			c.initErrors["caseRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["caseRepository"]; exists {
		return nil, storedErr
	}
	return c.caseRepository, nil
}

// AssignmentRepository returns the case assignment repository based on database driver.
func (c *Container) AssignmentRepository() (assignmentUseCase.AssignmentRepository, error) {
	var err error
	c.assignmentRepositoryInit.Do(func() {
		c.assignmentRepository, err = c.initAssignmentRepository()
		if err != nil {
			c.initErrors["assignmentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["assignmentRepository"]; exists {
		return nil, storedErr
	}
	return c.assignmentRepository, nil
}

// CaseUseCase returns the case use case.
func (c *Container) CaseUseCase() (casesUseCase.CaseUseCase, error) {
	var err error
	c.caseUseCaseInit.Do(func() {
		var caseRepo casesUseCase.CaseRepository
		caseRepo, err = c.CaseRepository()
		if err != nil {
			err = fmt.Errorf("failed to get case repository for case use case: %w", err)
			c.initErrors["caseUseCase"] = err
			return
		}
		var evaluator abacUseCase.Evaluator
		evaluator, err = c.Evaluator()
		if err != nil {
			err = fmt.Errorf("failed to get evaluator for case use case: %w", err)
			c.initErrors["caseUseCase"] = err
			return
		}
		c.caseUseCase = casesUseCase.NewCaseUseCase(caseRepo, evaluator)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["caseUseCase"]; exists {
		return nil, storedErr
	}
	return c.caseUseCase, nil
}

// AssignmentUseCase returns the case assignment use case.
func (c *Container) AssignmentUseCase() (assignmentUseCase.AssignmentUseCase, error) {
	var err error
	c.assignmentUseCaseInit.Do(func() {
		c.assignmentUseCase, err = c.initAssignmentUseCase()
		if err != nil {
			c.initErrors["assignmentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["assignmentUseCase"]; exists {
		return nil, storedErr
	}
	return c.assignmentUseCase, nil
}

// CaseHandler returns the HTTP handler for case operations.
func (c *Container) CaseHandler() (*casesHttp.CaseHandler, error) {
	var err error
	c.caseHandlerInit.Do(func() {
		var useCase casesUseCase.CaseUseCase
		useCase, err = c.CaseUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get case use case for case handler: %w", err)
			c.initErrors["caseHandler"] = err
			return
		}
		c.caseHandler = casesHttp.NewCaseHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["caseHandler"]; exists {
		return nil, storedErr
	}
	return c.caseHandler, nil
}

// AssignmentHandler returns the HTTP handler for case assignment.
func (c *Container) AssignmentHandler() (*assignmentHttp.AssignmentHandler, error) {
	var err error
	c.assignmentHandlerInit.Do(func() {
		var useCase assignmentUseCase.AssignmentUseCase
		useCase, err = c.AssignmentUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get assignment use case for assignment handler: %w", err)
			c.initErrors["assignmentHandler"] = err
			return
		}
		c.assignmentHandler = assignmentHttp.NewAssignmentHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["assignmentHandler"]; exists {
		return nil, storedErr
	}
	return c.assignmentHandler, nil
}

func (c *Container) initCaseRepository() (casesUseCase.CaseRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for case repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() casesUseCase.CaseRepository { return casesRepository.NewPostgreSQLCaseRepository(db) },
		func() casesUseCase.CaseRepository { return casesRepository.NewMySQLCaseRepository(db) },
	)
}

func (c *Container) initAssignmentRepository() (assignmentUseCase.AssignmentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for assignment repository: %w", err)
	}

	return repositoryFor(c.config.DBDriver,
		func() assignmentUseCase.AssignmentRepository {
			return assignmentRepository.NewPostgreSQLAssignmentRepository(db)
		},
		func() assignmentUseCase.AssignmentRepository {
			return assignmentRepository.NewMySQLAssignmentRepository(db)
		},
	)
}

// initAssignmentUseCase wires the assignment saga. Its transaction manager is the case
// store's; the vault steps run in their own transactions through the vault use case.
func (c *Container) initAssignmentUseCase() (assignmentUseCase.AssignmentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for assignment use case: %w", err)
	}
	assignmentRepo, err := c.AssignmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment repository for assignment use case: %w", err)
	}
	caseRepo, err := c.CaseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get case repository for assignment use case: %w", err)
	}
	actors, err := c.ActorUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get actor use case for assignment use case: %w", err)
	}
	evaluator, err := c.Evaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluator for assignment use case: %w", err)
	}
	vault, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for assignment use case: %w", err)
	}
	credentials, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for assignment use case: %w", err)
	}
	notifier, err := c.Notifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get notifier for assignment use case: %w", err)
	}

	baseUseCase := assignmentUseCase.NewAssignmentUseCase(
		txManager,
		assignmentRepo,
		caseRepo,
		actors,
		evaluator,
		vault,
		credentials,
		notifier,
		c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for assignment use case: %w", err)
	}
	return assignmentUseCase.NewAssignmentUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
