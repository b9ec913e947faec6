// Package repository implements case assignment persistence in the case store.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

const uniqueCaseConstraint = "uq_case_assignments_case_id"

// PostgreSQLAssignmentRepository implements Assignment persistence for PostgreSQL.
type PostgreSQLAssignmentRepository struct {
	db *sql.DB
}

func (p *PostgreSQLAssignmentRepository) Create(ctx context.Context, assignment *assignmentDomain.Assignment) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO case_assignments (id, case_id, anon_actor_id, assigned_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		assignment.ID,
		assignment.CaseID,
		assignment.Pseudonym,
		assignment.AssignedAt,
	)
	if err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (p *PostgreSQLAssignmentRepository) GetByCase(
	ctx context.Context,
	caseID uuid.UUID,
) (*assignmentDomain.Assignment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, case_id, anon_actor_id, assigned_at FROM case_assignments WHERE case_id = $1`

	return scanAssignment(querier.QueryRowContext(ctx, query, caseID))
}

func (p *PostgreSQLAssignmentRepository) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM case_assignments WHERE id = $1`, assignmentID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete assignment")
	}
	return expectOneRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*assignmentDomain.Assignment, error) {
	var assignment assignmentDomain.Assignment
	err := row.Scan(&assignment.ID, &assignment.CaseID, &assignment.Pseudonym, &assignment.AssignedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, assignmentDomain.ErrAssignmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get assignment")
	}
	return &assignment, nil
}

func expectOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return assignmentDomain.ErrAssignmentNotFound
	}
	return nil
}

// mapInsertError turns the case_id unique violation into ErrAlreadyAssigned. A violation
// whose constraint cannot be named is treated the same way.
func mapInsertError(err error) error {
	if database.IsUniqueViolation(err) {
		name := database.ConstraintName(err)
		if name == "" || name == uniqueCaseConstraint {
			return assignmentDomain.ErrAlreadyAssigned
		}
	}
	return apperrors.Wrap(err, "failed to create assignment")
}

// NewPostgreSQLAssignmentRepository creates a new PostgreSQL assignment repository.
func NewPostgreSQLAssignmentRepository(db *sql.DB) *PostgreSQLAssignmentRepository {
	return &PostgreSQLAssignmentRepository{db: db}
}
