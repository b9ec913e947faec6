package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLAssignmentRepository implements Assignment persistence for MySQL using BINARY(16) ids.
type MySQLAssignmentRepository struct {
	db *sql.DB
}

func (m *MySQLAssignmentRepository) Create(ctx context.Context, assignment *assignmentDomain.Assignment) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO case_assignments (id, case_id, anon_actor_id, assigned_at) VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(assignment.ID),
		database.UUIDBytes(assignment.CaseID),
		assignment.Pseudonym,
		assignment.AssignedAt,
	)
	if err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (m *MySQLAssignmentRepository) GetByCase(
	ctx context.Context,
	caseID uuid.UUID,
) (*assignmentDomain.Assignment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, case_id, anon_actor_id, assigned_at FROM case_assignments WHERE case_id = ?`

	return scanAssignment(querier.QueryRowContext(ctx, query, database.UUIDBytes(caseID)))
}

func (m *MySQLAssignmentRepository) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM case_assignments WHERE id = ?`,
		database.UUIDBytes(assignmentID),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete assignment")
	}
	return expectOneRow(result)
}

// NewMySQLAssignmentRepository creates a new MySQL assignment repository.
func NewMySQLAssignmentRepository(db *sql.DB) *MySQLAssignmentRepository {
	return &MySQLAssignmentRepository{db: db}
}
