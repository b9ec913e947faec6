package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLCaseRepository implements Case persistence for MySQL using BINARY(16) ids.
type MySQLCaseRepository struct {
	db *sql.DB
}

func (m *MySQLCaseRepository) Create(ctx context.Context, c *casesDomain.Case) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO cases (` + caseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(c.ID),
		c.Number,
		c.Title,
		c.Classification,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (m *MySQLCaseRepository) Get(ctx context.Context, caseID uuid.UUID) (*casesDomain.Case, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = ?`

	return scanCase(querier.QueryRowContext(ctx, query, database.UUIDBytes(caseID)))
}

func (m *MySQLCaseRepository) UpdateStatus(
	ctx context.Context,
	caseID uuid.UUID,
	status casesDomain.Status,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE cases SET status = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, status, updatedAt, database.UUIDBytes(caseID))
	if err != nil {
		return apperrors.Wrap(err, "failed to update case status")
	}
	return expectOneRow(result, casesDomain.ErrCaseNotFound)
}

// NewMySQLCaseRepository creates a new MySQL case repository.
func NewMySQLCaseRepository(db *sql.DB) *MySQLCaseRepository {
	return &MySQLCaseRepository{db: db}
}
