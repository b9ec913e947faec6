// Package repository implements case persistence in the case store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

const caseColumns = `id, number, title, classification, status, created_at, updated_at`

// PostgreSQLCaseRepository implements Case persistence for PostgreSQL.
type PostgreSQLCaseRepository struct {
	db *sql.DB
}

func (p *PostgreSQLCaseRepository) Create(ctx context.Context, c *casesDomain.Case) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO cases (` + caseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		c.ID,
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

func (p *PostgreSQLCaseRepository) Get(ctx context.Context, caseID uuid.UUID) (*casesDomain.Case, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`

	return scanCase(querier.QueryRowContext(ctx, query, caseID))
}

func (p *PostgreSQLCaseRepository) UpdateStatus(
	ctx context.Context,
	caseID uuid.UUID,
	status casesDomain.Status,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cases SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, status, updatedAt, caseID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update case status")
	}
	return expectOneRow(result, casesDomain.ErrCaseNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*casesDomain.Case, error) {
	var c casesDomain.Case
	err := row.Scan(
		&c.ID,
		&c.Number,
		&c.Title,
		&c.Classification,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, casesDomain.ErrCaseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get case")
	}
	return &c, nil
}

func mapInsertError(err error) error {
	if database.IsUniqueViolation(err) {
		return casesDomain.ErrCaseNumberTaken
	}
	return apperrors.Wrap(err, "failed to create case")
}

func expectOneRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// NewPostgreSQLCaseRepository creates a new PostgreSQL case repository.
func NewPostgreSQLCaseRepository(db *sql.DB) *PostgreSQLCaseRepository {
	return &PostgreSQLCaseRepository{db: db}
}
