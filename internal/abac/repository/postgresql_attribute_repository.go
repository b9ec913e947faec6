// Package repository implements persistence for ABAC attributes, grants and security
// policies.
//
// PostgreSQL implementations use native UUID columns, MySQL implementations use BINARY(16).
// Every method honours a transaction carried in the context via database.GetTx.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// PostgreSQLAttributeRepository implements Attribute persistence for PostgreSQL.
type PostgreSQLAttributeRepository struct {
	db *sql.DB
}

func (p *PostgreSQLAttributeRepository) Create(ctx context.Context, attribute *abacDomain.Attribute) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO abac_attributes (id, name, category, description, level, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		attribute.ID,
		attribute.Name,
		attribute.Category,
		attribute.Description,
		attribute.Level,
		attribute.CreatedAt,
		attribute.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return abacDomain.ErrAttributeNameTaken
		}
		return apperrors.Wrap(err, "failed to create attribute")
	}
	return nil
}

func (p *PostgreSQLAttributeRepository) Update(ctx context.Context, attribute *abacDomain.Attribute) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE abac_attributes
			  SET name = $1,
				  category = $2,
				  description = $3,
				  level = $4,
				  updated_at = $5
			  WHERE id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		attribute.Name,
		attribute.Category,
		attribute.Description,
		attribute.Level,
		attribute.UpdatedAt,
		attribute.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return abacDomain.ErrAttributeNameTaken
		}
		return apperrors.Wrap(err, "failed to update attribute")
	}
	return expectOneRow(result, abacDomain.ErrAttributeNotFound)
}

func (p *PostgreSQLAttributeRepository) Delete(ctx context.Context, attributeID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM abac_attributes WHERE id = $1`, attributeID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete attribute")
	}
	return expectOneRow(result, abacDomain.ErrAttributeNotFound)
}

func (p *PostgreSQLAttributeRepository) Get(
	ctx context.Context,
	attributeID uuid.UUID,
) (*abacDomain.Attribute, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, category, description, level, created_at, updated_at
			  FROM abac_attributes WHERE id = $1`

	return scanAttribute(querier.QueryRowContext(ctx, query, attributeID))
}

func (p *PostgreSQLAttributeRepository) GetByName(ctx context.Context, name string) (*abacDomain.Attribute, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, category, description, level, created_at, updated_at
			  FROM abac_attributes WHERE name = $1`

	return scanAttribute(querier.QueryRowContext(ctx, query, name))
}

func (p *PostgreSQLAttributeRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*abacDomain.Attribute, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, category, description, level, created_at, updated_at
			  FROM abac_attributes ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list attributes")
	}
	return scanAttributes(rows)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttribute(row rowScanner) (*abacDomain.Attribute, error) {
	var attribute abacDomain.Attribute
	err := row.Scan(
		&attribute.ID,
		&attribute.Name,
		&attribute.Category,
		&attribute.Description,
		&attribute.Level,
		&attribute.CreatedAt,
		&attribute.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, abacDomain.ErrAttributeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get attribute")
	}
	return &attribute, nil
}

func scanAttributes(rows *sql.Rows) ([]*abacDomain.Attribute, error) {
	defer func() {
		_ = rows.Close()
	}()

	attributes := make([]*abacDomain.Attribute, 0)
	for rows.Next() {
		attribute, err := scanAttribute(rows)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, attribute)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate attributes")
	}
	return attributes, nil
}

// expectOneRow maps a statement that touched nothing to notFound.
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

// NewPostgreSQLAttributeRepository creates a new PostgreSQL Attribute repository.
func NewPostgreSQLAttributeRepository(db *sql.DB) *PostgreSQLAttributeRepository {
	return &PostgreSQLAttributeRepository{db: db}
}
