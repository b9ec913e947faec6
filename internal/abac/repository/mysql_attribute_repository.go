package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLAttributeRepository implements Attribute persistence for MySQL using BINARY(16) ids.
type MySQLAttributeRepository struct {
	db *sql.DB
}

func (m *MySQLAttributeRepository) Create(ctx context.Context, attribute *abacDomain.Attribute) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO abac_attributes (id, name, category, description, level, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(attribute.ID),
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

// Update relies on a prior Get for existence: MySQL reports zero affected rows when the
// values are unchanged.
func (m *MySQLAttributeRepository) Update(ctx context.Context, attribute *abacDomain.Attribute) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE abac_attributes
			  SET name = ?,
				  category = ?,
				  description = ?,
				  level = ?,
				  updated_at = ?
			  WHERE id = ?`

	_, err := querier.ExecContext(
		ctx,
		query,
		attribute.Name,
		attribute.Category,
		attribute.Description,
		attribute.Level,
		attribute.UpdatedAt,
		database.UUIDBytes(attribute.ID),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return abacDomain.ErrAttributeNameTaken
		}
		return apperrors.Wrap(err, "failed to update attribute")
	}
	return nil
}

func (m *MySQLAttributeRepository) Delete(ctx context.Context, attributeID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_attributes WHERE id = ?`,
		database.UUIDBytes(attributeID),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete attribute")
	}
	return expectOneRow(result, abacDomain.ErrAttributeNotFound)
}

func (m *MySQLAttributeRepository) Get(ctx context.Context, attributeID uuid.UUID) (*abacDomain.Attribute, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, category, description, level, created_at, updated_at
			  FROM abac_attributes WHERE id = ?`

	return scanAttribute(querier.QueryRowContext(ctx, query, database.UUIDBytes(attributeID)))
}

func (m *MySQLAttributeRepository) GetByName(ctx context.Context, name string) (*abacDomain.Attribute, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, category, description, level, created_at, updated_at
			  FROM abac_attributes WHERE name = ?`

	return scanAttribute(querier.QueryRowContext(ctx, query, name))
}

func (m *MySQLAttributeRepository) List(ctx context.Context, offset, limit int) ([]*abacDomain.Attribute, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, category, description, level, created_at, updated_at
			  FROM abac_attributes ORDER BY name LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list attributes")
	}
	return scanAttributes(rows)
}

// NewMySQLAttributeRepository creates a new MySQL Attribute repository.
func NewMySQLAttributeRepository(db *sql.DB) *MySQLAttributeRepository {
	return &MySQLAttributeRepository{db: db}
}
