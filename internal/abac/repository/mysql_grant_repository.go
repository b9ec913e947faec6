package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLGrantRepository implements attribute Grant persistence for MySQL using BINARY(16) ids.
type MySQLGrantRepository struct {
	db *sql.DB
}

// Upsert keeps the original row id when the actor already holds the attribute and reads it
// back into grant.
func (m *MySQLGrantRepository) Upsert(ctx context.Context, grant *abacDomain.Grant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO abac_user_attributes (id, actor_id, attribute_id, granted_by, granted_at, expires_at, reason)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				  granted_by = VALUES(granted_by),
				  granted_at = VALUES(granted_at),
				  expires_at = VALUES(expires_at),
				  reason = VALUES(reason)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(grant.ID),
		database.UUIDBytes(grant.ActorID),
		database.UUIDBytes(grant.AttributeID),
		database.UUIDBytes(grant.GrantedBy),
		grant.GrantedAt,
		grant.ExpiresAt,
		grant.Reason,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return abacDomain.ErrGrantTargetNotFound
		}
		return apperrors.Wrap(err, "failed to upsert attribute grant")
	}

	err = querier.QueryRowContext(
		ctx,
		`SELECT id FROM abac_user_attributes WHERE actor_id = ? AND attribute_id = ?`,
		database.UUIDBytes(grant.ActorID),
		database.UUIDBytes(grant.AttributeID),
	).Scan(&grant.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to read attribute grant id")
	}
	return nil
}

func (m *MySQLGrantRepository) Delete(ctx context.Context, actorID, attributeID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_user_attributes WHERE actor_id = ? AND attribute_id = ?`,
		database.UUIDBytes(actorID),
		database.UUIDBytes(attributeID),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete attribute grant")
	}
	return expectOneRow(result, abacDomain.ErrGrantNotFound)
}

func (m *MySQLGrantRepository) ListHeld(ctx context.Context, actorID uuid.UUID) ([]abacDomain.HeldAttribute, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + heldColumns + `
			  FROM abac_user_attributes g
			  JOIN abac_attributes a ON a.id = g.attribute_id
			  WHERE g.actor_id = ?
			  ORDER BY a.name`

	rows, err := querier.QueryContext(ctx, query, database.UUIDBytes(actorID))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list attribute grants")
	}
	return scanHeld(rows)
}

func (m *MySQLGrantRepository) CountByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM abac_user_attributes WHERE attribute_id = ?`,
		database.UUIDBytes(attributeID),
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count attribute grants")
	}
	return count, nil
}

func (m *MySQLGrantRepository) DeleteByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_user_attributes WHERE attribute_id = ?`,
		database.UUIDBytes(attributeID),
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete attribute grants")
	}
	return result.RowsAffected()
}

// NewMySQLGrantRepository creates a new MySQL Grant repository.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}
