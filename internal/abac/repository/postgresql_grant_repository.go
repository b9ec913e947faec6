package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// PostgreSQLGrantRepository implements attribute Grant persistence for PostgreSQL.
type PostgreSQLGrantRepository struct {
	db *sql.DB
}

// Upsert keeps the original row id when the actor already holds the attribute and writes it
// back into grant.
func (p *PostgreSQLGrantRepository) Upsert(ctx context.Context, grant *abacDomain.Grant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO abac_user_attributes (id, actor_id, attribute_id, granted_by, granted_at, expires_at, reason)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (actor_id, attribute_id) DO UPDATE
			  SET granted_by = EXCLUDED.granted_by,
				  granted_at = EXCLUDED.granted_at,
				  expires_at = EXCLUDED.expires_at,
				  reason = EXCLUDED.reason
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		grant.ID,
		grant.ActorID,
		grant.AttributeID,
		grant.GrantedBy,
		grant.GrantedAt,
		grant.ExpiresAt,
		grant.Reason,
	).Scan(&grant.ID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return abacDomain.ErrGrantTargetNotFound
		}
		return apperrors.Wrap(err, "failed to upsert attribute grant")
	}
	return nil
}

func (p *PostgreSQLGrantRepository) Delete(ctx context.Context, actorID, attributeID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM abac_user_attributes WHERE actor_id = $1 AND attribute_id = $2`,
		actorID,
		attributeID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete attribute grant")
	}
	return expectOneRow(result, abacDomain.ErrGrantNotFound)
}

func (p *PostgreSQLGrantRepository) ListHeld(
	ctx context.Context,
	actorID uuid.UUID,
) ([]abacDomain.HeldAttribute, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + heldColumns + `
			  FROM abac_user_attributes g
			  JOIN abac_attributes a ON a.id = g.attribute_id
			  WHERE g.actor_id = $1
			  ORDER BY a.name`

	rows, err := querier.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list attribute grants")
	}
	return scanHeld(rows)
}

func (p *PostgreSQLGrantRepository) CountByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM abac_user_attributes WHERE attribute_id = $1`,
		attributeID,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count attribute grants")
	}
	return count, nil
}

func (p *PostgreSQLGrantRepository) DeleteByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM abac_user_attributes WHERE attribute_id = $1`, attributeID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete attribute grants")
	}
	return result.RowsAffected()
}

const heldColumns = `g.id, g.actor_id, g.attribute_id, g.granted_by, g.granted_at, g.expires_at, g.reason,
			  a.id, a.name, a.category, a.description, a.level, a.created_at, a.updated_at`

func scanHeld(rows *sql.Rows) ([]abacDomain.HeldAttribute, error) {
	defer func() {
		_ = rows.Close()
	}()

	held := make([]abacDomain.HeldAttribute, 0)
	for rows.Next() {
		var (
			h         abacDomain.HeldAttribute
			expiresAt sql.NullTime
		)
		err := rows.Scan(
			&h.Grant.ID,
			&h.Grant.ActorID,
			&h.Grant.AttributeID,
			&h.Grant.GrantedBy,
			&h.Grant.GrantedAt,
			&expiresAt,
			&h.Grant.Reason,
			&h.Attribute.ID,
			&h.Attribute.Name,
			&h.Attribute.Category,
			&h.Attribute.Description,
			&h.Attribute.Level,
			&h.Attribute.CreatedAt,
			&h.Attribute.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan attribute grant")
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			h.Grant.ExpiresAt = &t
		}
		held = append(held, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate attribute grants")
	}
	return held, nil
}

// NewPostgreSQLGrantRepository creates a new PostgreSQL Grant repository.
func NewPostgreSQLGrantRepository(db *sql.DB) *PostgreSQLGrantRepository {
	return &PostgreSQLGrantRepository{db: db}
}
