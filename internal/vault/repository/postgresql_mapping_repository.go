// Package repository implements identity vault persistence on the dedicated vault connection.
// Every repository here must be constructed with the vault *sql.DB, never the case store one.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

const (
	mappingColumns = `anon_actor_id, user_id, case_id, created_by, created_at, last_accessed_at, access_count`

	userCaseConstraint = "uq_identity_mappings_user_case"
)

// PostgreSQLMappingRepository implements IdentityMapping persistence for PostgreSQL.
type PostgreSQLMappingRepository struct {
	db *sql.DB
}

func (p *PostgreSQLMappingRepository) Create(ctx context.Context, mapping *vaultDomain.IdentityMapping) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO identity_mappings (` + mappingColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		mapping.Pseudonym,
		mapping.UserID,
		mapping.CaseID,
		mapping.CreatedBy,
		mapping.CreatedAt,
		mapping.LastAccessedAt,
		mapping.AccessCount,
	)
	if err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (p *PostgreSQLMappingRepository) GetByPseudonym(
	ctx context.Context,
	pseudonym string,
) (*vaultDomain.IdentityMapping, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + mappingColumns + ` FROM identity_mappings WHERE anon_actor_id = $1`

	return scanMapping(querier.QueryRowContext(ctx, query, pseudonym))
}

func (p *PostgreSQLMappingRepository) GetByUserAndCase(
	ctx context.Context,
	userID, caseID uuid.UUID,
) (*vaultDomain.IdentityMapping, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + mappingColumns + ` FROM identity_mappings WHERE user_id = $1 AND case_id = $2`

	return scanMapping(querier.QueryRowContext(ctx, query, userID, caseID))
}

func (p *PostgreSQLMappingRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]vaultDomain.CasePseudonym, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT anon_actor_id, case_id FROM identity_mappings
			  WHERE user_id = $1 ORDER BY created_at, anon_actor_id`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identity mappings")
	}
	return scanCasePseudonyms(rows)
}

// RecordAccess bumps the access counter of a mapping and stamps the access time.
func (p *PostgreSQLMappingRepository) RecordAccess(
	ctx context.Context,
	pseudonym string,
	accessedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE identity_mappings
			  SET access_count = access_count + 1, last_accessed_at = $1
			  WHERE anon_actor_id = $2`

	result, err := querier.ExecContext(ctx, query, accessedAt, pseudonym)
	if err != nil {
		return apperrors.Wrap(err, "failed to record identity access")
	}
	return expectOneRow(result, vaultDomain.ErrMappingNotFound)
}

func (p *PostgreSQLMappingRepository) Delete(ctx context.Context, pseudonym string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM identity_mappings WHERE anon_actor_id = $1`

	result, err := querier.ExecContext(ctx, query, pseudonym)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete identity mapping")
	}
	return expectOneRow(result, vaultDomain.ErrMappingNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMapping(row rowScanner) (*vaultDomain.IdentityMapping, error) {
	var mapping vaultDomain.IdentityMapping
	err := row.Scan(
		&mapping.Pseudonym,
		&mapping.UserID,
		&mapping.CaseID,
		&mapping.CreatedBy,
		&mapping.CreatedAt,
		&mapping.LastAccessedAt,
		&mapping.AccessCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrMappingNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity mapping")
	}
	return &mapping, nil
}

func scanCasePseudonyms(rows *sql.Rows) ([]vaultDomain.CasePseudonym, error) {
	defer func() {
		_ = rows.Close()
	}()

	pseudonyms := make([]vaultDomain.CasePseudonym, 0)
	for rows.Next() {
		var cp vaultDomain.CasePseudonym
		if err := rows.Scan(&cp.Pseudonym, &cp.CaseID); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan identity mapping")
		}
		pseudonyms = append(pseudonyms, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate identity mappings")
	}
	return pseudonyms, nil
}

// mapInsertError tells a lost (user, case) race apart from a pseudonym collision. Both are
// unique violations; only the constraint name differs.
func mapInsertError(err error) error {
	if !database.IsUniqueViolation(err) {
		return apperrors.Wrap(err, "failed to create identity mapping")
	}
	if database.ConstraintName(err) == userCaseConstraint {
		return vaultDomain.ErrMappingExists
	}
	return vaultDomain.ErrPseudonymCollision
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

// NewPostgreSQLMappingRepository creates a new PostgreSQL IdentityMapping repository.
func NewPostgreSQLMappingRepository(db *sql.DB) *PostgreSQLMappingRepository {
	return &PostgreSQLMappingRepository{db: db}
}
