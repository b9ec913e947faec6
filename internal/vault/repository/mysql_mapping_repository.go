package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

// MySQLMappingRepository implements IdentityMapping persistence for MySQL using BINARY(16) ids.
type MySQLMappingRepository struct {
	db *sql.DB
}

func (m *MySQLMappingRepository) Create(ctx context.Context, mapping *vaultDomain.IdentityMapping) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO identity_mappings (` + mappingColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		mapping.Pseudonym,
		database.UUIDBytes(mapping.UserID),
		database.UUIDBytes(mapping.CaseID),
		database.UUIDBytes(mapping.CreatedBy),
		mapping.CreatedAt,
		mapping.LastAccessedAt,
		mapping.AccessCount,
	)
	if err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (m *MySQLMappingRepository) GetByPseudonym(
	ctx context.Context,
	pseudonym string,
) (*vaultDomain.IdentityMapping, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mappingColumns + ` FROM identity_mappings WHERE anon_actor_id = ?`

	return scanMapping(querier.QueryRowContext(ctx, query, pseudonym))
}

func (m *MySQLMappingRepository) GetByUserAndCase(
	ctx context.Context,
	userID, caseID uuid.UUID,
) (*vaultDomain.IdentityMapping, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mappingColumns + ` FROM identity_mappings WHERE user_id = ? AND case_id = ?`

	return scanMapping(querier.QueryRowContext(
		ctx,
		query,
		database.UUIDBytes(userID),
		database.UUIDBytes(caseID),
	))
}

func (m *MySQLMappingRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]vaultDomain.CasePseudonym, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT anon_actor_id, case_id FROM identity_mappings
			  WHERE user_id = ? ORDER BY created_at, anon_actor_id`

	rows, err := querier.QueryContext(ctx, query, database.UUIDBytes(userID))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identity mappings")
	}
	return scanCasePseudonyms(rows)
}

// RecordAccess always changes the row because access_count increments, so the affected-rows
// check is reliable on MySQL too.
func (m *MySQLMappingRepository) RecordAccess(
	ctx context.Context,
	pseudonym string,
	accessedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE identity_mappings
			  SET access_count = access_count + 1, last_accessed_at = ?
			  WHERE anon_actor_id = ?`

	result, err := querier.ExecContext(ctx, query, accessedAt, pseudonym)
	if err != nil {
		return apperrors.Wrap(err, "failed to record identity access")
	}
	return expectOneRow(result, vaultDomain.ErrMappingNotFound)
}

func (m *MySQLMappingRepository) Delete(ctx context.Context, pseudonym string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM identity_mappings WHERE anon_actor_id = ?`

	result, err := querier.ExecContext(ctx, query, pseudonym)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete identity mapping")
	}
	return expectOneRow(result, vaultDomain.ErrMappingNotFound)
}

// NewMySQLMappingRepository creates a new MySQL IdentityMapping repository.
func NewMySQLMappingRepository(db *sql.DB) *MySQLMappingRepository {
	return &MySQLMappingRepository{db: db}
}
