package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLCredentialRepository implements EphemeralCredential persistence for MySQL using BINARY(16) ids.
type MySQLCredentialRepository struct {
	db *sql.DB
}

func (m *MySQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialDomain.EphemeralCredential,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO ephemeral_credentials (` + credentialColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(credential.ID),
		database.UUIDBytes(credential.CaseID),
		credential.Pseudonym,
		credential.TempAddress,
		credential.TempPasswordHash,
		credential.AccessToken,
		credential.AccessTokenHash,
		credential.ExpiresAt,
		credential.UsedAt,
		credential.CreatedAt,
	)
	if err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (m *MySQLCredentialRepository) GetByAccessTokenHash(
	ctx context.Context,
	tokenHash string,
) (*credentialDomain.EphemeralCredential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + credentialColumns + ` FROM ephemeral_credentials WHERE access_token_hash = ?`

	return scanCredential(querier.QueryRowContext(ctx, query, tokenHash))
}

func (m *MySQLCredentialRepository) ListActiveByCase(
	ctx context.Context,
	caseID uuid.UUID,
	now time.Time,
) ([]*credentialDomain.EphemeralCredential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + credentialColumns + ` FROM ephemeral_credentials
			  WHERE case_id = ? AND used_at IS NULL AND expires_at > ?
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, database.UUIDBytes(caseID), now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active credentials")
	}
	return scanCredentials(rows)
}

func (m *MySQLCredentialRepository) MarkAsUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE ephemeral_credentials SET used_at = ?
			  WHERE access_token_hash = ? AND used_at IS NULL AND expires_at > ?`

	result, err := querier.ExecContext(ctx, query, usedAt, tokenHash, usedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark credential as used")
	}
	return expectOneRow(result, credentialDomain.ErrCredentialUsed)
}

func (m *MySQLCredentialRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM ephemeral_credentials WHERE expires_at < ?`, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired credentials")
	}
	return rowsAffected(result)
}

func (m *MySQLCredentialRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM ephemeral_credentials WHERE expires_at < ?`, now).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired credentials")
	}
	return count, nil
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}
