// Package repository implements ephemeral credential persistence in the case store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

const credentialColumns = `id, case_id, anon_actor_id, temp_address, temp_password_hash, access_token,
	access_token_hash, expires_at, used_at, created_at`

// PostgreSQLCredentialRepository implements EphemeralCredential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

func (p *PostgreSQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialDomain.EphemeralCredential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO ephemeral_credentials (` + credentialColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.CaseID,
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

// GetByAccessTokenHash returns ErrInvalidCredential when no row carries the hash.
func (p *PostgreSQLCredentialRepository) GetByAccessTokenHash(
	ctx context.Context,
	tokenHash string,
) (*credentialDomain.EphemeralCredential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + credentialColumns + ` FROM ephemeral_credentials WHERE access_token_hash = $1`

	return scanCredential(querier.QueryRowContext(ctx, query, tokenHash))
}

// ListActiveByCase returns unused credentials of a case that are still valid at now.
func (p *PostgreSQLCredentialRepository) ListActiveByCase(
	ctx context.Context,
	caseID uuid.UUID,
	now time.Time,
) ([]*credentialDomain.EphemeralCredential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + credentialColumns + ` FROM ephemeral_credentials
			  WHERE case_id = $1 AND used_at IS NULL AND expires_at > $2
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, caseID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active credentials")
	}
	return scanCredentials(rows)
}

// MarkAsUsed consumes the credential. Only the first call for an unexpired hash affects a row.
func (p *PostgreSQLCredentialRepository) MarkAsUsed(
	ctx context.Context,
	tokenHash string,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE ephemeral_credentials SET used_at = $1
			  WHERE access_token_hash = $2 AND used_at IS NULL AND expires_at > $1`

	result, err := querier.ExecContext(ctx, query, usedAt, tokenHash)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark credential as used")
	}
	return expectOneRow(result, credentialDomain.ErrCredentialUsed)
}

func (p *PostgreSQLCredentialRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM ephemeral_credentials WHERE expires_at < $1`, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired credentials")
	}
	return rowsAffected(result)
}

func (p *PostgreSQLCredentialRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM ephemeral_credentials WHERE expires_at < $1`, now).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired credentials")
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*credentialDomain.EphemeralCredential, error) {
	var credential credentialDomain.EphemeralCredential
	err := row.Scan(
		&credential.ID,
		&credential.CaseID,
		&credential.Pseudonym,
		&credential.TempAddress,
		&credential.TempPasswordHash,
		&credential.AccessToken,
		&credential.AccessTokenHash,
		&credential.ExpiresAt,
		&credential.UsedAt,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrInvalidCredential
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}
	return &credential, nil
}

func scanCredentials(rows *sql.Rows) ([]*credentialDomain.EphemeralCredential, error) {
	defer func() {
		_ = rows.Close()
	}()

	credentials := make([]*credentialDomain.EphemeralCredential, 0)
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}
	return credentials, nil
}

func mapInsertError(err error) error {
	if database.IsUniqueViolation(err) {
		return credentialDomain.ErrAddressCollision
	}
	return apperrors.Wrap(err, "failed to create credential")
}

func rowsAffected(result sql.Result) (int64, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	affected, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}
