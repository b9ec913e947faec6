package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// PostgreSQLTokenRepository implements Token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *actorDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (id, token_hash, actor_id, expires_at, revoked_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.ActorID,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

func (p *PostgreSQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*actorDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, actor_id, expires_at, revoked_at, created_at
			  FROM tokens WHERE token_hash = $1`

	return scanToken(querier.QueryRowContext(ctx, query, tokenHash))
}

func (p *PostgreSQLTokenRepository) RevokeByActor(ctx context.Context, actorID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET revoked_at = $1 WHERE actor_id = $2 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, actorID); err != nil {
		return apperrors.Wrap(err, "failed to revoke tokens")
	}
	return nil
}

func scanToken(row rowScanner) (*actorDomain.Token, error) {
	var token actorDomain.Token
	err := row.Scan(
		&token.ID,
		&token.TokenHash,
		&token.ActorID,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, actorDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return &token, nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL Token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
