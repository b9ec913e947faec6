package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLTokenRepository implements Token persistence for MySQL using BINARY(16) ids.
type MySQLTokenRepository struct {
	db *sql.DB
}

func (m *MySQLTokenRepository) Create(ctx context.Context, token *actorDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (id, token_hash, actor_id, expires_at, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(token.ID),
		token.TokenHash,
		database.UUIDBytes(token.ActorID),
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*actorDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, actor_id, expires_at, revoked_at, created_at
			  FROM tokens WHERE token_hash = ?`

	return scanToken(querier.QueryRowContext(ctx, query, tokenHash))
}

func (m *MySQLTokenRepository) RevokeByActor(ctx context.Context, actorID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tokens SET revoked_at = ? WHERE actor_id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, database.UUIDBytes(actorID)); err != nil {
		return apperrors.Wrap(err, "failed to revoke tokens")
	}
	return nil
}

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
