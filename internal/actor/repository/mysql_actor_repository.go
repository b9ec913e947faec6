package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	cryptoService "github.com/caseguard/caseguard/internal/crypto/service"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// MySQLActorRepository implements Actor persistence for MySQL using BINARY(16) ids.
type MySQLActorRepository struct {
	db          *sql.DB
	fieldCipher cryptoService.FieldCipher
}

func (m *MySQLActorRepository) Create(ctx context.Context, actor *actorDomain.Actor) error {
	querier := database.GetTx(ctx, m.db)

	sealed, err := sealActor(m.fieldCipher, actor)
	if err != nil {
		return err
	}

	query := `INSERT INTO actors (` + actorColumns + `, email_hash)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(actor.ID),
		sealed.name,
		sealed.email,
		actor.Role,
		actor.Secret,
		actor.IsActive,
		actor.FailedAttempts,
		actor.LockedUntil,
		actor.CreatedAt,
		actor.UpdatedAt,
		sealed.emailHash,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return actorDomain.ErrEmailTaken
		}
		return apperrors.Wrap(err, "failed to create actor")
	}
	return nil
}

// Update relies on a prior Get for existence: MySQL reports zero affected rows when the
// values are unchanged.
func (m *MySQLActorRepository) Update(ctx context.Context, actor *actorDomain.Actor) error {
	querier := database.GetTx(ctx, m.db)

	sealed, err := sealActor(m.fieldCipher, actor)
	if err != nil {
		return err
	}

	query := `UPDATE actors
			  SET name = ?,
				  email = ?,
				  email_hash = ?,
				  role = ?,
				  is_active = ?,
				  updated_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		sealed.name,
		sealed.email,
		sealed.emailHash,
		actor.Role,
		actor.IsActive,
		actor.UpdatedAt,
		database.UUIDBytes(actor.ID),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return actorDomain.ErrEmailTaken
		}
		return apperrors.Wrap(err, "failed to update actor")
	}
	return nil
}

func (m *MySQLActorRepository) Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + actorColumns + ` FROM actors WHERE id = ?`

	return scanActor(querier.QueryRowContext(ctx, query, database.UUIDBytes(actorID)), m.fieldCipher)
}

func (m *MySQLActorRepository) GetByEmail(ctx context.Context, email string) (*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + actorColumns + ` FROM actors WHERE email_hash = ?`

	return scanActor(querier.QueryRowContext(ctx, query, m.fieldCipher.BlindIndex(email)), m.fieldCipher)
}

func (m *MySQLActorRepository) List(ctx context.Context, offset, limit int) ([]*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + actorColumns + ` FROM actors ORDER BY created_at, id LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list actors")
	}
	return scanActors(rows, m.fieldCipher)
}

func (m *MySQLActorRepository) ListActiveByRole(
	ctx context.Context,
	role actorDomain.Role,
) ([]*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + actorColumns + ` FROM actors WHERE role = ? AND is_active = TRUE ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, role)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list actors by role")
	}
	return scanActors(rows, m.fieldCipher)
}

func (m *MySQLActorRepository) UpdateLockState(
	ctx context.Context,
	actorID uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE actors SET failed_attempts = ?, locked_until = ?, updated_at = ? WHERE id = ?`

	_, err := querier.ExecContext(
		ctx,
		query,
		failedAttempts,
		lockedUntil,
		time.Now().UTC(),
		database.UUIDBytes(actorID),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update actor lock state")
	}
	return nil
}

// NewMySQLActorRepository creates a new MySQL Actor repository.
func NewMySQLActorRepository(db *sql.DB, fieldCipher cryptoService.FieldCipher) *MySQLActorRepository {
	return &MySQLActorRepository{db: db, fieldCipher: fieldCipher}
}
