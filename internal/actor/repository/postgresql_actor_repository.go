// Package repository implements persistence for actors and their bearer tokens.
//
// PostgreSQL implementations use native UUID columns, MySQL implementations use BINARY(16).
// Every method honours a transaction carried in the context via database.GetTx.
//
// Actor names and emails are stored sealed by a FieldCipher. Email lookups go through the
// email_hash blind index, so the plain address never reaches the database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	cryptoService "github.com/caseguard/caseguard/internal/crypto/service"
	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

const actorColumns = `id, name, email, role, secret, is_active, failed_attempts, locked_until,
			  created_at, updated_at`

const (
	columnName  = "name"
	columnEmail = "email"
)

// PostgreSQLActorRepository implements Actor persistence for PostgreSQL.
type PostgreSQLActorRepository struct {
	db          *sql.DB
	fieldCipher cryptoService.FieldCipher
}

func (p *PostgreSQLActorRepository) Create(ctx context.Context, actor *actorDomain.Actor) error {
	querier := database.GetTx(ctx, p.db)

	sealed, err := sealActor(p.fieldCipher, actor)
	if err != nil {
		return err
	}

	query := `INSERT INTO actors (` + actorColumns + `, email_hash)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		actor.ID,
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

func (p *PostgreSQLActorRepository) Update(ctx context.Context, actor *actorDomain.Actor) error {
	querier := database.GetTx(ctx, p.db)

	sealed, err := sealActor(p.fieldCipher, actor)
	if err != nil {
		return err
	}

	query := `UPDATE actors
			  SET name = $1,
				  email = $2,
				  email_hash = $3,
				  role = $4,
				  is_active = $5,
				  updated_at = $6
			  WHERE id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		sealed.name,
		sealed.email,
		sealed.emailHash,
		actor.Role,
		actor.IsActive,
		actor.UpdatedAt,
		actor.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return actorDomain.ErrEmailTaken
		}
		return apperrors.Wrap(err, "failed to update actor")
	}
	return expectOneRow(result, actorDomain.ErrActorNotFound)
}

func (p *PostgreSQLActorRepository) Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + actorColumns + ` FROM actors WHERE id = $1`

	return scanActor(querier.QueryRowContext(ctx, query, actorID), p.fieldCipher)
}

func (p *PostgreSQLActorRepository) GetByEmail(ctx context.Context, email string) (*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + actorColumns + ` FROM actors WHERE email_hash = $1`

	return scanActor(querier.QueryRowContext(ctx, query, p.fieldCipher.BlindIndex(email)), p.fieldCipher)
}

func (p *PostgreSQLActorRepository) List(ctx context.Context, offset, limit int) ([]*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + actorColumns + ` FROM actors ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list actors")
	}
	return scanActors(rows, p.fieldCipher)
}

func (p *PostgreSQLActorRepository) ListActiveByRole(
	ctx context.Context,
	role actorDomain.Role,
) ([]*actorDomain.Actor, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + actorColumns + ` FROM actors WHERE role = $1 AND is_active = TRUE ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, role)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list actors by role")
	}
	return scanActors(rows, p.fieldCipher)
}

func (p *PostgreSQLActorRepository) UpdateLockState(
	ctx context.Context,
	actorID uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE actors SET failed_attempts = $1, locked_until = $2, updated_at = $3 WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, failedAttempts, lockedUntil, time.Now().UTC(), actorID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update actor lock state")
	}
	return expectOneRow(result, actorDomain.ErrActorNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// sealedFields is the stored form of an actor's personal data.
type sealedFields struct {
	name      string
	email     string
	emailHash string
}

func sealActor(fieldCipher cryptoService.FieldCipher, actor *actorDomain.Actor) (sealedFields, error) {
	name, err := fieldCipher.Seal(actor.Name, actor.ID[:], columnName)
	if err != nil {
		return sealedFields{}, apperrors.Wrap(err, "failed to seal actor name")
	}
	email, err := fieldCipher.Seal(actor.Email, actor.ID[:], columnEmail)
	if err != nil {
		return sealedFields{}, apperrors.Wrap(err, "failed to seal actor email")
	}
	return sealedFields{name: name, email: email, emailHash: fieldCipher.BlindIndex(actor.Email)}, nil
}

func scanActor(row rowScanner, fieldCipher cryptoService.FieldCipher) (*actorDomain.Actor, error) {
	var actor actorDomain.Actor
	err := row.Scan(
		&actor.ID,
		&actor.Name,
		&actor.Email,
		&actor.Role,
		&actor.Secret,
		&actor.IsActive,
		&actor.FailedAttempts,
		&actor.LockedUntil,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, actorDomain.ErrActorNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get actor")
	}

	if actor.Name, err = fieldCipher.Open(actor.Name, actor.ID[:], columnName); err != nil {
		return nil, apperrors.Wrapf(err, "failed to open name of actor %s", actor.ID)
	}
	if actor.Email, err = fieldCipher.Open(actor.Email, actor.ID[:], columnEmail); err != nil {
		return nil, apperrors.Wrapf(err, "failed to open email of actor %s", actor.ID)
	}
	return &actor, nil
}

func scanActors(rows *sql.Rows, fieldCipher cryptoService.FieldCipher) ([]*actorDomain.Actor, error) {
	defer func() {
		_ = rows.Close()
	}()

	actors := make([]*actorDomain.Actor, 0)
	for rows.Next() {
		actor, err := scanActor(rows, fieldCipher)
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate actors")
	}
	return actors, nil
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

// NewPostgreSQLActorRepository creates a new PostgreSQL Actor repository.
func NewPostgreSQLActorRepository(
	db *sql.DB,
	fieldCipher cryptoService.FieldCipher,
) *PostgreSQLActorRepository {
	return &PostgreSQLActorRepository{db: db, fieldCipher: fieldCipher}
}
