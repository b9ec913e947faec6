package repository

import (
	"context"
	"database/sql"

	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

const accessLogColumns = `id, anon_actor_id, accessed_by, access_reason, accessed_at, signature`

// PostgreSQLAccessLogRepository implements append-only access log persistence for PostgreSQL.
type PostgreSQLAccessLogRepository struct {
	db *sql.DB
}

func (p *PostgreSQLAccessLogRepository) Create(ctx context.Context, entry *vaultDomain.IdentityAccessLog) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO identity_access_logs (` + accessLogColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Pseudonym,
		entry.AccessedBy,
		entry.AccessReason,
		entry.AccessedAt,
		entry.Signature,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log")
	}
	return nil
}

// List returns entries newest first.
func (p *PostgreSQLAccessLogRepository) List(
	ctx context.Context,
	filter vaultDomain.AccessLogFilter,
	offset, limit int,
) ([]*vaultDomain.IdentityAccessLog, error) {
	querier := database.GetTx(ctx, p.db)

	var (
		rows *sql.Rows
		err  error
	)
	if filter.Pseudonym != "" {
		query := `SELECT ` + accessLogColumns + ` FROM identity_access_logs
				  WHERE anon_actor_id = $1
				  ORDER BY accessed_at DESC, id DESC LIMIT $2 OFFSET $3`
		rows, err = querier.QueryContext(ctx, query, filter.Pseudonym, limit, offset)
	} else {
		query := `SELECT ` + accessLogColumns + ` FROM identity_access_logs
				  ORDER BY accessed_at DESC, id DESC LIMIT $1 OFFSET $2`
		rows, err = querier.QueryContext(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access logs")
	}
	return scanAccessLogs(rows)
}

func scanAccessLogs(rows *sql.Rows) ([]*vaultDomain.IdentityAccessLog, error) {
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*vaultDomain.IdentityAccessLog, 0)
	for rows.Next() {
		var entry vaultDomain.IdentityAccessLog
		err := rows.Scan(
			&entry.ID,
			&entry.Pseudonym,
			&entry.AccessedBy,
			&entry.AccessReason,
			&entry.AccessedAt,
			&entry.Signature,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access logs")
	}
	return entries, nil
}

// NewPostgreSQLAccessLogRepository creates a new PostgreSQL access log repository.
func NewPostgreSQLAccessLogRepository(db *sql.DB) *PostgreSQLAccessLogRepository {
	return &PostgreSQLAccessLogRepository{db: db}
}
