package repository

import (
	"context"
	"database/sql"

	"github.com/caseguard/caseguard/internal/database"
	apperrors "github.com/caseguard/caseguard/internal/errors"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

// MySQLAccessLogRepository implements append-only access log persistence for MySQL.
type MySQLAccessLogRepository struct {
	db *sql.DB
}

func (m *MySQLAccessLogRepository) Create(ctx context.Context, entry *vaultDomain.IdentityAccessLog) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO identity_access_logs (` + accessLogColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		database.UUIDBytes(entry.ID),
		entry.Pseudonym,
		database.UUIDBytes(entry.AccessedBy),
		entry.AccessReason,
		entry.AccessedAt,
		entry.Signature,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log")
	}
	return nil
}

func (m *MySQLAccessLogRepository) List(
	ctx context.Context,
	filter vaultDomain.AccessLogFilter,
	offset, limit int,
) ([]*vaultDomain.IdentityAccessLog, error) {
	querier := database.GetTx(ctx, m.db)

	var (
		rows *sql.Rows
		err  error
	)
	if filter.Pseudonym != "" {
		query := `SELECT ` + accessLogColumns + ` FROM identity_access_logs
				  WHERE anon_actor_id = ?
				  ORDER BY accessed_at DESC, id DESC LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, filter.Pseudonym, limit, offset)
	} else {
		query := `SELECT ` + accessLogColumns + ` FROM identity_access_logs
				  ORDER BY accessed_at DESC, id DESC LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access logs")
	}
	return scanAccessLogs(rows)
}

// NewMySQLAccessLogRepository creates a new MySQL access log repository.
func NewMySQLAccessLogRepository(db *sql.DB) *MySQLAccessLogRepository {
	return &MySQLAccessLogRepository{db: db}
}
