package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseguard/caseguard/internal/database"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

const testPseudonym = "anon_0123456789abcdef0123456789abcdef"

var (
	mappingRowColumns = []string{
		"anon_actor_id", "user_id", "case_id", "created_by", "created_at", "last_accessed_at", "access_count",
	}
	accessLogRowColumns = []string{"id", "anon_actor_id", "accessed_by", "access_reason", "accessed_at", "signature"}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func newTestMapping() *vaultDomain.IdentityMapping {
	return &vaultDomain.IdentityMapping{
		Pseudonym: testPseudonym,
		UserID:    uuid.Must(uuid.NewV7()),
		CaseID:    uuid.Must(uuid.NewV7()),
		CreatedBy: uuid.Must(uuid.NewV7()),
		CreatedAt: time.Now().UTC(),
	}
}

func TestPostgreSQLMappingRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO identity_mappings").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLMappingRepository(db).Create(ctx, newTestMapping()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UserCaseExists", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO identity_mappings").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_identity_mappings_user_case"})

		err := NewPostgreSQLMappingRepository(db).Create(ctx, newTestMapping())

		assert.ErrorIs(t, err, vaultDomain.ErrMappingExists)
	})

	t.Run("Error_PseudonymCollision", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO identity_mappings").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "identity_mappings_pkey"})

		err := NewPostgreSQLMappingRepository(db).Create(ctx, newTestMapping())

		assert.ErrorIs(t, err, vaultDomain.ErrPseudonymCollision)
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO identity_mappings").WillReturnError(errors.New("connection reset"))

		err := NewPostgreSQLMappingRepository(db).Create(ctx, newTestMapping())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create identity mapping")
	})
}

func TestMySQLMappingRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_UserCaseExists", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO identity_mappings").WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'x' for key 'identity_mappings.uq_identity_mappings_user_case'",
		})

		err := NewMySQLMappingRepository(db).Create(ctx, newTestMapping())

		assert.ErrorIs(t, err, vaultDomain.ErrMappingExists)
	})

	t.Run("Error_PseudonymCollision", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO identity_mappings").WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'anon_x' for key 'identity_mappings.PRIMARY'",
		})

		err := NewMySQLMappingRepository(db).Create(ctx, newTestMapping())

		assert.ErrorIs(t, err, vaultDomain.ErrPseudonymCollision)
	})
}

func TestPostgreSQLMappingRepository_GetByUserAndCase(t *testing.T) {
	ctx := context.Background()
	mapping := newTestMapping()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM identity_mappings WHERE user_id = \\$1 AND case_id = \\$2").
			WithArgs(mapping.UserID, mapping.CaseID).
			WillReturnRows(sqlmock.NewRows(mappingRowColumns).AddRow(
				mapping.Pseudonym, mapping.UserID.String(), mapping.CaseID.String(), mapping.CreatedBy.String(),
				mapping.CreatedAt, nil, 2,
			))

		got, err := NewPostgreSQLMappingRepository(db).GetByUserAndCase(ctx, mapping.UserID, mapping.CaseID)

		require.NoError(t, err)
		assert.Equal(t, mapping.Pseudonym, got.Pseudonym)
		assert.Equal(t, mapping.CaseID, got.CaseID)
		assert.Nil(t, got.LastAccessedAt)
		assert.Equal(t, int64(2), got.AccessCount)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM identity_mappings").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgreSQLMappingRepository(db).GetByUserAndCase(ctx, mapping.UserID, mapping.CaseID)

		assert.ErrorIs(t, err, vaultDomain.ErrMappingNotFound)
	})
}

func TestMySQLMappingRepository_GetByPseudonym(t *testing.T) {
	ctx := context.Background()
	mapping := newTestMapping()
	accessedAt := time.Now().UTC()

	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM identity_mappings WHERE anon_actor_id = \\?").
		WithArgs(testPseudonym).
		WillReturnRows(sqlmock.NewRows(mappingRowColumns).AddRow(
			testPseudonym,
			database.UUIDBytes(mapping.UserID),
			database.UUIDBytes(mapping.CaseID),
			database.UUIDBytes(mapping.CreatedBy),
			mapping.CreatedAt,
			accessedAt,
			7,
		))

	got, err := NewMySQLMappingRepository(db).GetByPseudonym(ctx, testPseudonym)

	require.NoError(t, err)
	assert.Equal(t, mapping.UserID, got.UserID)
	assert.Equal(t, mapping.CreatedBy, got.CreatedBy)
	require.NotNil(t, got.LastAccessedAt)
	assert.Equal(t, int64(7), got.AccessCount)
}

func TestPostgreSQLMappingRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	caseA, caseB := uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())

	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT anon_actor_id, case_id FROM identity_mappings").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"anon_actor_id", "case_id"}).
			AddRow("anon_a", caseA.String()).
			AddRow("anon_b", caseB.String()))

	got, err := NewPostgreSQLMappingRepository(db).ListByUser(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, []vaultDomain.CasePseudonym{
		{Pseudonym: "anon_a", CaseID: caseA},
		{Pseudonym: "anon_b", CaseID: caseB},
	}, got)
}

func TestPostgreSQLMappingRepository_RecordAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("SET access_count = access_count \\+ 1").
			WithArgs(now, testPseudonym).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLMappingRepository(db).RecordAccess(ctx, testPseudonym, now))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE identity_mappings").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgreSQLMappingRepository(db).RecordAccess(ctx, testPseudonym, now)

		assert.ErrorIs(t, err, vaultDomain.ErrMappingNotFound)
	})
}

func TestMappingRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PostgreSQL", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("DELETE FROM identity_mappings WHERE anon_actor_id = \\$1").
			WithArgs(testPseudonym).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPostgreSQLMappingRepository(db).Delete(ctx, testPseudonym))
	})

	t.Run("Error_NotFoundMySQL", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("DELETE FROM identity_mappings WHERE anon_actor_id = \\?").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewMySQLMappingRepository(db).Delete(ctx, testPseudonym)

		assert.ErrorIs(t, err, vaultDomain.ErrMappingNotFound)
	})
}

func TestPostgreSQLAccessLogRepository(t *testing.T) {
	ctx := context.Background()
	entry := &vaultDomain.IdentityAccessLog{
		ID:           uuid.Must(uuid.NewV7()),
		Pseudonym:    testPseudonym,
		AccessedBy:   uuid.Must(uuid.NewV7()),
		AccessReason: vaultDomain.ReasonResolveIdentity,
		AccessedAt:   time.Now().UTC(),
		Signature:    []byte("signature"),
	}

	t.Run("Success_Create", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO identity_access_logs").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPostgreSQLAccessLogRepository(db).Create(ctx, entry))
	})

	t.Run("Success_ListFiltered", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("WHERE anon_actor_id = \\$1\\s+ORDER BY accessed_at DESC, id DESC LIMIT \\$2 OFFSET \\$3").
			WithArgs(testPseudonym, 10, 0).
			WillReturnRows(sqlmock.NewRows(accessLogRowColumns).AddRow(
				entry.ID.String(), entry.Pseudonym, entry.AccessedBy.String(), "resolve_identity",
				entry.AccessedAt, entry.Signature,
			))

		got, err := NewPostgreSQLAccessLogRepository(db).List(
			ctx, vaultDomain.AccessLogFilter{Pseudonym: testPseudonym}, 0, 10)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, entry.ID, got[0].ID)
		assert.Equal(t, vaultDomain.ReasonResolveIdentity, got[0].AccessReason)
		assert.Equal(t, entry.Signature, got[0].Signature)
	})

	t.Run("Success_ListAll", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM identity_access_logs\\s+ORDER BY accessed_at DESC, id DESC LIMIT \\$1 OFFSET \\$2").
			WithArgs(50, 100).
			WillReturnRows(sqlmock.NewRows(accessLogRowColumns))

		got, err := NewPostgreSQLAccessLogRepository(db).List(ctx, vaultDomain.AccessLogFilter{}, 100, 50)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Error_List", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM identity_access_logs").WillReturnError(errors.New("timeout"))

		_, err := NewPostgreSQLAccessLogRepository(db).List(ctx, vaultDomain.AccessLogFilter{}, 0, 10)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list access logs")
	})
}

func TestMySQLAccessLogRepository_Create(t *testing.T) {
	ctx := context.Background()
	entry := &vaultDomain.IdentityAccessLog{
		ID:           uuid.Must(uuid.NewV7()),
		Pseudonym:    testPseudonym,
		AccessedBy:   uuid.Must(uuid.NewV7()),
		AccessReason: vaultDomain.ReasonRevokeMapping,
		AccessedAt:   time.Now().UTC(),
		Signature:    []byte("signature"),
	}

	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO identity_access_logs").
		WithArgs(
			database.UUIDBytes(entry.ID), entry.Pseudonym, database.UUIDBytes(entry.AccessedBy),
			"revoke_mapping", entry.AccessedAt, entry.Signature,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewMySQLAccessLogRepository(db).Create(ctx, entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}
