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
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	"github.com/caseguard/caseguard/internal/database"
)

const testPseudonym = "anon_0123456789abcdef0123456789abcdef"

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func newTestAssignment() *assignmentDomain.Assignment {
	return &assignmentDomain.Assignment{
		ID:         uuid.Must(uuid.NewV7()),
		CaseID:     uuid.Must(uuid.NewV7()),
		Pseudonym:  testPseudonym,
		AssignedAt: time.Now().UTC(),
	}
}

func TestPostgreSQLAssignmentRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		assignment := newTestAssignment()
		mock.ExpectExec("INSERT INTO case_assignments").
			WithArgs(assignment.ID, assignment.CaseID, assignment.Pseudonym, assignment.AssignedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLAssignmentRepository(db).Create(ctx, assignment))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_AlreadyAssigned_Pq", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO case_assignments").
			WillReturnError(&pq.Error{Code: "23505", Constraint: uniqueCaseConstraint})

		err := NewPostgreSQLAssignmentRepository(db).Create(ctx, newTestAssignment())

		assert.ErrorIs(t, err, assignmentDomain.ErrAlreadyAssigned)
	})

	t.Run("Error_AlreadyAssigned_Pgx", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO case_assignments").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: uniqueCaseConstraint})

		err := NewPostgreSQLAssignmentRepository(db).Create(ctx, newTestAssignment())

		assert.ErrorIs(t, err, assignmentDomain.ErrAlreadyAssigned)
	})

	t.Run("Error_OtherConstraint", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO case_assignments").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "case_assignments_pkey"})

		err := NewPostgreSQLAssignmentRepository(db).Create(ctx, newTestAssignment())

		require.Error(t, err)
		assert.NotErrorIs(t, err, assignmentDomain.ErrAlreadyAssigned)
		assert.Contains(t, err.Error(), "failed to create assignment")
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO case_assignments").WillReturnError(errors.New("connection refused"))

		err := NewPostgreSQLAssignmentRepository(db).Create(ctx, newTestAssignment())

		assert.Contains(t, err.Error(), "failed to create assignment")
	})
}

func TestPostgreSQLAssignmentRepository_GetByCase(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		expected := newTestAssignment()
		mock.ExpectQuery("SELECT id, case_id, anon_actor_id, assigned_at FROM case_assignments WHERE case_id = \\$1").
			WithArgs(expected.CaseID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "case_id", "anon_actor_id", "assigned_at"}).
				AddRow(expected.ID.String(), expected.CaseID.String(), expected.Pseudonym, expected.AssignedAt))

		found, err := NewPostgreSQLAssignmentRepository(db).GetByCase(ctx, expected.CaseID)

		require.NoError(t, err)
		assert.Equal(t, expected.CaseID, found.CaseID)
		assert.Equal(t, testPseudonym, found.Pseudonym)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT .+ FROM case_assignments").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgreSQLAssignmentRepository(db).GetByCase(ctx, uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, assignmentDomain.ErrAssignmentNotFound)
	})
}

func TestPostgreSQLAssignmentRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		assignmentID := uuid.Must(uuid.NewV7())
		mock.ExpectExec("DELETE FROM case_assignments WHERE id = \\$1").
			WithArgs(assignmentID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLAssignmentRepository(db).Delete(ctx, assignmentID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("DELETE FROM case_assignments").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgreSQLAssignmentRepository(db).Delete(ctx, uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, assignmentDomain.ErrAssignmentNotFound)
	})
}

func TestMySQLAssignmentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Create", func(t *testing.T) {
		db, mock := newMockDB(t)
		assignment := newTestAssignment()
		mock.ExpectExec("INSERT INTO case_assignments .+ VALUES \\(\\?, \\?, \\?, \\?\\)").
			WithArgs(database.UUIDBytes(assignment.ID), database.UUIDBytes(assignment.CaseID),
				assignment.Pseudonym, assignment.AssignedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewMySQLAssignmentRepository(db).Create(ctx, assignment))
	})

	t.Run("Error_AlreadyAssigned", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO case_assignments").WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'x' for key 'case_assignments.uq_case_assignments_case_id'",
		})

		err := NewMySQLAssignmentRepository(db).Create(ctx, newTestAssignment())

		assert.ErrorIs(t, err, assignmentDomain.ErrAlreadyAssigned)
	})

	t.Run("Success_GetByCase", func(t *testing.T) {
		db, mock := newMockDB(t)
		expected := newTestAssignment()
		mock.ExpectQuery("SELECT .+ FROM case_assignments WHERE case_id = \\?").
			WithArgs(database.UUIDBytes(expected.CaseID)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "case_id", "anon_actor_id", "assigned_at"}).
				AddRow(database.UUIDBytes(expected.ID), database.UUIDBytes(expected.CaseID),
					expected.Pseudonym, expected.AssignedAt))

		found, err := NewMySQLAssignmentRepository(db).GetByCase(ctx, expected.CaseID)

		require.NoError(t, err)
		assert.Equal(t, expected.ID, found.ID)
	})

	t.Run("Success_Delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		assignmentID := uuid.Must(uuid.NewV7())
		mock.ExpectExec("DELETE FROM case_assignments WHERE id = \\?").
			WithArgs(database.UUIDBytes(assignmentID)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewMySQLAssignmentRepository(db).Delete(ctx, assignmentID))
	})
}
