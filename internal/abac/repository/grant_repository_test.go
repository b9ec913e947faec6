package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
)

var heldRowColumns = []string{
	"g.id", "g.actor_id", "g.attribute_id", "g.granted_by", "g.granted_at", "g.expires_at", "g.reason",
	"a.id", "a.name", "a.category", "a.description", "a.level", "a.created_at", "a.updated_at",
}

func TestPostgreSQLGrantRepository_ListHeld(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	actorID := uuid.Must(uuid.NewV7())
	attributeID := uuid.Must(uuid.NewV7())
	expires := now.Add(time.Hour)

	db, mock := newMockDB(t)
	rows := sqlmock.NewRows(heldRowColumns).
		AddRow(uuid.Must(uuid.NewV7()).String(), actorID.String(), attributeID.String(), actorID.String(),
			now, expires, "cover", attributeID.String(), "secret_information", "authorization", "", 4, now, now).
		AddRow(uuid.Must(uuid.NewV7()).String(), actorID.String(), attributeID.String(), actorID.String(),
			now, nil, "", attributeID.String(), "view_cases", "permission", "", 1, now, now)
	mock.ExpectQuery("FROM abac_user_attributes g").WithArgs(actorID).WillReturnRows(rows)

	held, err := NewPostgreSQLGrantRepository(db).ListHeld(ctx, actorID)

	require.NoError(t, err)
	require.Len(t, held, 2)
	require.NotNil(t, held[0].Grant.ExpiresAt)
	assert.True(t, expires.Equal(*held[0].Grant.ExpiresAt))
	assert.Equal(t, abacDomain.CategoryAuthorization, held[0].Attribute.Category)
	assert.Equal(t, 4, held[0].Attribute.Level)
	assert.Nil(t, held[1].Grant.ExpiresAt)
}

func TestPostgreSQLGrantRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	existing := uuid.Must(uuid.NewV7())

	db, mock := newMockDB(t)
	mock.ExpectQuery("ON CONFLICT \\(actor_id, attribute_id\\) DO UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existing.String()))

	grant := &abacDomain.Grant{
		ID:          uuid.Must(uuid.NewV7()),
		ActorID:     uuid.Must(uuid.NewV7()),
		AttributeID: uuid.Must(uuid.NewV7()),
		GrantedAt:   time.Now().UTC(),
	}
	require.NoError(t, NewPostgreSQLGrantRepository(db).Upsert(ctx, grant))
	assert.Equal(t, existing, grant.ID)
}

func TestMySQLGrantRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReadsBackID", func(t *testing.T) {
		existing := uuid.Must(uuid.NewV7())
		grant := &abacDomain.Grant{
			ID:          uuid.Must(uuid.NewV7()),
			ActorID:     uuid.Must(uuid.NewV7()),
			AttributeID: uuid.Must(uuid.NewV7()),
			GrantedBy:   uuid.Must(uuid.NewV7()),
			GrantedAt:   time.Now().UTC(),
		}

		db, mock := newMockDB(t)
		mock.ExpectExec("ON DUPLICATE KEY UPDATE").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectQuery("SELECT id FROM abac_user_attributes").
			WithArgs(database.UUIDBytes(grant.ActorID), database.UUIDBytes(grant.AttributeID)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(database.UUIDBytes(existing)))

		require.NoError(t, NewMySQLGrantRepository(db).Upsert(ctx, grant))
		assert.Equal(t, existing, grant.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UnknownActor", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("ON DUPLICATE KEY UPDATE").WillReturnError(&mysql.MySQLError{Number: 1452})

		err := NewMySQLGrantRepository(db).Upsert(ctx, &abacDomain.Grant{ID: uuid.Must(uuid.NewV7())})

		assert.ErrorIs(t, err, abacDomain.ErrGrantTargetNotFound)
	})
}

func TestMySQLGrantRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM abac_user_attributes").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewMySQLGrantRepository(db).Delete(context.Background(), uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))

	assert.ErrorIs(t, err, abacDomain.ErrGrantNotFound)
}
