package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func TestProfileUpsert_WritesOnlyGivenColumns(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()

	mock.ExpectExec("INSERT INTO profiles (user_id, gender, personality_traits) VALUES ($1, $2, $3) "+
		"ON CONFLICT (user_id) DO UPDATE SET gender = EXCLUDED.gender, "+
		"personality_traits = EXCLUDED.personality_traits, updated_at = CURRENT_TIMESTAMP").
		WithArgs(sqlmock.AnyArg(), "female", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewProfileRepository(db).Upsert(context.Background(), userID, repository.Fields{
		"personality_traits": []string{"sage"},
		"gender":             "female",
	})
	require.NoError(t, err)
}

func TestUpsert_EmptyFieldsInsertsBareRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO user_preferences (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPreferencesRepository(db).Upsert(context.Background(), uuid.New(), repository.Fields{}))
}

func TestUpsert_RejectsUnknownColumn(t *testing.T) {
	db, _ := newMockDB(t)

	err := NewProfileRepository(db).Upsert(context.Background(), uuid.New(), repository.Fields{"skin_color": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "skin_color" is not writable`)
}

func TestColumnValue_WrapsStringSlices(t *testing.T) {
	got := columnValue([]string{"a", "b"})
	_, ok := got.(driver.Valuer)
	assert.True(t, ok)
	assert.Equal(t, 42, columnValue(42))
}

func TestProfileGetByUserID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewProfileRepository(db).GetByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`
		INSERT INTO users (email, display_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`).
		WithArgs("lea@example.com", "Léa", nil).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	displayName := "Léa"
	err := NewUserRepository(db).Create(context.Background(), &domain.User{Email: "Lea@Example.com", DisplayName: &displayName})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserCreate_OtherErrorsPassThrough(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`
		INSERT INTO users (email, display_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`).WillReturnError(boom)

	err := NewUserRepository(db).Create(context.Background(), &domain.User{Email: "a@b.co"})
	assert.ErrorIs(t, err, boom)
}

func TestCrushMarkSent_UnknownID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`
		UPDATE crushes
		SET email_sent = true, email_id = $1, error_message = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`).
		WithArgs("msg-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewCrushRepository(db).MarkSent(context.Background(), uuid.New(), "msg-1")
	assert.ErrorIs(t, err, domain.ErrCrushNotFound)
}
