package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtube/playtube/internal/models"
)

var userColumns = []string{
	"user_id", "username", "email", "full_name", "password_hash",
	"avatar_url", "avatar_id", "cover_url", "cover_id",
	"current_refresh_token", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func userRow(id uuid.UUID, username, email string, refreshToken *string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userColumns).AddRow(
		id, username, email, "Full Name", "$2a$10$hash",
		"https://cdn/a.png", "media/a", "", "",
		refreshToken, now, now,
	)
}

func TestUserReadRepositoryGetByUsernameOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	username := "alice"
	email := "alice@example.com"

	t.Run("found by username", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(&username, nil).
			WillReturnRows(userRow(userID, username, email, nil))

		user, err := repo.GetByUsernameOrEmail(ctx, &username, nil)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, userID, user.UserID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("no rows means nil, not an error", func(t *testing.T) {
		ghost := "ghost"
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(&ghost, nil).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByUsernameOrEmail(ctx, &ghost, nil)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("query failure propagates", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(nil, &email).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByUsernameOrEmail(ctx, nil, &email)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id").
			WithArgs(userID).
			WillReturnRows(userRow(userID, "alice", "alice@example.com", nil))

		user, err := repo.GetByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, user.UserID)
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id").
			WithArgs(userID).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(ctx, userID)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepositorySave(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	user := &models.UserDB{
		UserID:       uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "$2a$10$hash",
		AvatarURL:    "https://cdn/a.png",
		AvatarID:     "media/a",
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(user.UserID, user.Username, user.Email, user.FullName, user.PasswordHash,
				user.AvatarURL, user.AvatarID, "", "").
			WillReturnRows(userRow(user.UserID, user.Username, user.Email, nil))

		created, err := repo.Save(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, user.UserID, created.UserID)
	})

	t.Run("unique violation maps to ErrDuplicateUser", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(user.UserID, user.Username, user.Email, user.FullName, user.PasswordHash,
				user.AvatarURL, user.AvatarID, "", "").
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_username_key"})

		_, err := repo.Save(ctx, user)
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepositorySetRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	token := "REFRESH"

	t.Run("sets a token", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET current_refresh_token").
			WithArgs(userID, &token).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetRefreshToken(ctx, userID, &token))
	})

	t.Run("nil token revokes", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET current_refresh_token").
			WithArgs(userID, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetRefreshToken(ctx, userID, nil))
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET current_refresh_token").
			WithArgs(userID, &token).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetRefreshToken(ctx, userID, &token)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepositorySwapRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	t.Run("swap wins when the stored token matches", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET current_refresh_token").
			WithArgs(userID, "OLD", "NEW").
			WillReturnResult(sqlmock.NewResult(0, 1))

		swapped, err := repo.SwapRefreshToken(ctx, userID, "OLD", "NEW")
		require.NoError(t, err)
		assert.True(t, swapped)
	})

	t.Run("swap loses when the token was already rotated", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET current_refresh_token").
			WithArgs(userID, "SPENT", "NEW").
			WillReturnResult(sqlmock.NewResult(0, 0))

		swapped, err := repo.SwapRefreshToken(ctx, userID, "SPENT", "NEW")
		require.NoError(t, err)
		assert.False(t, swapped)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepositoryUpdateFullName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	mock.ExpectQuery("UPDATE users SET full_name").
		WithArgs(userID, "Alice Liddell").
		WillReturnRows(userRow(userID, "alice", "alice@example.com", nil))

	user, err := repo.UpdateFullName(ctx, userID, "Alice Liddell")
	require.NoError(t, err)
	assert.Equal(t, userID, user.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepositoryUpdateMedia(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	ref := models.MediaRef{URL: "https://cdn/new.png", ExternalID: "media/new"}

	t.Run("avatar", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users SET avatar_url").
			WithArgs(userID, ref.URL, ref.ExternalID).
			WillReturnRows(userRow(userID, "alice", "alice@example.com", nil))

		_, err := repo.UpdateMedia(ctx, userID, ref, false)
		assert.NoError(t, err)
	})

	t.Run("cover", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users SET cover_url").
			WithArgs(userID, ref.URL, ref.ExternalID).
			WillReturnRows(userRow(userID, "alice", "alice@example.com", nil))

		_, err := repo.UpdateMedia(ctx, userID, ref, true)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
