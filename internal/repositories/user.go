package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/models"
)

// pgUniqueViolation is the postgres error code for unique constraint
// violations, used to map duplicate username/email to a conflict.
const pgUniqueViolation = "23505"

// ErrDuplicateUser is returned when an insert hits the username or email
// unique constraint.
var ErrDuplicateUser = errors.New("username or email already exists")

// UserReadRepository provides read access to user records.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsernameOrEmail returns the first user matching the given
// username or email, or nil when none matches. Lookups are
// case-normalized to match stored lowercase usernames.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, full_name, password_hash,
		       avatar_url, avatar_id, cover_url, cover_id,
		       current_refresh_token, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = LOWER($1))
		   OR ($2::VARCHAR IS NOT NULL AND email = LOWER($2))
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Infow("get user by identity",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, full_name, password_hash,
		       avatar_url, avatar_id, cover_url, cover_id,
		       current_refresh_token, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	logger.Log.Infow("get user by id",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository provides write access to user records.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the created record. Duplicate
// username or email surfaces as ErrDuplicateUser; registration must
// never overwrite an existing account.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.UserDB) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (user_id, username, email, full_name, password_hash,
		                   avatar_url, avatar_id, cover_url, cover_id,
		                   created_at, updated_at)
		VALUES ($1, LOWER($2), LOWER($3), $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING user_id, username, email, full_name, password_hash,
		          avatar_url, avatar_id, cover_url, cover_id,
		          current_refresh_token, created_at, updated_at
	`
	args := []any{
		user.UserID, user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.AvatarID, user.CoverURL, user.CoverID,
	}

	var created models.UserDB
	err := r.db.GetContext(ctx, &created, query, args...)

	logger.Log.Infow("insert user",
		"query", strings.Join(strings.Fields(query), " "),
		"username", user.Username,
		"error", err,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// SetRefreshToken overwrites the stored refresh token for a user. A nil
// token revokes the current one (logout).
func (r *UserWriteRepository) SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error {
	const query = `
		UPDATE users
		SET current_refresh_token = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, token)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("set refresh token",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"rows", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SwapRefreshToken atomically replaces the stored refresh token only if
// the current value equals oldToken. It reports whether the swap happened;
// false means the presented token was already rotated or revoked. This
// conditional update is what serializes concurrent rotations: of N
// racing calls with the same old token, exactly one row update wins.
func (r *UserWriteRepository) SwapRefreshToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) (bool, error) {
	const query = `
		UPDATE users
		SET current_refresh_token = $3, updated_at = NOW()
		WHERE user_id = $1 AND current_refresh_token = $2
	`

	res, err := r.db.ExecContext(ctx, query, userID, oldToken, newToken)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("swap refresh token",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"rows", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, userID, passwordHash)

	logger.Log.Infow("update password",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	return err
}

// UpdateFullName patches the only mutable profile field and returns the
// updated record.
func (r *UserWriteRepository) UpdateFullName(ctx context.Context, userID uuid.UUID, fullName string) (*models.UserDB, error) {
	const query = `
		UPDATE users
		SET full_name = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, username, email, full_name, password_hash,
		          avatar_url, avatar_id, cover_url, cover_id,
		          current_refresh_token, created_at, updated_at
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID, fullName)

	logger.Log.Infow("update full name",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMedia replaces the avatar or cover reference and returns the
// updated record. Which pair is touched is chosen by the cover flag.
func (r *UserWriteRepository) UpdateMedia(ctx context.Context, userID uuid.UUID, ref models.MediaRef, cover bool) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET avatar_url = $2, avatar_id = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, username, email, full_name, password_hash,
		          avatar_url, avatar_id, cover_url, cover_id,
		          current_refresh_token, created_at, updated_at
	`
	if cover {
		query = `
		UPDATE users
		SET cover_url = $2, cover_id = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, username, email, full_name, password_hash,
		          avatar_url, avatar_id, cover_url, cover_id,
		          current_refresh_token, created_at, updated_at
	`
	}

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID, ref.URL, ref.ExternalID)

	logger.Log.Infow("update media ref",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"cover", cover,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &user, nil
}
