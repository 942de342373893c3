package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/playtube/playtube/internal/apperrors"
	jwtpkg "github.com/playtube/playtube/internal/jwt"
	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/models"
	"github.com/playtube/playtube/internal/repositories"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) (*models.UserDB, error)
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error
	SwapRefreshToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// TokenIssuer defines the signing operations the auth service needs.
type TokenIssuer interface {
	Generate(ctx context.Context, userID uuid.UUID, kind jwtpkg.Kind) (string, error)
	GetUserID(ctx context.Context, tokenString string, kind jwtpkg.Kind) (uuid.UUID, error)
}

// AuthService owns the credential and token lifecycle: registration,
// login, logout, refresh rotation and password change.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    TokenIssuer
	audit  KafkaWriter
}

// NewAuthService creates a new AuthService instance. The audit writer
// may be nil, which disables event publishing.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenIssuer, audit KafkaWriter) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
		audit:  audit,
	}
}

// Register creates a user. All text fields are required after trimming;
// the avatar is required, the cover image optional. The password is
// stored only as a bcrypt hash.
func (svc *AuthService) Register(ctx context.Context, username, email, fullName, password string, avatar, cover models.MediaRef) (*models.UserResponse, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	if username == "" || email == "" || fullName == "" || password == "" {
		return nil, apperrors.Validation("username, email, fullName and password are required")
	}
	if avatar.URL == "" {
		return nil, apperrors.Validation("avatar is required")
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("username or email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, apperrors.Internal(err)
	}

	user := &models.UserDB{
		UserID:       uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashedPassword),
		AvatarURL:    avatar.URL,
		AvatarID:     avatar.ExternalID,
		CoverURL:     cover.URL,
		CoverID:      cover.ExternalID,
	}

	created, err := svc.writer.Save(ctx, user)
	if err != nil {
		// Lost a race with a concurrent registration of the same identity.
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, apperrors.Conflict("username or email already exists")
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, apperrors.Internal(err)
	}

	publishAudit(ctx, svc.audit, AuditUserRegistered, created.UserID)

	return created.Sanitize(), nil
}

// Login authenticates by email and password and issues a token pair.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.UserResponse, *models.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, apperrors.Validation("email and password are required")
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, nil, apperrors.Auth("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, nil, apperrors.Auth("invalid email or password")
	}

	pair, err := svc.issueTokenPair(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	publishAudit(ctx, svc.audit, AuditUserLoggedIn, user.UserID)

	return user.Sanitize(), pair, nil
}

// issueTokenPair signs a fresh access/refresh pair and persists the
// refresh token, making it the single revocable instance for the user.
func (svc *AuthService) issueTokenPair(ctx context.Context, userID uuid.UUID) (*models.TokenPair, error) {
	accessToken, err := svc.jwt.Generate(ctx, userID, jwtpkg.KindAccess)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "err", err)
		return nil, apperrors.Internal(err)
	}
	refreshToken, err := svc.jwt.Generate(ctx, userID, jwtpkg.KindRefresh)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "err", err)
		return nil, apperrors.Internal(err)
	}

	if err := svc.writer.SetRefreshToken(ctx, userID, &refreshToken); err != nil {
		logger.Log.Errorw("failed to persist refresh token", "err", err)
		return nil, apperrors.Internal(err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Rotate exchanges a valid refresh token for a new pair. The presented
// token must match the stored one and the overwrite is a conditional
// update, so of N concurrent rotations with the same token exactly one
// succeeds; the rest fail with an auth error.
func (svc *AuthService) Rotate(ctx context.Context, presentedToken string) (*models.TokenPair, error) {
	userID, err := svc.jwt.GetUserID(ctx, presentedToken, jwtpkg.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load refresh subject", "err", err)
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.Auth("invalid token")
	}
	if user.CurrentRefreshToken == nil || *user.CurrentRefreshToken != presentedToken {
		return nil, apperrors.Auth("refresh token revoked or already used")
	}

	accessToken, err := svc.jwt.Generate(ctx, userID, jwtpkg.KindAccess)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "err", err)
		return nil, apperrors.Internal(err)
	}
	refreshToken, err := svc.jwt.Generate(ctx, userID, jwtpkg.KindRefresh)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "err", err)
		return nil, apperrors.Internal(err)
	}

	swapped, err := svc.writer.SwapRefreshToken(ctx, userID, presentedToken, refreshToken)
	if err != nil {
		logger.Log.Errorw("failed to rotate refresh token", "err", err)
		return nil, apperrors.Internal(err)
	}
	if !swapped {
		// A concurrent rotation or logout won between the check and
		// the swap; the presented token is no longer the live one.
		return nil, apperrors.Auth("refresh token revoked or already used")
	}

	publishAudit(ctx, svc.audit, AuditTokensRotated, userID)

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout revokes the stored refresh token. Outstanding access tokens
// stay valid until they expire; only rotation is cut off.
func (svc *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := svc.writer.SetRefreshToken(ctx, userID, nil); err != nil {
		logger.Log.Errorw("failed to revoke refresh token", "err", err)
		return apperrors.Internal(err)
	}

	publishAudit(ctx, svc.audit, AuditUserLoggedOut, userID)
	return nil
}

// ChangePassword verifies the old password and stores a hash of the new
// one. The stored refresh token survives the change: the session
// persists and the user is not forced to log in again.
func (svc *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.Validation("new password is required")
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load user", "err", err)
		return apperrors.Internal(err)
	}
	if user == nil {
		return apperrors.Auth("invalid access token")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.Auth("old password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return apperrors.Internal(err)
	}

	if err := svc.writer.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to update password", "err", err)
		return apperrors.Internal(err)
	}

	publishAudit(ctx, svc.audit, AuditPasswordChanged, userID)
	return nil
}
