// Package jwt issues and verifies the signed access and refresh tokens.
// Access tokens are stateless; refresh tokens are additionally checked
// against the stored per-user value by the auth service.
package jwt

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
)

// Kind distinguishes the two token flavors. Each kind is signed with its
// own secret, so an access token can never pass refresh verification.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims carries the registered claims plus the subject user id and the
// token kind.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Kind   Kind   `json:"kind"`
}

// JWT signs and verifies tokens for both kinds.
type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExp     time.Duration
	refreshExp    time.Duration
}

// New creates a JWT instance. The two secrets must differ; expirations
// are typically minutes for access and days for refresh.
func New(accessSecret, refreshSecret string, accessExp, refreshExp time.Duration) *JWT {
	return &JWT{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExp:     accessExp,
		refreshExp:    refreshExp,
	}
}

func (j *JWT) secretFor(kind Kind) []byte {
	if kind == KindRefresh {
		return j.refreshSecret
	}
	return j.accessSecret
}

func (j *JWT) expFor(kind Kind) time.Duration {
	if kind == KindRefresh {
		return j.refreshExp
	}
	return j.accessExp
}

// Generate creates a signed token of the given kind for a user. Every
// token gets a fresh jti, so two tokens issued within the same second
// are still distinct strings. Refresh rotation relies on that.
func (j *JWT) Generate(ctx context.Context, userID uuid.UUID, kind Kind) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expFor(kind))),
		},
		UserID: userID.String(),
		Kind:   kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretFor(kind))
}

// GetUserID verifies signature, expiry and kind, and returns the subject
// user id. Every failure surfaces as an auth error; callers never learn
// the cryptographic reason.
func (j *JWT) GetUserID(ctx context.Context, tokenString string, kind Kind) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Auth("invalid token")
		}
		return j.secretFor(kind), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperrors.Auth("invalid token")
	}
	if claims.Kind != kind {
		return uuid.Nil, apperrors.Auth("invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, apperrors.Auth("invalid token")
	}
	return userID, nil
}

// AccessExp reports the configured access-token lifetime, used to set
// cookie expiry.
func (j *JWT) AccessExp() time.Duration { return j.accessExp }

// RefreshExp reports the configured refresh-token lifetime.
func (j *JWT) RefreshExp() time.Duration { return j.refreshExp }
