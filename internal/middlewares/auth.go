package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	jwtpkg "github.com/playtube/playtube/internal/jwt"
	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/models"
)

// AccessTokenCookie is the cookie carrying the access token. It is
// checked before the Authorization header.
const AccessTokenCookie = "ACCESS_TOKEN"

// TokenVerifier verifies an access token and returns its subject.
type TokenVerifier interface {
	GetUserID(ctx context.Context, tokenString string, kind jwtpkg.Kind) (uuid.UUID, error)
}

// UserLoader resolves a verified subject to a user record.
type UserLoader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

type authUserKey struct{}

// UserFromContext returns the authenticated, sanitized user attached by
// AuthMiddleware, or nil when the request was not authenticated.
func UserFromContext(ctx context.Context) *models.UserResponse {
	user, _ := ctx.Value(authUserKey{}).(*models.UserResponse)
	return user
}

// WithUser attaches an authenticated user to the context. Exposed for
// handler tests; production requests go through AuthMiddleware.
func WithUser(ctx context.Context, user *models.UserResponse) context.Context {
	return context.WithValue(ctx, authUserKey{}, user)
}

// extractToken pulls the bearer credential from the ACCESS_TOKEN cookie
// first, then the Authorization header; the first present value wins.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.Envelope{
		StatusCode: http.StatusUnauthorized,
		Success:    false,
		Message:    message,
	})
}

// AuthMiddleware is the per-request session gate: extract the access
// token, verify it, load the subject and attach the sanitized user to
// the request context. Every failure yields 401, never 500, including a
// verified token whose subject no longer exists.
func AuthMiddleware(verifier TokenVerifier, loader UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString := extractToken(r)
			if tokenString == "" {
				writeUnauthorized(w, "unauthorized request")
				return
			}

			userID, err := verifier.GetUserID(ctx, tokenString, jwtpkg.KindAccess)
			if err != nil {
				logger.Log.Infow("access token rejected", "err", err)
				writeUnauthorized(w, "invalid access token")
				return
			}

			user, err := loader.GetByID(ctx, userID)
			if err != nil {
				logger.Log.Errorw("failed to load token subject", "err", err)
				writeUnauthorized(w, "invalid access token")
				return
			}
			if user == nil {
				// Deleted after issuance; indistinguishable from an
				// invalid token on purpose.
				writeUnauthorized(w, "invalid access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user.Sanitize())))
		})
	}
}

// OptionalAuthMiddleware attaches the viewer when a valid token is
// present but lets anonymous requests through. Used by endpoints whose
// response merely varies with the viewer, like channel profiles.
func OptionalAuthMiddleware(verifier TokenVerifier, loader UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString := extractToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.GetUserID(ctx, tokenString, jwtpkg.KindAccess)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := loader.GetByID(ctx, userID)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user.Sanitize())))
		})
	}
}
