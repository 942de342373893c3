package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/models"
)

// Rotator defines the refresh-token rotation the handler needs.
type Rotator interface {
	Rotate(ctx context.Context, presentedToken string) (*models.TokenPair, error)
}

// RefreshRequest optionally carries the refresh token in the body when
// the cookie is absent.
// swagger:model RefreshRequest
type RefreshRequest struct {
	// Refresh token
	// example: REFRESH_TOKEN
	RefreshToken string `json:"refreshToken"`
}

// refreshTokenFromRequest prefers the cookie over the body, mirroring
// access-token extraction order.
func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	var req RefreshRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req.RefreshToken
}

// NewRefreshHandler returns the HTTP handler for refresh-token rotation.
// The presented token is single-use: after one successful rotation it is
// permanently rejected.
// @Summary Rotate the refresh token
// @Description Exchanges a valid refresh token (cookie or body) for a new access/refresh pair, invalidating the presented token
// @Tags auth
// @Accept json
// @Produce json
// @Param refreshRequest body handlers.RefreshRequest false "Refresh token when not sent as a cookie"
// @Success 200 {object} models.Envelope{data=models.TokenPair} "New token pair"
// @Failure 401 {object} models.Envelope "Missing, invalid, expired or already-used token"
// @Router /refresh-tokens [post]
func NewRefreshHandler(svc Rotator, accessExp, refreshExp time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presented := refreshTokenFromRequest(r)
		if presented == "" {
			writeError(w, apperrors.Auth("refresh token is missing"))
			return
		}

		pair, err := svc.Rotate(r.Context(), presented)
		if err != nil {
			writeError(w, err)
			return
		}

		setAuthCookies(w, pair, accessExp, refreshExp)
		writeEnvelope(w, http.StatusOK, pair, "tokens rotated successfully")
	}
}
