package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/middlewares"
)

// Logouter defines the logout operation the handler needs.
type Logouter interface {
	Logout(ctx context.Context, userID uuid.UUID) error
}

// NewLogoutHandler returns the HTTP handler for logout. It nulls the
// stored refresh token and clears both auth cookies.
// @Summary Log out the current user
// @Description Revokes the stored refresh token and clears the auth cookies
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope "Logged out"
// @Failure 401 {object} models.Envelope "Not authenticated"
// @Router /logout [post]
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			writeError(w, apperrors.Auth("unauthorized request"))
			return
		}

		if err := svc.Logout(r.Context(), user.UserID); err != nil {
			writeError(w, err)
			return
		}

		clearAuthCookies(w)
		writeEnvelope(w, http.StatusOK, nil, "logged out successfully")
	}
}
