package handlers

import (
	"net/http"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/middlewares"
)

// NewCurrentUserHandler returns the HTTP handler echoing the
// authenticated user. The record comes straight from the session
// authenticator, already sanitized.
// @Summary Get the current user
// @Description Returns the sanitized record of the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=models.UserResponse} "Current user"
// @Failure 401 {object} models.Envelope "Not authenticated"
// @Router /current-user [get]
func NewCurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			writeError(w, apperrors.Auth("unauthorized request"))
			return
		}

		writeEnvelope(w, http.StatusOK, user, "current user fetched successfully")
	}
}
