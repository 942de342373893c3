package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/middlewares"
)

// PasswordChanger defines the password-change operation the handler needs.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// ChangePasswordRequest represents the JSON body for a password change
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	// required: true
	OldPassword string `json:"oldPassword"`

	// New password
	// required: true
	NewPassword string `json:"newPassword"`
}

// NewChangePasswordHandler returns the HTTP handler for password change.
// The stored refresh token is left untouched; the session persists.
// @Summary Change the current user's password
// @Description Verifies the old password and replaces the stored hash
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param changePasswordRequest body handlers.ChangePasswordRequest true "Password change request"
// @Success 200 {object} models.Envelope "Password changed"
// @Failure 400 {object} models.Envelope "Missing new password"
// @Failure 401 {object} models.Envelope "Wrong old password or not authenticated"
// @Router /change-password [post]
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			writeError(w, apperrors.Auth("unauthorized request"))
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("invalid request body"))
			return
		}

		if err := svc.ChangePassword(r.Context(), user.UserID, req.OldPassword, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}

		writeEnvelope(w, http.StatusOK, nil, "password changed successfully")
	}
}
