package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
)

// AccountUpdater defines the profile-field patch the handler needs.
type AccountUpdater interface {
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullName string) (*models.UserResponse, error)
}

// UpdateAccountRequest represents the JSON body for an account patch
// swagger:model UpdateAccountRequest
type UpdateAccountRequest struct {
	// Display name
	// required: true
	// example: Alice Example
	FullName string `json:"fullName"`
}

// NewUpdateAccountHandler returns the HTTP handler patching the mutable
// profile fields (fullName only).
// @Summary Update account details
// @Description Patches the display name and returns the sanitized record
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param updateAccountRequest body handlers.UpdateAccountRequest true "Account patch"
// @Success 200 {object} models.Envelope{data=models.UserResponse} "Updated user"
// @Failure 400 {object} models.Envelope "Missing fullName"
// @Failure 401 {object} models.Envelope "Not authenticated"
// @Router /update-account [patch]
func NewUpdateAccountHandler(svc AccountUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			writeError(w, apperrors.Auth("unauthorized request"))
			return
		}

		var req UpdateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("invalid request body"))
			return
		}

		updated, err := svc.UpdateAccount(r.Context(), user.UserID, req.FullName)
		if err != nil {
			writeError(w, err)
			return
		}

		writeEnvelope(w, http.StatusOK, updated, "account updated successfully")
	}
}
