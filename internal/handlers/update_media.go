package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
	"github.com/playtube/playtube/internal/services"
)

// MediaUpdater defines the avatar/cover replacement the handlers need.
type MediaUpdater interface {
	UpdateAvatar(ctx context.Context, userID uuid.UUID, upload services.Upload) (*models.UserResponse, error)
	UpdateCover(ctx context.Context, userID uuid.UUID, upload services.Upload) (*models.UserResponse, error)
}

func newMediaUpdateHandler(field string, update func(ctx context.Context, userID uuid.UUID, upload services.Upload) (*models.UserResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			writeError(w, apperrors.Auth("unauthorized request"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, apperrors.Validation("invalid multipart form"))
			return
		}

		file, header, err := r.FormFile(field)
		if err != nil {
			writeError(w, apperrors.Validation(field+" file is required"))
			return
		}
		defer file.Close()

		updated, err := update(r.Context(), user.UserID, services.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeEnvelope(w, http.StatusOK, updated, field+" updated successfully")
	}
}

// NewUpdateAvatarHandler returns the HTTP handler replacing the avatar.
// @Summary Update the avatar
// @Description Uploads a new avatar image, swaps the stored reference and deletes the replaced file
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param newAvatar formData file true "New avatar image"
// @Success 200 {object} models.Envelope{data=models.UserResponse} "Updated user"
// @Failure 400 {object} models.Envelope "Missing file"
// @Failure 401 {object} models.Envelope "Not authenticated"
// @Failure 503 {object} models.Envelope "Media host unavailable"
// @Router /update-profile [patch]
func NewUpdateAvatarHandler(svc MediaUpdater) http.HandlerFunc {
	return newMediaUpdateHandler("newAvatar", svc.UpdateAvatar)
}

// NewUpdateCoverHandler returns the HTTP handler replacing the cover image.
// @Summary Update the cover image
// @Description Uploads a new cover image, swaps the stored reference and deletes the replaced file
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param newCover formData file true "New cover image"
// @Success 200 {object} models.Envelope{data=models.UserResponse} "Updated user"
// @Failure 400 {object} models.Envelope "Missing file"
// @Failure 401 {object} models.Envelope "Not authenticated"
// @Failure 503 {object} models.Envelope "Media host unavailable"
// @Router /update-cover [patch]
func NewUpdateCoverHandler(svc MediaUpdater) http.HandlerFunc {
	return newMediaUpdateHandler("newCover", svc.UpdateCover)
}
