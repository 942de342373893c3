package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/models"
	"github.com/playtube/playtube/internal/services"
)

// maxUploadBytes bounds the multipart form size for media uploads.
const maxUploadBytes = 32 << 20

// Registerer defines the registration operations the handler needs.
type Registerer interface {
	Register(ctx context.Context, username, email, fullName, password string, avatar, cover models.MediaRef) (*models.UserResponse, error)
}

// RegisterUploader uploads and deletes media files for registration.
type RegisterUploader interface {
	UploadMedia(ctx context.Context, upload services.Upload) (models.MediaRef, error)
	DeleteMedia(ctx context.Context, externalID string) error
}

func uploadFromFileHeader(fh *multipart.FileHeader) (services.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, nil, err
	}
	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { f.Close() }, nil
}

// NewRegisterHandler returns the HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account from a multipart form. Username and email must be unique; the avatar file is required, the cover image optional. The password is stored only as a hash.
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param username formData string true "Unique username"
// @Param email formData string true "Unique email"
// @Param fullName formData string true "Display name"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} models.Envelope{data=models.UserResponse} "User registered"
// @Failure 400 {object} models.Envelope "Missing or malformed fields"
// @Failure 409 {object} models.Envelope "Username or email already exists"
// @Failure 503 {object} models.Envelope "Media host unavailable"
// @Router /register [post]
func NewRegisterHandler(svc Registerer, uploader RegisterUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, apperrors.Validation("invalid multipart form"))
			return
		}

		username := r.FormValue("username")
		email := r.FormValue("email")
		fullName := r.FormValue("fullName")
		password := r.FormValue("password")

		avatarFile, avatarHeader, err := r.FormFile("avatar")
		if err != nil {
			writeError(w, apperrors.Validation("avatar is required"))
			return
		}
		defer avatarFile.Close()

		avatar, err := uploader.UploadMedia(ctx, services.Upload{
			Filename:    avatarHeader.Filename,
			ContentType: avatarHeader.Header.Get("Content-Type"),
			Body:        avatarFile,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		var cover models.MediaRef
		if fhs := r.MultipartForm.File["coverImage"]; len(fhs) > 0 {
			upload, closeFn, err := uploadFromFileHeader(fhs[0])
			if err != nil {
				writeError(w, apperrors.Validation("invalid cover image"))
				return
			}
			cover, err = uploader.UploadMedia(ctx, upload)
			closeFn()
			if err != nil {
				_ = uploader.DeleteMedia(ctx, avatar.ExternalID)
				writeError(w, err)
				return
			}
		}

		user, err := svc.Register(ctx, username, email, fullName, password, avatar, cover)
		if err != nil {
			// Registration failed after the files were uploaded; take
			// them back down best-effort.
			_ = uploader.DeleteMedia(ctx, avatar.ExternalID)
			_ = uploader.DeleteMedia(ctx, cover.ExternalID)
			writeError(w, err)
			return
		}

		writeEnvelope(w, http.StatusCreated, user, "user registered successfully")
	}
}
