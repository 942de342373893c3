package services

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/models"
)

// Upload is an incoming multipart file handed to the blob store.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// BlobStore is the external media host: put a file, get back a
// {url, externalId} pair; delete by externalId.
type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (models.MediaRef, error)
	Delete(ctx context.Context, externalID string) error
}

// MediaUpdater persists profile field and media reference changes.
type MediaUpdater interface {
	UpdateFullName(ctx context.Context, userID uuid.UUID, fullName string) (*models.UserDB, error)
	UpdateMedia(ctx context.Context, userID uuid.UUID, ref models.MediaRef, cover bool) (*models.UserDB, error)
}

// ProfileService handles account detail and media updates.
type ProfileService struct {
	reader UserReader
	writer MediaUpdater
	blobs  BlobStore
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(reader UserReader, writer MediaUpdater, blobs BlobStore) *ProfileService {
	return &ProfileService{
		reader: reader,
		writer: writer,
		blobs:  blobs,
	}
}

// UpdateAccount patches the mutable profile fields (fullName only) and
// returns the sanitized record.
func (svc *ProfileService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName string) (*models.UserResponse, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperrors.Validation("fullName is required")
	}

	user, err := svc.writer.UpdateFullName(ctx, userID, fullName)
	if err != nil {
		logger.Log.Errorw("failed to update account", "err", err)
		return nil, apperrors.Internal(err)
	}
	return user.Sanitize(), nil
}

// UploadMedia sends a file to the blob store, mapping unavailability to
// an upstream error.
func (svc *ProfileService) UploadMedia(ctx context.Context, upload Upload) (models.MediaRef, error) {
	ref, err := svc.blobs.Put(ctx, upload.Filename, upload.ContentType, upload.Body)
	if err != nil {
		logger.Log.Errorw("blob store upload failed", "err", err)
		return models.MediaRef{}, apperrors.Upstream("media upload failed", err)
	}
	return ref, nil
}

// DeleteMedia removes an uploaded file, used to undo uploads when the
// request they belonged to fails.
func (svc *ProfileService) DeleteMedia(ctx context.Context, externalID string) error {
	if err := svc.blobs.Delete(ctx, externalID); err != nil {
		logger.Log.Warnw("failed to delete media", "external_id", externalID, "err", err)
		return err
	}
	return nil
}

// UpdateAvatar uploads the new avatar, swaps the stored reference and
// deletes the replaced file best-effort.
func (svc *ProfileService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload Upload) (*models.UserResponse, error) {
	return svc.updateMedia(ctx, userID, upload, false)
}

// UpdateCover does the same for the cover image.
func (svc *ProfileService) UpdateCover(ctx context.Context, userID uuid.UUID, upload Upload) (*models.UserResponse, error) {
	return svc.updateMedia(ctx, userID, upload, true)
}

func (svc *ProfileService) updateMedia(ctx context.Context, userID uuid.UUID, upload Upload, cover bool) (*models.UserResponse, error) {
	current, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load user", "err", err)
		return nil, apperrors.Internal(err)
	}
	if current == nil {
		return nil, apperrors.Auth("invalid access token")
	}

	ref, err := svc.UploadMedia(ctx, upload)
	if err != nil {
		return nil, err
	}

	updated, err := svc.writer.UpdateMedia(ctx, userID, ref, cover)
	if err != nil {
		logger.Log.Errorw("failed to store media ref", "err", err)
		return nil, apperrors.Internal(err)
	}

	oldID := current.AvatarID
	if cover {
		oldID = current.CoverID
	}
	if oldID != "" {
		if err := svc.blobs.Delete(ctx, oldID); err != nil {
			// The new file is already live; a stale blob is not worth
			// failing the request over.
			logger.Log.Warnw("failed to delete replaced media", "external_id", oldID, "err", err)
		}
	}

	return updated.Sanitize(), nil
}
