package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
)

// WatchHistorian defines the watch-history read the handler needs.
type WatchHistorian interface {
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchEntry, error)
}

// NewWatchHistoryHandler returns the HTTP handler for the viewer's
// watch history, most-recent-first. Entries whose video or owner no
// longer exists are dropped, not errored.
// @Summary Get the watch history
// @Description Resolves the authenticated user's watched videos with their owners, in watch order
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.WatchEntry} "Watch history"
// @Failure 401 {object} models.Envelope "Not authenticated"
// @Router /watch-history [get]
func NewWatchHistoryHandler(svc WatchHistorian) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			writeError(w, apperrors.Auth("unauthorized request"))
			return
		}

		entries, err := svc.GetWatchHistory(r.Context(), user.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeEnvelope(w, http.StatusOK, entries, "watch history fetched successfully")
	}
}
