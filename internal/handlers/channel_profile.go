package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
)

// ChannelProfiler defines the channel aggregation the handler needs.
type ChannelProfiler interface {
	GetChannelProfile(ctx context.Context, viewerID *uuid.UUID, username string) (*models.ChannelProfile, error)
}

// NewChannelProfileHandler returns the HTTP handler for channel
// profiles. Authentication is optional: an authenticated viewer gets
// their subscription state, anonymous viewers get isSubscribed=false.
// @Summary Get a channel profile
// @Description Resolves a channel by username and aggregates subscriber counts and the viewer's subscription state
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} models.Envelope{data=models.ChannelProfile} "Channel profile"
// @Failure 404 {object} models.Envelope "Channel does not exist"
// @Router /channel/{username} [get]
func NewChannelProfileHandler(svc ChannelProfiler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		var viewerID *uuid.UUID
		if viewer := middlewares.UserFromContext(r.Context()); viewer != nil {
			viewerID = &viewer.UserID
		}

		profile, err := svc.GetChannelProfile(r.Context(), viewerID, username)
		if err != nil {
			writeError(w, err)
			return
		}

		writeEnvelope(w, http.StatusOK, profile, "channel profile fetched successfully")
	}
}
