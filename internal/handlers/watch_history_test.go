package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
)

func TestWatchHistoryHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockWatchHistorian(ctrl)
	userID := uuid.New()
	user := &models.UserResponse{UserID: userID, Username: "alice"}

	t.Run("success", func(t *testing.T) {
		entries := []models.WatchEntry{
			{
				VideoID:         uuid.New(),
				Title:           "second watched",
				DurationSeconds: 120,
				WatchedAt:       time.Now().UTC(),
				Owner:           models.OwnerSummary{Username: "bob"},
			},
			{
				VideoID:         uuid.New(),
				Title:           "first watched",
				DurationSeconds: 60,
				WatchedAt:       time.Now().UTC().Add(-time.Hour),
				Owner:           models.OwnerSummary{Username: "carol"},
			},
		}
		mockSvc.EXPECT().GetWatchHistory(gomock.Any(), userID).Return(entries, nil)

		req := httptest.NewRequest(http.MethodGet, "/watch-history", nil)
		req = req.WithContext(middlewares.WithUser(req.Context(), user))
		w := httptest.NewRecorder()

		NewWatchHistoryHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "watch history fetched successfully", env.Message)

		var got []models.WatchEntry
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
		assert.Equal(t, "second watched", got[0].Title)
		assert.Equal(t, "bob", got[0].Owner.Username)
	})

	t.Run("empty history", func(t *testing.T) {
		mockSvc.EXPECT().GetWatchHistory(gomock.Any(), userID).Return([]models.WatchEntry{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/watch-history", nil)
		req = req.WithContext(middlewares.WithUser(req.Context(), user))
		w := httptest.NewRecorder()

		NewWatchHistoryHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/watch-history", nil)
		w := httptest.NewRecorder()

		NewWatchHistoryHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
