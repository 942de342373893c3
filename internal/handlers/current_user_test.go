package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
)

func TestCurrentUserHandler(t *testing.T) {
	user := &models.UserResponse{UserID: uuid.New(), Username: "alice", Email: "alice@example.com"}

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
		req = req.WithContext(middlewares.WithUser(req.Context(), user))
		w := httptest.NewRecorder()

		NewCurrentUserHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "current user fetched successfully", env.Message)

		var got models.UserResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, user.UserID, got.UserID)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("not authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
		w := httptest.NewRecorder()

		NewCurrentUserHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "unauthorized request", env.Message)
	})
}
