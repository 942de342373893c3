package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/models"
)

func TestRefreshHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRotator(ctrl)
	newPair := &models.TokenPair{AccessToken: "NEW_ACCESS", RefreshToken: "NEW_REFRESH"}

	t.Run("token from cookie", func(t *testing.T) {
		mockSvc.EXPECT().Rotate(gomock.Any(), "OLD_REFRESH").Return(newPair, nil)

		req := httptest.NewRequest(http.MethodPost, "/refresh-tokens", nil)
		req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "OLD_REFRESH"})
		w := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, 15*time.Minute, 240*time.Hour).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "tokens rotated successfully", env.Message)

		var pair models.TokenPair
		assert.NoError(t, json.Unmarshal(env.Data, &pair))
		assert.Equal(t, "NEW_ACCESS", pair.AccessToken)

		refresh := cookieByName(w.Result().Cookies(), RefreshTokenCookie)
		assert.NotNil(t, refresh)
		assert.Equal(t, "NEW_REFRESH", refresh.Value)
	})

	t.Run("token from body when cookie absent", func(t *testing.T) {
		mockSvc.EXPECT().Rotate(gomock.Any(), "OLD_REFRESH").Return(newPair, nil)

		body, _ := json.Marshal(RefreshRequest{RefreshToken: "OLD_REFRESH"})
		req := httptest.NewRequest(http.MethodPost, "/refresh-tokens", bytes.NewReader(body))
		w := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, 15*time.Minute, 240*time.Hour).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie wins over body", func(t *testing.T) {
		mockSvc.EXPECT().Rotate(gomock.Any(), "COOKIE_TOKEN").Return(newPair, nil)

		body, _ := json.Marshal(RefreshRequest{RefreshToken: "BODY_TOKEN"})
		req := httptest.NewRequest(http.MethodPost, "/refresh-tokens", bytes.NewReader(body))
		req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "COOKIE_TOKEN"})
		w := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, 15*time.Minute, 240*time.Hour).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh-tokens", nil)
		w := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, 15*time.Minute, 240*time.Hour).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "refresh token is missing", env.Message)
	})

	t.Run("already-used token", func(t *testing.T) {
		mockSvc.EXPECT().
			Rotate(gomock.Any(), "USED_TOKEN").
			Return(nil, apperrors.Auth("refresh token revoked or already used"))

		req := httptest.NewRequest(http.MethodPost, "/refresh-tokens", nil)
		req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "USED_TOKEN"})
		w := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, 15*time.Minute, 240*time.Hour).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "refresh token revoked or already used", env.Message)
	})
}
