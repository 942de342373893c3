package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
)

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)
	userID := uuid.New()
	user := &models.UserResponse{UserID: userID, Username: "alice"}

	t.Run("success clears cookies", func(t *testing.T) {
		mockSvc.EXPECT().Logout(gomock.Any(), userID).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req = req.WithContext(middlewares.WithUser(req.Context(), user))
		w := httptest.NewRecorder()

		NewLogoutHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "logged out successfully", env.Message)

		for _, name := range []string{middlewares.AccessTokenCookie, RefreshTokenCookie} {
			c := cookieByName(w.Result().Cookies(), name)
			assert.NotNil(t, c)
			assert.Empty(t, c.Value)
			assert.Equal(t, -1, c.MaxAge)
		}
	})

	t.Run("no authenticated user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		w := httptest.NewRecorder()

		NewLogoutHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		mockSvc.EXPECT().Logout(gomock.Any(), userID).Return(apperrors.Internal(assert.AnError))

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req = req.WithContext(middlewares.WithUser(req.Context(), user))
		w := httptest.NewRecorder()

		NewLogoutHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
