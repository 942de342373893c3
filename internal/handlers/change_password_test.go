package handlers

import (
	"bytes"
	"encoding/json"
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

func TestChangePasswordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPasswordChanger(ctrl)
	userID := uuid.New()
	user := &models.UserResponse{UserID: userID, Username: "alice"}

	tests := []struct {
		name          string
		authenticated bool
		inputBody     interface{}
		mockSetup     func()
		expectedCode  int
		expectedMsg   string
	}{
		{
			name:          "success",
			authenticated: true,
			inputBody:     ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "new-secret"},
			mockSetup: func() {
				mockSvc.EXPECT().
					ChangePassword(gomock.Any(), userID, "old-secret", "new-secret").
					Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedMsg:  "password changed successfully",
		},
		{
			name:          "wrong old password",
			authenticated: true,
			inputBody:     ChangePasswordRequest{OldPassword: "wrong", NewPassword: "new-secret"},
			mockSetup: func() {
				mockSvc.EXPECT().
					ChangePassword(gomock.Any(), userID, "wrong", "new-secret").
					Return(apperrors.Auth("old password is incorrect"))
			},
			expectedCode: http.StatusUnauthorized,
			expectedMsg:  "old password is incorrect",
		},
		{
			name:          "invalid JSON",
			authenticated: true,
			inputBody:     "{invalid json}",
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedMsg:   "invalid request body",
		},
		{
			name:          "not authenticated",
			authenticated: false,
			inputBody:     ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "new-secret"},
			mockSetup:     func() {},
			expectedCode:  http.StatusUnauthorized,
			expectedMsg:   "unauthorized request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			var bodyBytes []byte
			switch v := tt.inputBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/change-password", bytes.NewReader(bodyBytes))
			if tt.authenticated {
				req = req.WithContext(middlewares.WithUser(req.Context(), user))
			}
			w := httptest.NewRecorder()

			NewChangePasswordHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.expectedMsg, env.Message)
		})
	}
}
