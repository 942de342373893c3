package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/models"
)

// Loginer defines the login operation the handler needs.
type Loginer interface {
	Login(ctx context.Context, email, password string) (*models.UserResponse, *models.TokenPair, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// example: alice@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// LoginResult carries the sanitized user and the issued token pair.
// swagger:model LoginResult
type LoginResult struct {
	User   *models.UserResponse `json:"user"`
	Tokens models.TokenPair     `json:"tokens"`
}

// NewLoginHandler returns the HTTP handler for user login. On success
// the token pair is returned in the body and set as httpOnly cookies.
// @Summary User login
// @Description Authenticate by email and password and issue an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} models.Envelope{data=handlers.LoginResult} "User and tokens"
// @Failure 400 {object} models.Envelope "Invalid request body"
// @Failure 401 {object} models.Envelope "Invalid email or password"
// @Router /login [post]
func NewLoginHandler(svc Loginer, accessExp, refreshExp time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("invalid request body"))
			return
		}

		user, pair, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		setAuthCookies(w, pair, accessExp, refreshExp)
		writeEnvelope(w, http.StatusOK, LoginResult{User: user, Tokens: *pair}, "logged in successfully")
	}
}
