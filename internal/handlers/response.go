// Package handlers wires the HTTP endpoints. Each handler is a thin
// composition layer: decode, call a service, translate the result into
// the uniform response envelope.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/middlewares"
	"github.com/playtube/playtube/internal/models"
)

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "REFRESH_TOKEN"

// writeEnvelope emits the uniform {statusCode, success, data, message}
// body. Status and body are written together at the end of a handler;
// nothing partial ever precedes an error.
func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.Envelope{
		StatusCode: status,
		Success:    status < 400,
		Data:       data,
		Message:    message,
	})
}

// writeError is the single translation point from the error taxonomy to
// HTTP. Unexpected errors are logged with their cause and surface as a
// bare 500 envelope.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindUpstream {
		logger.Log.Errorw("request failed", "kind", appErr.Kind, "err", appErr.Unwrap())
	}
	writeEnvelope(w, apperrors.HTTPStatus(appErr.Kind), nil, appErr.Message)
}

// setAuthCookies stores the token pair as httpOnly, secure cookies.
func setAuthCookies(w http.ResponseWriter, pair *models.TokenPair, accessExp, refreshExp time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(accessExp.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshExp.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middlewares.AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0).UTC(),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
