package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaRef points at a file stored on the external blob host. ExternalID
// is kept so the file can be deleted when it is replaced.
type MediaRef struct {
	URL        string `json:"url"`
	ExternalID string `json:"externalId"`
}

// UserDB represents a user record in the database. PasswordHash and
// CurrentRefreshToken never leave the repository layer; outward paths go
// through Sanitize.
type UserDB struct {
	UserID              uuid.UUID `db:"user_id"`
	Username            string    `db:"username"` // stored lowercase
	Email               string    `db:"email"`
	FullName            string    `db:"full_name"`
	PasswordHash        string    `db:"password_hash"`
	AvatarURL           string    `db:"avatar_url"`
	AvatarID            string    `db:"avatar_id"`
	CoverURL            string    `db:"cover_url"`
	CoverID             string    `db:"cover_id"`
	CurrentRefreshToken *string   `db:"current_refresh_token"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// UserResponse is the sanitized user projection returned to clients.
// swagger:model UserResponse
type UserResponse struct {
	UserID     uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     MediaRef  `json:"avatar"`
	CoverImage MediaRef  `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Sanitize strips the password hash and refresh token from a user record.
func (u *UserDB) Sanitize() *UserResponse {
	return &UserResponse{
		UserID:     u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     MediaRef{URL: u.AvatarURL, ExternalID: u.AvatarID},
		CoverImage: MediaRef{URL: u.CoverURL, ExternalID: u.CoverID},
		CreatedAt:  u.CreatedAt,
	}
}
