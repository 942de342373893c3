package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoDB represents a video record in the database.
type VideoDB struct {
	VideoID         uuid.UUID `db:"video_id"`
	OwnerID         uuid.UUID `db:"owner_id"`
	Title           string    `db:"title"`
	ThumbnailURL    string    `db:"thumbnail_url"`
	DurationSeconds int       `db:"duration_seconds"`
	CreatedAt       time.Time `db:"created_at"`
}

// OwnerSummary is the minimal projection of a video's owning user used
// inside watch-history entries.
type OwnerSummary struct {
	UserID   uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   MediaRef  `json:"avatar"`
}

// WatchEntry pairs a watched video with its owner, in watch order.
// swagger:model WatchEntry
type WatchEntry struct {
	VideoID         uuid.UUID    `json:"videoId"`
	Title           string       `json:"title"`
	ThumbnailURL    string       `json:"thumbnailUrl"`
	DurationSeconds int          `json:"durationSeconds"`
	WatchedAt       time.Time    `json:"watchedAt"`
	Owner           OwnerSummary `json:"owner"`
}
