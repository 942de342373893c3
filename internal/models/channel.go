package models

import (
	"time"

	"github.com/google/uuid"
)

// ChannelStats holds the aggregated edge counts for a channel. It is the
// unit cached in redis.
type ChannelStats struct {
	SubscriberCount int64 `json:"subscriberCount"`
	SubscribedCount int64 `json:"subscribedCount"`
}

// ChannelProfile is the read-only channel projection returned by
// GET /channel/{username}. IsSubscribed is only meaningful when the
// request carried an authenticated viewer.
// swagger:model ChannelProfile
type ChannelProfile struct {
	UserID          uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"fullName"`
	Avatar          MediaRef  `json:"avatar"`
	CoverImage      MediaRef  `json:"coverImage"`
	SubscriberCount int64     `json:"subscriberCount"`
	SubscribedCount int64     `json:"subscribedCount"`
	IsSubscribed    bool      `json:"isSubscribed"`
	CreatedAt       time.Time `json:"createdAt"`
}
