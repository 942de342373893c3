package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/playtube/playtube/internal/apperrors"
	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/models"
)

// SubscriptionReader answers aggregation queries over the subscriber
// edge set.
type SubscriptionReader interface {
	GetChannelStats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
}

// ChannelStatsCache caches channel edge counts.
type ChannelStatsCache interface {
	GetChannelStats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error)
	SetChannelStats(ctx context.Context, channelID uuid.UUID, stats *models.ChannelStats) error
}

// WatchHistoryReader resolves a user's watch history.
type WatchHistoryReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.WatchEntry, error)
}

// ChannelService serves channel profiles and watch history, both pure
// reads composed from joins.
type ChannelService struct {
	users         UserReader
	subscriptions SubscriptionReader
	cache         ChannelStatsCache
	history       WatchHistoryReader
}

// NewChannelService creates a new ChannelService instance.
func NewChannelService(users UserReader, subscriptions SubscriptionReader, cache ChannelStatsCache, history WatchHistoryReader) *ChannelService {
	return &ChannelService{
		users:         users,
		subscriptions: subscriptions,
		cache:         cache,
		history:       history,
	}
}

// GetChannelProfile resolves a channel by username and aggregates its
// edge counts. IsSubscribed is computed only when a viewer is present.
func (svc *ChannelService) GetChannelProfile(ctx context.Context, viewerID *uuid.UUID, username string) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}

	channel, err := svc.users.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to resolve channel", "username", username, "err", err)
		return nil, apperrors.Internal(err)
	}
	if channel == nil {
		return nil, apperrors.NotFound("channel does not exist")
	}

	stats, err := svc.cache.GetChannelStats(ctx, channel.UserID)
	if err != nil {
		stats, err = svc.subscriptions.GetChannelStats(ctx, channel.UserID)
		if err != nil {
			logger.Log.Errorw("failed to aggregate channel stats", "channel_id", channel.UserID, "err", err)
			return nil, apperrors.Internal(err)
		}

		if err := svc.cache.SetChannelStats(ctx, channel.UserID, stats); err != nil {
			logger.Log.Errorw("failed to cache channel stats", "channel_id", channel.UserID, "err", err)
		}
	}

	isSubscribed := false
	if viewerID != nil {
		isSubscribed, err = svc.subscriptions.IsSubscribed(ctx, *viewerID, channel.UserID)
		if err != nil {
			logger.Log.Errorw("failed to check subscription", "channel_id", channel.UserID, "err", err)
			return nil, apperrors.Internal(err)
		}
	}

	return &models.ChannelProfile{
		UserID:          channel.UserID,
		Username:        channel.Username,
		FullName:        channel.FullName,
		Avatar:          models.MediaRef{URL: channel.AvatarURL, ExternalID: channel.AvatarID},
		CoverImage:      models.MediaRef{URL: channel.CoverURL, ExternalID: channel.CoverID},
		SubscriberCount: stats.SubscriberCount,
		SubscribedCount: stats.SubscribedCount,
		IsSubscribed:    isSubscribed,
		CreatedAt:       channel.CreatedAt,
	}, nil
}

// GetWatchHistory returns the viewer's watch history most-recent-first.
// Entries whose video or owner is gone are dropped by the read-side
// join, never surfaced as errors.
func (svc *ChannelService) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchEntry, error) {
	entries, err := svc.history.GetByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load watch history", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return entries, nil
}
