package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/models"
)

// ChannelStatsCacheRepository caches channel edge counts in Redis so the
// COUNT aggregation is not repeated on every profile read.
type ChannelStatsCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewChannelStatsCacheRepository creates a cache repository with the
// given entry TTL.
func NewChannelStatsCacheRepository(client *redis.Client, expiration time.Duration) *ChannelStatsCacheRepository {
	return &ChannelStatsCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func channelStatsKey(channelID uuid.UUID) string {
	return fmt.Sprintf("channel_stats:%s", channelID)
}

// GetChannelStats fetches cached counts for a channel. A cache miss is
// an error so callers fall through to the database.
func (r *ChannelStatsCacheRepository) GetChannelStats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	key := channelStatsKey(channelID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("channel stats cache miss",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("channel stats not cached for %s", channelID)
		}
		return nil, err
	}

	var stats models.ChannelStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		logger.Log.Infow("channel stats cache decode failed",
			"key", key,
			"value", val,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("channel stats cache hit",
		"key", key,
		"result", stats,
	)

	return &stats, nil
}

// SetChannelStats caches counts for a channel with the configured TTL.
func (r *ChannelStatsCacheRepository) SetChannelStats(ctx context.Context, channelID uuid.UUID, stats *models.ChannelStats) error {
	key := channelStatsKey(channelID)

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("channel stats cached",
		"key", key,
		"stats", stats,
		"error", err,
	)

	return err
}
