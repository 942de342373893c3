package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/playtube/playtube/internal/logger"
	"github.com/playtube/playtube/internal/models"
)

// SubscriptionReadRepository answers the aggregation queries over the
// directed subscriber->channel edge set. Edges are written by the
// subscription-toggle flow; this repository only reads them.
type SubscriptionReadRepository struct {
	db *sqlx.DB
}

func NewSubscriptionReadRepository(db *sqlx.DB) *SubscriptionReadRepository {
	return &SubscriptionReadRepository{db: db}
}

// GetChannelStats counts the edges pointing at a channel and the edges
// originating from it. The unique (subscriber_id, channel_id) constraint
// guarantees counts never include duplicate edges.
func (r *SubscriptionReadRepository) GetChannelStats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1)    AS subscriber_count,
			(SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1) AS subscribed_count
	`

	var stats struct {
		SubscriberCount int64 `db:"subscriber_count"`
		SubscribedCount int64 `db:"subscribed_count"`
	}
	err := r.db.GetContext(ctx, &stats, query, channelID)

	logger.Log.Infow("channel stats",
		"query", strings.Join(strings.Fields(query), " "),
		"channel_id", channelID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &models.ChannelStats{
		SubscriberCount: stats.SubscriberCount,
		SubscribedCount: stats.SubscribedCount,
	}, nil
}

// IsSubscribed reports whether an edge (subscriberID, channelID) exists.
func (r *SubscriptionReadRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE subscriber_id = $1 AND channel_id = $2
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, subscriberID, channelID)

	logger.Log.Infow("subscription exists",
		"query", strings.Join(strings.Fields(query), " "),
		"subscriber_id", subscriberID,
		"channel_id", channelID,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return exists, nil
}

// WatchHistoryRepository resolves a user's watch history to videos and
// their owners.
type WatchHistoryRepository struct {
	db *sqlx.DB
}

func NewWatchHistoryRepository(db *sqlx.DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// watchEntryRow is the flat join row scanned from the database.
type watchEntryRow struct {
	VideoID         uuid.UUID `db:"video_id"`
	Title           string    `db:"title"`
	ThumbnailURL    string    `db:"thumbnail_url"`
	DurationSeconds int       `db:"duration_seconds"`
	WatchedAt       time.Time `db:"watched_at"`
	OwnerID         uuid.UUID `db:"owner_id"`
	OwnerUsername   string    `db:"owner_username"`
	OwnerFullName   string    `db:"owner_full_name"`
	OwnerAvatarURL  string    `db:"owner_avatar_url"`
	OwnerAvatarID   string    `db:"owner_avatar_id"`
}

// GetByUserID returns the user's watch history most-recent-first. The
// inner joins drop entries whose video or owner no longer exists instead
// of failing the whole call.
func (r *WatchHistoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.WatchEntry, error) {
	const query = `
		SELECT v.video_id, v.title, v.thumbnail_url, v.duration_seconds,
		       wh.watched_at,
		       o.user_id AS owner_id, o.username AS owner_username,
		       o.full_name AS owner_full_name,
		       o.avatar_url AS owner_avatar_url, o.avatar_id AS owner_avatar_id
		FROM watch_history wh
		JOIN videos v ON v.video_id = wh.video_id
		JOIN users o  ON o.user_id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.position DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, userID)

	logger.Log.Infow("watch history",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.WatchEntry, 0)
	for rows.Next() {
		var row watchEntryRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		entries = append(entries, models.WatchEntry{
			VideoID:         row.VideoID,
			Title:           row.Title,
			ThumbnailURL:    row.ThumbnailURL,
			DurationSeconds: row.DurationSeconds,
			WatchedAt:       row.WatchedAt,
			Owner: models.OwnerSummary{
				UserID:   row.OwnerID,
				Username: row.OwnerUsername,
				FullName: row.OwnerFullName,
				Avatar:   models.MediaRef{URL: row.OwnerAvatarURL, ExternalID: row.OwnerAvatarID},
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
