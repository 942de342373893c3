package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionReadRepositoryGetChannelStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionReadRepository(db)
	ctx := context.Background()

	channelID := uuid.New()

	t.Run("counts both edge directions", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM subscriptions").
			WithArgs(channelID).
			WillReturnRows(sqlmock.NewRows([]string{"subscriber_count", "subscribed_count"}).AddRow(42, 7))

		stats, err := repo.GetChannelStats(ctx, channelID)
		require.NoError(t, err)
		assert.Equal(t, int64(42), stats.SubscriberCount)
		assert.Equal(t, int64(7), stats.SubscribedCount)
	})

	t.Run("zero edges", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM subscriptions").
			WithArgs(channelID).
			WillReturnRows(sqlmock.NewRows([]string{"subscriber_count", "subscribed_count"}).AddRow(0, 0))

		stats, err := repo.GetChannelStats(ctx, channelID)
		require.NoError(t, err)
		assert.Zero(t, stats.SubscriberCount)
		assert.Zero(t, stats.SubscribedCount)
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM subscriptions").
			WithArgs(channelID).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetChannelStats(ctx, channelID)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionReadRepositoryIsSubscribed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionReadRepository(db)
	ctx := context.Background()

	subscriberID := uuid.New()
	channelID := uuid.New()

	t.Run("edge exists", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(subscriberID, channelID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		subscribed, err := repo.IsSubscribed(ctx, subscriberID, channelID)
		require.NoError(t, err)
		assert.True(t, subscribed)
	})

	t.Run("no edge", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(subscriberID, channelID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		subscribed, err := repo.IsSubscribed(ctx, subscriberID, channelID)
		require.NoError(t, err)
		assert.False(t, subscribed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

var watchHistoryColumns = []string{
	"video_id", "title", "thumbnail_url", "duration_seconds", "watched_at",
	"owner_id", "owner_username", "owner_full_name", "owner_avatar_url", "owner_avatar_id",
}

func TestWatchHistoryRepositoryGetByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWatchHistoryRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	ownerID := uuid.New()
	newest := uuid.New()
	older := uuid.New()
	now := time.Now().UTC()

	t.Run("rows map to entries most-recent-first", func(t *testing.T) {
		rows := sqlmock.NewRows(watchHistoryColumns).
			AddRow(newest, "newest video", "https://cdn/t1.png", 120, now,
				ownerID, "bob", "Bob", "https://cdn/bob.png", "media/bob").
			AddRow(older, "older video", "https://cdn/t2.png", 60, now.Add(-time.Hour),
				ownerID, "bob", "Bob", "https://cdn/bob.png", "media/bob")

		mock.ExpectQuery("SELECT (.+) FROM watch_history wh").
			WithArgs(userID).
			WillReturnRows(rows)

		entries, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, newest, entries[0].VideoID)
		assert.Equal(t, "newest video", entries[0].Title)
		assert.Equal(t, 120, entries[0].DurationSeconds)
		assert.Equal(t, ownerID, entries[0].Owner.UserID)
		assert.Equal(t, "bob", entries[0].Owner.Username)
		assert.Equal(t, "https://cdn/bob.png", entries[0].Owner.Avatar.URL)

		assert.Equal(t, older, entries[1].VideoID)
	})

	t.Run("empty history is an empty slice, not nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM watch_history wh").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(watchHistoryColumns))

		entries, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM watch_history wh").
			WithArgs(userID).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByUserID(ctx, userID)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
