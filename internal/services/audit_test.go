package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("publishes the event payload", func(t *testing.T) {
		mockWriter := NewMockKafkaWriter(ctrl)
		mockWriter.EXPECT().
			WriteMessages(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				require.Len(t, msgs, 1)
				assert.Equal(t, userID.String(), string(msgs[0].Key))

				var evt AuditEvent
				require.NoError(t, json.Unmarshal(msgs[0].Value, &evt))
				assert.Equal(t, AuditUserLoggedIn, evt.Event)
				assert.Equal(t, userID.String(), evt.UserID)
				assert.NotEmpty(t, evt.EventID)
				assert.NotZero(t, evt.Timestamp)
				return nil
			})

		publishAudit(ctx, mockWriter, AuditUserLoggedIn, userID)
	})

	t.Run("nil writer skips publishing", func(t *testing.T) {
		publishAudit(ctx, nil, AuditUserLoggedIn, userID)
	})

	t.Run("write failure never propagates", func(t *testing.T) {
		mockWriter := NewMockKafkaWriter(ctrl)
		mockWriter.EXPECT().
			WriteMessages(ctx, gomock.Any()).
			Return(errors.New("broker unreachable"))

		publishAudit(ctx, mockWriter, AuditTokensRotated, userID)
	})
}

func TestAuditCoversLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := NewMockUserReader(ctrl)
	mockWriter := NewMockUserWriter(ctrl)
	mockJWT := NewMockTokenIssuer(ctrl)
	mockAudit := NewMockKafkaWriter(ctrl)

	svc := NewAuthService(mockReader, mockWriter, mockJWT, mockAudit)
	ctx := context.Background()
	userID := uuid.New()

	mockWriter.EXPECT().SetRefreshToken(ctx, userID, (*string)(nil)).Return(nil)
	mockAudit.EXPECT().
		WriteMessages(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			var evt AuditEvent
			require.NoError(t, json.Unmarshal(msgs[0].Value, &evt))
			assert.Equal(t, AuditUserLoggedOut, evt.Event)
			return nil
		})

	assert.NoError(t, svc.Logout(ctx, userID))
}
