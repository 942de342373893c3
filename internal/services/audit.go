package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/playtube/playtube/internal/logger"
)

// Audit event names published on the auth lifecycle topic.
const (
	AuditUserRegistered  = "user_registered"
	AuditUserLoggedIn    = "user_logged_in"
	AuditUserLoggedOut   = "user_logged_out"
	AuditTokensRotated   = "tokens_rotated"
	AuditPasswordChanged = "password_changed"
)

// AuditEvent is the JSON payload written to Kafka.
type AuditEvent struct {
	EventID   string `json:"event_id"`
	Event     string `json:"event"`
	UserID    string `json:"user_id"`
	Timestamp int64  `json:"timestamp"`
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// publishAudit writes an auth lifecycle event to Kafka. Publishing is
// best-effort: failures are logged and never fail the request.
func publishAudit(ctx context.Context, w KafkaWriter, event string, userID uuid.UUID) {
	if w == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping audit event", "event", event)
		return
	}

	evt := AuditEvent{
		EventID:   uuid.NewString(),
		Event:     event,
		UserID:    userID.String(),
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("Failed to marshal audit event", "event", event, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.UserID),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish audit event", "event", event, "user_id", evt.UserID, "error", err)
	} else {
		logger.Log.Infow("Audit event published", "event", event, "user_id", evt.UserID)
	}
}
