// Package event streams security events (signups, logins, failed
// logins) to Kafka. Publishing is best effort: a broker outage never
// fails the request that produced the event.
package event

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"snapdish/internal/config"
	"snapdish/internal/model"
)

const (
	TypeSignup      = "user.signup"
	TypeLogin       = "user.login"
	TypeLoginFailed = "user.login_failed"
)

// SecurityEvent is the wire format on the event topic. The email is
// hashed before it leaves the process; passwords never appear here.
type SecurityEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	EmailHash  string    `json:"email_hash"`
	ClientAddr string    `json:"client_addr"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher writes security events to Kafka. A nil-writer publisher is
// valid and drops everything, so callers need no broker-awareness.
type Publisher struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewPublisher builds a publisher for the configured brokers. With no
// brokers configured the publisher is disabled rather than an error.
func NewPublisher(cfg *config.Config, logger *zap.Logger) *Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, security events disabled")
		return &Publisher{logger: logger}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.EventTopic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("failed to write security events",
					zap.Error(err),
					zap.Int("message_count", len(messages)))
			}
		},
	}

	logger.Info("Kafka security event publisher initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.EventTopic))

	return &Publisher{writer: writer, topic: cfg.EventTopic, logger: logger}
}

// Publish emits one security event. Errors are logged, never returned.
func (p *Publisher) Publish(ctx context.Context, eventType, userID, email, clientAddr string) {
	if p.writer == nil {
		return
	}

	evt := SecurityEvent{
		Type:       eventType,
		UserID:     userID,
		EmailHash:  hashEmail(email),
		ClientAddr: clientAddr,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("failed to encode security event", zap.Error(err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.EmailHash),
		Value: payload,
	})
	if err != nil {
		p.logger.Warn("failed to publish security event",
			zap.String("type", eventType),
			zap.Error(err))
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(model.NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}
