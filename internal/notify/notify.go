// Package notify delivers password reset tokens outside the HTTP response.
package notify

import (
	"context" // Request context for Redis operations
	"fmt"     // Error wrapping
	"time"    // Token expiry

	"github.com/sb141/personal-finance-project/internal/utils" // Envelope signing

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// ResetMessage is what a user needs to complete a password reset
type ResetMessage struct {
	UserID    uint      // Recipient user ID
	Username  string    // Recipient username
	Token     string    // Reset token to deliver
	ExpiresAt time.Time // Token expiry in UTC
}

// ResetNotifier hands a reset token to whatever delivers it to the user
type ResetNotifier interface {
	SendResetToken(ctx context.Context, msg ResetMessage) error
}

// listPusher is the slice of the redis client the queue needs
type listPusher interface {
	RPush(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisQueue pushes signed reset envelopes onto a Redis list.
// A mail worker pops them, verifies them with utils.ParseResetEnvelope and sends the email.
type RedisQueue struct {
	client listPusher // Redis client
	key    string     // List receiving the envelopes
	secret string     // Envelope signing key
}

// NewRedisQueue creates a queue writing to the list at key
func NewRedisQueue(client listPusher, key, secret string) *RedisQueue {
	return &RedisQueue{client: client, key: key, secret: secret}
}

// SendResetToken signs msg and appends it to the queue
func (q *RedisQueue) SendResetToken(ctx context.Context, msg ResetMessage) error {
	envelope, err := utils.SignResetEnvelope(msg.UserID, msg.Username, msg.Token, msg.ExpiresAt, q.secret)
	if err != nil {
		return fmt.Errorf("sign reset envelope: %w", err)
	}
	// Append to the tail so the worker pops oldest first
	if err := q.client.RPush(ctx, q.key, envelope).Err(); err != nil {
		return fmt.Errorf("push reset envelope: %w", err)
	}
	return nil
}

// LogNotifier records that a reset was requested without delivering it.
// It is used when no queue is configured.
type LogNotifier struct{}

// SendResetToken logs the request, the token itself is never logged
func (LogNotifier) SendResetToken(_ context.Context, msg ResetMessage) error {
	logrus.WithFields(logrus.Fields{
		"user_id":    msg.UserID,
		"expires_at": msg.ExpiresAt.Format(time.RFC3339),
	}).Warn("Password reset requested but no delivery queue is configured")
	return nil
}
