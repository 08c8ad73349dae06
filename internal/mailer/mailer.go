// Package mailer dispatches confirmation-code mail to an external delivery
// channel. Delivery is fire-and-forget from the caller's perspective: the
// relay that actually speaks SMTP consumes the outbox out of process.
package mailer

import (
	"context"
	"encoding/json"
	"log/slog"

	"reviewhub/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Message is a single outbound mail.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers a message to the outbound channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes outbound mail to the application log. Used in development
// and tests, where no relay is attached.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	middleware.Logger.InfoContext(ctx, "outbound mail",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

// RedisOutbox pushes messages onto a Redis list consumed by the external
// mail relay.
type RedisOutbox struct {
	rdb     *redis.Client
	channel string
}

// NewRedisOutbox creates a RedisOutbox publishing to the given list key.
func NewRedisOutbox(rdb *redis.Client, channel string) *RedisOutbox {
	return &RedisOutbox{rdb: rdb, channel: channel}
}

func (o *RedisOutbox) Send(ctx context.Context, msg Message) error {
	if o.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return o.rdb.RPush(ctx, o.channel, payload).Err()
}
