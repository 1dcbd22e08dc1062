// Package notify tells users about the outcome of work they started, such as an import batch
// that another user approved or rejected.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/go-redis/redis/v8"
)

// Kind identifies the event a notification reports.
type Kind string

const (
	ImportCommitted Kind = "import.committed"
	ImportRejected  Kind = "import.rejected"
)

// Notification is delivered to a single user.
type Notification struct {
	UserID    string    `json:"userID"`
	Kind      Kind      `json:"kind"`
	BatchID   string    `json:"batchID"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier delivers notifications. Callers treat a delivery error as a failure of the
// surrounding operation.
//
// Import review sends from inside its database transaction, before commit. A delivery
// error rolls the review back, but a commit that fails after a successful delivery
// leaves the user with a message for a batch that is still PENDING_REVIEW. Consumers
// should confirm the batch status before acting on a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// RedisNotifier appends notifications to a per-user Redis list that the web app drains.
type RedisNotifier struct {
	client redis.Cmdable
	prefix string
}

// NewRedisNotifier creates a notifier writing to "<prefix>:<userID>".
func NewRedisNotifier(client redis.Cmdable, prefix string) *RedisNotifier {
	if prefix == "" {
		prefix = "notifications"
	}
	return &RedisNotifier{client: client, prefix: prefix}
}

// QueueKey returns the list a user's notifications are pushed to.
func (r *RedisNotifier) QueueKey(userID string) string {
	return r.prefix + ":" + userID
}

// Notify pushes n onto the user's queue.
func (r *RedisNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := r.client.RPush(ctx, r.QueueKey(n.UserID), string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to push notification for user %s: %w", n.UserID, err)
	}
	return nil
}

// LogNotifier writes notifications to the request logger. Used when no Redis is configured.
type LogNotifier struct{}

// Notify logs n and never fails.
func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification",
		slog.String("user_id", n.UserID),
		slog.String("kind", string(n.Kind)),
		slog.String("batch_id", n.BatchID),
		slog.String("message", n.Message),
	)
	return nil
}
