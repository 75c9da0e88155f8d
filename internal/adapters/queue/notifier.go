// Package queue moves invitation notices off the request path through a Redis list. The
// notifier pushes, the worker pops and delivers through a synchronous gateway.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"sharedliving/internal/domain"
)

// DefaultKey is the Redis list used when no key is configured.
const DefaultKey = "sharedliving:notifications:invitations"

// job is the queued payload.
type job struct {
	Attempts int                         `json:"attempts"`
	Data     *domain.InvitationEmailData `json:"data"`
}

type redisNotifier struct {
	client redis.Cmdable
	key    string
	logger *slog.Logger
}

// NewRedisNotifier returns a NotificationGateway that enqueues notices instead of sending them.
func NewRedisNotifier(client redis.Cmdable, key string, logger *slog.Logger) domain.NotificationGateway {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &redisNotifier{client: client, key: key, logger: logger}
}

func (n *redisNotifier) SendInvitationEmail(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	return push(ctx, n.client, n.key, job{Data: data})
}

func push(ctx context.Context, client redis.Cmdable, key string, j job) error {
	payload, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := client.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}
