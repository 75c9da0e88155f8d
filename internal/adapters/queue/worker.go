package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sharedliving/internal/domain"
)

const (
	defaultPollTimeout = 2 * time.Second
	defaultMaxAttempts = 3
)

// Worker drains the notification list and hands each notice to the delivering gateway.
type Worker struct {
	client      *redis.Client
	key         string
	gateway     domain.NotificationGateway
	logger      *slog.Logger
	PollTimeout time.Duration
	MaxAttempts int
}

// NewWorker returns a Worker reading key and delivering through gateway.
func NewWorker(client *redis.Client, key string, gateway domain.NotificationGateway, logger *slog.Logger) *Worker {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		client:      client,
		key:         key,
		gateway:     gateway,
		logger:      logger,
		PollTimeout: defaultPollTimeout,
		MaxAttempts: defaultMaxAttempts,
	}
}

// Run processes notices until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notification worker started", "key", w.key)
	for {
		if ctx.Err() != nil {
			w.logger.Info("notification worker stopped")
			return
		}
		if _, err := w.ProcessNext(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("notification worker poll failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessNext waits up to PollTimeout for one notice and delivers it. It reports whether a
// notice was taken. Delivery failures are logged and requeued until MaxAttempts; they are
// not returned.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	res, err := w.client.BRPop(ctx, w.PollTimeout, w.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	// BRPOP replies with [key, value].
	if len(res) != 2 {
		return false, nil
	}

	var j job
	if err := json.Unmarshal([]byte(res[1]), &j); err != nil || j.Data == nil {
		w.logger.Warn("dropping malformed notification", "payload", res[1], "error", err)
		return true, nil
	}

	j.Attempts++
	if err := w.gateway.SendInvitationEmail(ctx, j.Data); err != nil {
		if j.Attempts >= w.MaxAttempts {
			w.logger.Warn("invitation notification dropped",
				"invitation_id", j.Data.InvitationID, "email", j.Data.To, "attempts", j.Attempts, "error", err)
			return true, nil
		}
		w.logger.Warn("invitation notification failed, requeueing",
			"invitation_id", j.Data.InvitationID, "email", j.Data.To, "attempts", j.Attempts, "error", err)
		if perr := push(ctx, w.client, w.key, j); perr != nil {
			w.logger.Error("requeue notification failed", "invitation_id", j.Data.InvitationID, "error", perr)
		}
	}
	return true, nil
}
