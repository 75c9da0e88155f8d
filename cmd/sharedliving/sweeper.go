package main

import (
	"context"
	"log/slog"
	"time"

	"sharedliving/internal/domain"
)

// runExpirySweeper retires overdue pending invitations every interval until ctx is done.
// Reads already expire lazily; the sweep keeps listings and the pending index tidy.
func runExpirySweeper(ctx context.Context, svc domain.InvitationService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, svc, logger)
		}
	}
}

func sweepOnce(ctx context.Context, svc domain.InvitationService, logger *slog.Logger) {
	n, err := svc.ExpireStaleInvitations(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "expire stale invitations", "error", err)
		return
	}
	if n > 0 {
		logger.InfoContext(ctx, "expired stale invitations", "count", n)
	}
}
