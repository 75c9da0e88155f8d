package services

import (
	"context"
	"fmt"
	"log/slog"

	"sharedliving/internal/domain"
)

const invitationTemplate = "invitation"

type notificationGateway struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewNotificationGateway returns a NotificationGateway that renders the invitation template and
// sends it through mailer.
func NewNotificationGateway(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.NotificationGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationGateway{mailer: mailer, renderer: renderer, logger: logger}
}

// SendInvitationEmail sends the invitation notice to data.To.
func (g *notificationGateway) SendInvitationEmail(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	subject, htmlBody, textBody, err := g.renderer.Render(invitationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render invitation template: %w", err)
	}
	if err := g.mailer.Send(ctx, data.To, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	g.logger.InfoContext(ctx, "invitation email sent", "invitation_id", data.InvitationID, "to", data.To)
	return nil
}
