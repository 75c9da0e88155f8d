package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the invitation notice.
type InvitationEmailData struct {
	InvitationID  string    `json:"invitation_id"`
	To            string    `json:"to"`
	InviterName   string    `json:"inviter_name"`
	HouseholdName string    `json:"household_name"`
	Link          string    `json:"link"`
	Role          Role      `json:"role"`
	Message       string    `json:"message"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NotificationGateway delivers invitation notices on a best-effort basis. Callers log failures
// and never propagate them as request errors.
type NotificationGateway interface {
	SendInvitationEmail(ctx context.Context, data *InvitationEmailData) error
}
