package domain

import (
	"context"
	"time"
)

// Invitation is a token-addressable, time-limited offer to join a household with a preset role.
// Invitations are never deleted; terminal statuses retire them.
// swagger:model Invitation
type Invitation struct {
	ID          string           `json:"id"`
	Token       string           `json:"token"`
	Email       string           `json:"email"`
	HouseholdID string           `json:"household_id"`
	InviterID   string           `json:"inviter_id"`
	Role        Role             `json:"role"`
	Message     string           `json:"message"`
	Status      InvitationStatus `json:"status"`
	ExpiresAt   time.Time        `json:"expires_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// IsExpiredAt reports whether the invitation is still pending but past its expiry at now.
func (i *Invitation) IsExpiredAt(now time.Time) bool {
	return i.Status == InvitationPending && !now.Before(i.ExpiresAt)
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	// Create returns ErrConflict when a pending invitation for (email, household) already exists.
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	// FindPending returns ErrNotFound when no pending invitation exists for the pair.
	FindPending(ctx context.Context, email, householdID string) (*Invitation, error)
	// TransitionStatus is a compare-and-swap write: it updates status (and respondedAt/notes when
	// set) only if the current status equals from, and returns the number of rows affected.
	TransitionStatus(ctx context.Context, id string, from, to InvitationStatus, at time.Time, respondedAt *time.Time, notes *string) (int64, error)
	ListByHousehold(ctx context.Context, householdID string, status *InvitationStatus, params PaginationParams) ([]*Invitation, int, error)
	// ExpireStale moves every pending invitation whose expiry is at or before now to expired.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// TokenGenerator produces unguessable opaque invitation tokens.
type TokenGenerator interface {
	NewToken() (string, error)
}

// CreateInvitationInput carries the fields for InvitationService.CreateInvitation.
type CreateInvitationInput struct {
	InviterID      string
	Email          string
	HouseholdID    string
	Role           Role
	Message        string
	ExpirationDays int
}

// RespondInput carries the fields for InvitationService.RespondToInvitation.
type RespondInput struct {
	Token                   string
	ActingUserID            string
	Action                  ResponseAction
	ClaimWithDifferentEmail bool
}

// InvitationResponse is the outcome of responding to an invitation.
// swagger:model InvitationResponse
type InvitationResponse struct {
	Invitation *Invitation    `json:"invitation"`
	Membership *Membership    `json:"membership,omitempty"`
	Action     ResponseAction `json:"action"`
	// AlreadyProcessed is set when a concurrent or earlier accept already won.
	AlreadyProcessed bool `json:"already_processed"`
	// AlreadyMember is set when the responder was a member before accepting.
	AlreadyMember bool `json:"already_member"`
}

// InvitationService orchestrates creation, lookup and response to invitations.
type InvitationService interface {
	CreateInvitation(ctx context.Context, in CreateInvitationInput) (*Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*Invitation, error)
	RespondToInvitation(ctx context.Context, in RespondInput) (*InvitationResponse, error)
	ListHouseholdInvitations(ctx context.Context, actingUserID, householdID string, status *InvitationStatus, params PaginationParams) ([]*Invitation, int, error)
	ExpireStaleInvitations(ctx context.Context) (int64, error)
}
