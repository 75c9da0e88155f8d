package domain

import (
	"context"
	"time"
)

// Membership binds a user to a household with a role. (HouseholdID, UserID) is unique.
// swagger:model Membership
type Membership struct {
	HouseholdID string    `json:"household_id"`
	UserID      string    `json:"user_id"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// IsAdmin reports whether the membership carries the admin role.
func (m *Membership) IsAdmin() bool { return m != nil && m.Role == RoleAdmin }

// MembershipRepository defines storage operations for memberships.
type MembershipRepository interface {
	// Get returns ErrNotFound when the user is not a member of the household.
	Get(ctx context.Context, householdID, userID string) (*Membership, error)
	// Create returns ErrAlreadyMember when the pair already exists.
	Create(ctx context.Context, m *Membership) error
	// UpdateRole sets the role only if the current role equals from. It returns rows affected.
	UpdateRole(ctx context.Context, householdID, userID string, from, to Role) (int64, error)
	// Delete returns ErrNotFound when no row was removed.
	Delete(ctx context.Context, householdID, userID string) error
	CountByRole(ctx context.Context, householdID string, role Role) (int, error)
	ListByHousehold(ctx context.Context, householdID string) ([]*Membership, error)
	// LockHousehold serialises membership changes for the household until the surrounding
	// transaction ends. Outside a transaction it is a no-op.
	LockHousehold(ctx context.Context, householdID string) error
}

// MembershipAuthorizer performs role checks and guards the last-admin invariant.
type MembershipAuthorizer interface {
	CheckMembership(ctx context.Context, userID, householdID string) (*Membership, error)
	RequireAdmin(ctx context.Context, userID, householdID string) (*Membership, error)
	CountAdmins(ctx context.Context, householdID string) (int, error)
	AddMember(ctx context.Context, actingUserID, targetUserID, householdID string, role Role) (*Membership, error)
	ListMembers(ctx context.Context, actingUserID, householdID string) ([]*Membership, error)
	RemoveMember(ctx context.Context, actingUserID, targetUserID, householdID string) error
	UpdateRole(ctx context.Context, actingUserID, targetUserID, householdID string, newRole Role) (*Membership, error)
}
