package domain

import (
	"fmt"
	"strings"
)

// Role is a member's privilege level within a household.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// ParseRole normalises s and returns the matching Role. Unknown values wrap ErrValidation.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleMember, RoleGuest:
		return r, nil
	default:
		return "", fmt.Errorf("%w: role must be one of admin, member, guest", ErrValidation)
	}
}

func (r Role) String() string { return string(r) }

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// ParseInvitationStatus returns the matching status or an ErrValidation-wrapped error.
func ParseInvitationStatus(s string) (InvitationStatus, error) {
	switch st := InvitationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case InvitationPending, InvitationAccepted, InvitationDeclined, InvitationExpired:
		return st, nil
	default:
		return "", fmt.Errorf("%w: status must be one of pending, accepted, declined, expired", ErrValidation)
	}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s InvitationStatus) IsTerminal() bool {
	return s == InvitationAccepted || s == InvitationDeclined || s == InvitationExpired
}

// CanTransition reports whether s may move to next. Only pending moves, and only to a terminal state.
func (s InvitationStatus) CanTransition(next InvitationStatus) bool {
	return s == InvitationPending && next.IsTerminal()
}

func (s InvitationStatus) String() string { return string(s) }

// ResponseAction is what an invitee does with an invitation.
type ResponseAction string

const (
	ActionAccept  ResponseAction = "accept"
	ActionDecline ResponseAction = "decline"
)

// ParseResponseAction returns the matching action or an ErrValidation-wrapped error.
func ParseResponseAction(s string) (ResponseAction, error) {
	switch a := ResponseAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAccept, ActionDecline:
		return a, nil
	default:
		return "", fmt.Errorf("%w: action must be accept or decline", ErrValidation)
	}
}
