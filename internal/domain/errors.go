package domain

import "errors"

// Sentinel errors shared by services and the HTTP layer. Services wrap them with
// detail (fmt.Errorf("%w: ...", ErrX)); callers match with errors.Is.
var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("invalid input")
	// ErrUnauthenticated is returned when no verified identity backs the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the caller lacks the required role or identity.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a token, household, user or member does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned for duplicate pending invitations or existing members.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyMember is returned by MembershipRepository.Create on a duplicate (household, user) pair.
	ErrAlreadyMember = errors.New("already a household member")
	// ErrGone is returned when an invitation has expired or was already responded to.
	ErrGone = errors.New("invitation no longer available")
	// ErrLastAdmin is returned when an operation would leave a household without an admin.
	ErrLastAdmin = errors.New("household must keep at least one admin")
)
