package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sharedliving/internal/domain"
)

type membershipAuthorizer struct {
	repos          domain.Repositories
	tx             domain.TxRunner
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewMembershipAuthorizer returns a MembershipAuthorizer. Mutations that can affect the admin
// count run through tx after taking the household lock.
func NewMembershipAuthorizer(repos domain.Repositories, tx domain.TxRunner, logger *slog.Logger, timeout time.Duration) domain.MembershipAuthorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &membershipAuthorizer{
		repos:          repos,
		tx:             tx,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (a *membershipAuthorizer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.contextTimeout)
}

func (a *membershipAuthorizer) CheckMembership(ctx context.Context, userID, householdID string) (*domain.Membership, error) {
	return checkMembership(ctx, a.repos.Memberships, userID, householdID)
}

func (a *membershipAuthorizer) RequireAdmin(ctx context.Context, userID, householdID string) (*domain.Membership, error) {
	return requireAdmin(ctx, a.repos.Memberships, userID, householdID)
}

func (a *membershipAuthorizer) CountAdmins(ctx context.Context, householdID string) (int, error) {
	n, err := a.repos.Memberships.CountByRole(ctx, householdID, domain.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (a *membershipAuthorizer) AddMember(ctx context.Context, actingUserID, targetUserID, householdID string, role domain.Role) (*domain.Membership, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	role, err := domain.ParseRole(string(role))
	if err != nil {
		return nil, err
	}
	if targetUserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if _, err := a.RequireAdmin(ctx, actingUserID, householdID); err != nil {
		return nil, err
	}
	if _, err := a.repos.Users.GetByID(ctx, targetUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, targetUserID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	m := &domain.Membership{
		HouseholdID: householdID,
		UserID:      targetUserID,
		Role:        role,
		JoinedAt:    a.now(),
	}
	if err := a.repos.Memberships.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return nil, fmt.Errorf("%w: user is already a member of this household", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create membership: %w", err)
	}
	a.logger.InfoContext(ctx, "member added", "household_id", householdID, "user_id", targetUserID, "role", role)
	return m, nil
}

func (a *membershipAuthorizer) ListMembers(ctx context.Context, actingUserID, householdID string) ([]*domain.Membership, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.CheckMembership(ctx, actingUserID, householdID); err != nil {
		return nil, err
	}
	members, err := a.repos.Memberships.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (a *membershipAuthorizer) RemoveMember(ctx context.Context, actingUserID, targetUserID, householdID string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.tx.RunInTx(ctx, func(repos domain.Repositories) error {
		if err := repos.Memberships.LockHousehold(ctx, householdID); err != nil {
			return fmt.Errorf("lock household: %w", err)
		}
		if actingUserID != targetUserID {
			if _, err := requireAdmin(ctx, repos.Memberships, actingUserID, householdID); err != nil {
				return err
			}
		}
		target, err := repos.Memberships.Get(ctx, householdID, targetUserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: user is not a member of this household", domain.ErrNotFound)
			}
			return fmt.Errorf("get membership: %w", err)
		}
		if target.IsAdmin() {
			if err := ensureAnotherAdmin(ctx, repos.Memberships, householdID); err != nil {
				return err
			}
		}
		if err := repos.Memberships.Delete(ctx, householdID, targetUserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "member removed", "household_id", householdID, "user_id", targetUserID, "by", actingUserID)
	return nil
}

func (a *membershipAuthorizer) UpdateRole(ctx context.Context, actingUserID, targetUserID, householdID string, newRole domain.Role) (*domain.Membership, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	newRole, err := domain.ParseRole(string(newRole))
	if err != nil {
		return nil, err
	}

	var updated *domain.Membership
	err = a.tx.RunInTx(ctx, func(repos domain.Repositories) error {
		if err := repos.Memberships.LockHousehold(ctx, householdID); err != nil {
			return fmt.Errorf("lock household: %w", err)
		}
		if _, err := requireAdmin(ctx, repos.Memberships, actingUserID, householdID); err != nil {
			return err
		}
		if actingUserID == targetUserID {
			return fmt.Errorf("%w: cannot change own role", domain.ErrForbidden)
		}
		target, err := repos.Memberships.Get(ctx, householdID, targetUserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: user is not a member of this household", domain.ErrNotFound)
			}
			return fmt.Errorf("get membership: %w", err)
		}
		if target.Role == newRole {
			updated = target
			return nil
		}
		if target.IsAdmin() {
			if err := ensureAnotherAdmin(ctx, repos.Memberships, householdID); err != nil {
				return err
			}
		}
		n, err := repos.Memberships.UpdateRole(ctx, householdID, targetUserID, target.Role, newRole)
		if err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: membership changed concurrently", domain.ErrConflict)
		}
		target.Role = newRole
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func checkMembership(ctx context.Context, memberships domain.MembershipRepository, userID, householdID string) (*domain.Membership, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	m, err := memberships.Get(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: not a member of this household", domain.ErrForbidden)
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

func requireAdmin(ctx context.Context, memberships domain.MembershipRepository, userID, householdID string) (*domain.Membership, error) {
	m, err := checkMembership(ctx, memberships, userID, householdID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	return m, nil
}

// ensureAnotherAdmin fails with ErrLastAdmin unless the household has more than one admin.
// Callers must hold the household lock.
func ensureAnotherAdmin(ctx context.Context, memberships domain.MembershipRepository, householdID string) error {
	n, err := memberships.CountByRole(ctx, householdID, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}
