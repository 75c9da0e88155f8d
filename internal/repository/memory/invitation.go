package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"sharedliving/internal/domain"
)

type invitationRepository struct {
	s    *Store
	inTx bool
}

func (r *invitationRepository) Create(_ context.Context, inv *domain.Invitation) error {
	defer r.s.lock(r.inTx)()
	email := normalizeEmail(inv.Email)
	for _, existing := range r.s.invitations {
		if existing.Token == inv.Token {
			return domain.ErrConflict
		}
		if inv.Status == domain.InvitationPending && existing.Status == domain.InvitationPending &&
			existing.HouseholdID == inv.HouseholdID && normalizeEmail(existing.Email) == email {
			return domain.ErrConflict
		}
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	r.s.invitations[inv.ID] = copyInvitation(inv)
	return nil
}

func (r *invitationRepository) GetByID(_ context.Context, id string) (*domain.Invitation, error) {
	defer r.s.lock(r.inTx)()
	inv, ok := r.s.invitations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyInvitation(inv), nil
}

func (r *invitationRepository) GetByToken(_ context.Context, token string) (*domain.Invitation, error) {
	defer r.s.lock(r.inTx)()
	for _, inv := range r.s.invitations {
		if inv.Token == token {
			return copyInvitation(inv), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *invitationRepository) FindPending(_ context.Context, email, householdID string) (*domain.Invitation, error) {
	defer r.s.lock(r.inTx)()
	email = normalizeEmail(email)
	for _, inv := range r.s.invitations {
		if inv.Status == domain.InvitationPending && inv.HouseholdID == householdID && normalizeEmail(inv.Email) == email {
			return copyInvitation(inv), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *invitationRepository) TransitionStatus(_ context.Context, id string, from, to domain.InvitationStatus, at time.Time, respondedAt *time.Time, notes *string) (int64, error) {
	defer r.s.lock(r.inTx)()
	inv, ok := r.s.invitations[id]
	if !ok || inv.Status != from {
		return 0, nil
	}
	inv.Status = to
	inv.UpdatedAt = at
	if respondedAt != nil {
		t := *respondedAt
		inv.RespondedAt = &t
	}
	if notes != nil {
		n := *notes
		inv.Notes = &n
	}
	return 1, nil
}

func (r *invitationRepository) ListByHousehold(_ context.Context, householdID string, status *domain.InvitationStatus, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	defer r.s.lock(r.inTx)()
	var all []*domain.Invitation
	for _, inv := range r.s.invitations {
		if inv.HouseholdID != householdID {
			continue
		}
		if status != nil && inv.Status != *status {
			continue
		}
		all = append(all, copyInvitation(inv))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)

	start := min(params.Offset(), total)
	end := total
	if limit := params.Limit(); limit > 0 {
		end = min(start+limit, total)
	}
	page := all[start:end]
	if page == nil {
		page = []*domain.Invitation{}
	}
	return page, total, nil
}

func (r *invitationRepository) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	defer r.s.lock(r.inTx)()
	var n int64
	for _, inv := range r.s.invitations {
		if inv.IsExpiredAt(now) {
			inv.Status = domain.InvitationExpired
			inv.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
