package memory

import (
	"context"
	"sort"

	"sharedliving/internal/domain"
)

type membershipRepository struct {
	s    *Store
	inTx bool
}

func (r *membershipRepository) Get(_ context.Context, householdID, userID string) (*domain.Membership, error) {
	defer r.s.lock(r.inTx)()
	m, ok := r.s.memberships[memberKey{householdID, userID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyMembership(m), nil
}

func (r *membershipRepository) Create(_ context.Context, m *domain.Membership) error {
	defer r.s.lock(r.inTx)()
	key := memberKey{m.HouseholdID, m.UserID}
	if _, ok := r.s.memberships[key]; ok {
		return domain.ErrAlreadyMember
	}
	r.s.memberships[key] = copyMembership(m)
	return nil
}

func (r *membershipRepository) UpdateRole(_ context.Context, householdID, userID string, from, to domain.Role) (int64, error) {
	defer r.s.lock(r.inTx)()
	m, ok := r.s.memberships[memberKey{householdID, userID}]
	if !ok || m.Role != from {
		return 0, nil
	}
	m.Role = to
	return 1, nil
}

func (r *membershipRepository) Delete(_ context.Context, householdID, userID string) error {
	defer r.s.lock(r.inTx)()
	key := memberKey{householdID, userID}
	if _, ok := r.s.memberships[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.memberships, key)
	return nil
}

func (r *membershipRepository) CountByRole(_ context.Context, householdID string, role domain.Role) (int, error) {
	defer r.s.lock(r.inTx)()
	n := 0
	for k, m := range r.s.memberships {
		if k.householdID == householdID && m.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *membershipRepository) ListByHousehold(_ context.Context, householdID string) ([]*domain.Membership, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*domain.Membership, 0)
	for k, m := range r.s.memberships {
		if k.householdID == householdID {
			out = append(out, copyMembership(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

// LockHousehold is a no-op: RunInTx already serialises transactions.
func (r *membershipRepository) LockHousehold(context.Context, string) error { return nil }
