// Package memory implements the domain repositories in process memory. Transactions are
// serialised and rolled back by restoring a snapshot. Statements outside a transaction wait
// for the running transaction to finish, so they never observe uncommitted writes.
package memory

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sharedliving/internal/domain"
)

type memberKey struct {
	householdID string
	userID      string
}

// Store holds every record behind a single mutex. txMu is held exclusively by RunInTx and
// shared by statements issued outside a transaction.
type Store struct {
	mu   sync.Mutex
	txMu sync.RWMutex

	households  map[string]*domain.Household
	users       map[string]*domain.User
	memberships map[memberKey]*domain.Membership
	invitations map[string]*domain.Invitation
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		households:  make(map[string]*domain.Household),
		users:       make(map[string]*domain.User),
		memberships: make(map[memberKey]*domain.Membership),
		invitations: make(map[string]*domain.Invitation),
	}
}

// Repositories returns repositories bound to the store.
func (s *Store) Repositories() domain.Repositories {
	return s.repositories(false)
}

func (s *Store) repositories(inTx bool) domain.Repositories {
	return domain.Repositories{
		Households:  &householdRepository{s: s, inTx: inTx},
		Users:       &userRepository{s: s, inTx: inTx},
		Memberships: &membershipRepository{s: s, inTx: inTx},
		Invitations: &invitationRepository{s: s, inTx: inTx},
	}
}

// lock guards a single statement. Statements outside a transaction also take the shared tx
// lock; the returned func releases whatever was taken.
func (s *Store) lock(inTx bool) func() {
	if !inTx {
		s.txMu.RLock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.RUnlock()
		}
	}
}

// RunInTx runs fn with exclusive access to the store and restores the previous state when fn fails.
func (s *Store) RunInTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.repositories(true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	memberships map[memberKey]*domain.Membership
	invitations map[string]*domain.Invitation
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		memberships: make(map[memberKey]*domain.Membership, len(s.memberships)),
		invitations: make(map[string]*domain.Invitation, len(s.invitations)),
	}
	for k, m := range s.memberships {
		snap.memberships[k] = copyMembership(m)
	}
	for k, inv := range s.invitations {
		snap.invitations[k] = copyInvitation(inv)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships = maps.Clone(snap.memberships)
	s.invitations = maps.Clone(snap.invitations)
}

// AddHousehold seeds a household, assigning an ID when empty.
func (s *Store) AddHousehold(h *domain.Household) *domain.Household {
	defer s.lock(false)()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	cp := *h
	s.households[h.ID] = &cp
	return h
}

// AddUser seeds a user, assigning an ID when empty. Emails are stored lower-cased.
func (s *Store) AddUser(u *domain.User) *domain.User {
	defer s.lock(false)()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = normalizeEmail(u.Email)
	cp := *u
	s.users[u.ID] = &cp
	return u
}

// AddMembership seeds a membership, overwriting an existing pair.
func (s *Store) AddMembership(m *domain.Membership) {
	defer s.lock(false)()
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	s.memberships[memberKey{m.HouseholdID, m.UserID}] = copyMembership(m)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func copyMembership(m *domain.Membership) *domain.Membership {
	cp := *m
	return &cp
}

func copyInvitation(inv *domain.Invitation) *domain.Invitation {
	cp := *inv
	if inv.RespondedAt != nil {
		t := *inv.RespondedAt
		cp.RespondedAt = &t
	}
	if inv.Notes != nil {
		n := *inv.Notes
		cp.Notes = &n
	}
	return &cp
}

type householdRepository struct {
	s    *Store
	inTx bool
}

func (r *householdRepository) GetByID(_ context.Context, id string) (*domain.Household, error) {
	defer r.s.lock(r.inTx)()
	h, ok := r.s.households[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

type userRepository struct {
	s    *Store
	inTx bool
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	defer r.s.lock(r.inTx)()
	email = normalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
