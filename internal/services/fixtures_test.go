package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sharedliving/internal/domain"
	"sharedliving/internal/repository/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClock is a settable clock shared by the services under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seqTokens hands out predictable unique tokens.
type seqTokens struct {
	n   atomic.Int64
	err error
}

func (g *seqTokens) NewToken() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("token-%d", g.n.Add(1)), nil
}

// recordingNotifier implements domain.NotificationGateway for tests.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []*domain.InvitationEmailData
	err  error
}

func (n *recordingNotifier) SendInvitationEmail(_ context.Context, data *domain.InvitationEmailData) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, data)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// failingMemberships fails Create so the surrounding transaction must roll back.
type failingMemberships struct {
	domain.MembershipRepository
}

func (f failingMemberships) Create(context.Context, *domain.Membership) error {
	return errors.New("disk full")
}

// faultyTx runs the real transaction but with a membership repository that cannot insert.
type faultyTx struct {
	inner domain.TxRunner
}

func (t faultyTx) RunInTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return t.inner.RunInTx(ctx, func(repos domain.Repositories) error {
		repos.Memberships = failingMemberships{repos.Memberships}
		return fn(repos)
	})
}

type fixture struct {
	store      *memory.Store
	clock      *fakeClock
	tokens     *seqTokens
	notifier   *recordingNotifier
	authorizer domain.MembershipAuthorizer
	svc        domain.InvitationService

	household *domain.Household
	admin     *domain.User
	bob       *domain.User
	carol     *domain.User
}

func newFixture() *fixture {
	return newFixtureWithTx(nil)
}

// newFixtureWithTx builds a household with one admin and two outsiders. wrap, when set,
// decorates the store's TxRunner used by the invitation service.
func newFixtureWithTx(wrap func(domain.TxRunner) domain.TxRunner) *fixture {
	f := &fixture{
		store:    memory.NewStore(),
		clock:    newFakeClock(),
		tokens:   &seqTokens{},
		notifier: &recordingNotifier{},
	}
	f.household = f.store.AddHousehold(&domain.Household{Name: "Maple House", Address: "1 Maple St"})
	f.admin = f.store.AddUser(&domain.User{Email: "alice@x.com", Name: "Alice", LastName: "Admin"})
	f.bob = f.store.AddUser(&domain.User{Email: "bob@x.com", Name: "Bob"})
	f.carol = f.store.AddUser(&domain.User{Email: "carol@x.com", Name: "Carol"})
	f.store.AddMembership(&domain.Membership{HouseholdID: f.household.ID, UserID: f.admin.ID, Role: domain.RoleAdmin, JoinedAt: f.clock.Now()})

	repos := f.store.Repositories()
	authz := NewMembershipAuthorizer(repos, f.store, discardLogger(), time.Second)
	authz.(*membershipAuthorizer).now = f.clock.Now
	f.authorizer = authz

	var tx domain.TxRunner = f.store
	if wrap != nil {
		tx = wrap(tx)
	}
	svc := NewInvitationService(repos, tx, f.tokens, authz, f.notifier, discardLogger(), InvitationConfig{
		BaseURL:               "https://app.example.com/",
		DefaultExpirationDays: 7,
		Timeout:               time.Second,
	})
	svc.(*invitationService).now = f.clock.Now
	f.svc = svc
	return f
}

func (f *fixture) invite(email string, role domain.Role) (*domain.Invitation, error) {
	return f.svc.CreateInvitation(context.Background(), domain.CreateInvitationInput{
		InviterID:      f.admin.ID,
		Email:          email,
		HouseholdID:    f.household.ID,
		Role:           role,
		ExpirationDays: 7,
	})
}

func (f *fixture) addMember(u *domain.User, role domain.Role) {
	f.store.AddMembership(&domain.Membership{HouseholdID: f.household.ID, UserID: u.ID, Role: role, JoinedAt: f.clock.Now()})
}

func (f *fixture) members() []*domain.Membership {
	members, err := f.store.Repositories().Memberships.ListByHousehold(context.Background(), f.household.ID)
	if err != nil {
		panic(err)
	}
	return members
}
