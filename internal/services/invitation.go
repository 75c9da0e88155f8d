package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sharedliving/internal/domain"
)

const (
	defaultExpirationDays = 7
	maxExpirationDays     = 30
	maxMessageLength      = 500
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var tracer = otel.Tracer("sharedliving/internal/services")

// InvitationConfig holds the tunables of the invitation service.
type InvitationConfig struct {
	// BaseURL is the front-end origin used to build invitation links.
	BaseURL string
	// DefaultExpirationDays applies when the caller passes 0.
	DefaultExpirationDays int
	Timeout               time.Duration
}

type invitationService struct {
	repos          domain.Repositories
	tx             domain.TxRunner
	tokens         domain.TokenGenerator
	authorizer     domain.MembershipAuthorizer
	notifier       domain.NotificationGateway
	logger         *slog.Logger
	now            func() time.Time
	baseURL        string
	defaultDays    int
	contextTimeout time.Duration
}

// NewInvitationService wires the invitation lifecycle. notifier may be nil, in which case no
// notification is attempted.
func NewInvitationService(
	repos domain.Repositories,
	tx domain.TxRunner,
	tokens domain.TokenGenerator,
	authorizer domain.MembershipAuthorizer,
	notifier domain.NotificationGateway,
	logger *slog.Logger,
	cfg InvitationConfig,
) domain.InvitationService {
	if logger == nil {
		logger = slog.Default()
	}
	days := cfg.DefaultExpirationDays
	if days <= 0 || days > maxExpirationDays {
		days = defaultExpirationDays
	}
	return &invitationService{
		repos:          repos,
		tx:             tx,
		tokens:         tokens,
		authorizer:     authorizer,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		defaultDays:    days,
		contextTimeout: cfg.Timeout,
	}
}

func (s *invitationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *invitationService) CreateInvitation(ctx context.Context, in domain.CreateInvitationInput) (*domain.Invitation, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ctx, span := tracer.Start(ctx, "InvitationService.CreateInvitation",
		trace.WithAttributes(attribute.String("household.id", in.HouseholdID)))
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	role, err := domain.ParseRole(string(in.Role))
	if err != nil {
		return nil, err
	}
	days := in.ExpirationDays
	if days == 0 {
		days = s.defaultDays
	}
	if days < 1 || days > maxExpirationDays {
		return nil, fmt.Errorf("%w: expiration_days must be between 1 and %d", domain.ErrValidation, maxExpirationDays)
	}
	message := strings.TrimSpace(in.Message)
	if len([]rune(message)) > maxMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", domain.ErrValidation, maxMessageLength)
	}

	if _, err := s.authorizer.RequireAdmin(ctx, in.InviterID, in.HouseholdID); err != nil {
		return nil, err
	}
	household, err := s.repos.Households.GetByID(ctx, in.HouseholdID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: household %s", domain.ErrNotFound, in.HouseholdID)
		}
		return nil, fmt.Errorf("get household: %w", err)
	}

	if err := s.ensureNotMember(ctx, email, in.HouseholdID); err != nil {
		return nil, err
	}
	if err := s.ensureNoLivePending(ctx, email, in.HouseholdID); err != nil {
		return nil, err
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	now := s.now()
	inv := &domain.Invitation{
		Token:       token,
		Email:       email,
		HouseholdID: in.HouseholdID,
		InviterID:   in.InviterID,
		Role:        role,
		Message:     message,
		Status:      domain.InvitationPending,
		ExpiresAt:   now.AddDate(0, 0, days),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: a pending invitation already exists for this email", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	span.SetAttributes(attribute.String("invitation.id", inv.ID))
	s.logger.InfoContext(ctx, "invitation created", "invitation_id", inv.ID, "household_id", inv.HouseholdID, "role", inv.Role)

	s.notify(ctx, inv, household)
	return inv, nil
}

func (s *invitationService) ensureNotMember(ctx context.Context, email, householdID string) error {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}
	_, err = s.repos.Memberships.Get(ctx, householdID, user.ID)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s is already a member of this household", domain.ErrConflict, email)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("get membership: %w", err)
	}
}

// ensureNoLivePending rejects a second pending invitation. A pending one past its expiry is
// retired first so it does not block a fresh invitation.
func (s *invitationService) ensureNoLivePending(ctx context.Context, email, householdID string) error {
	existing, err := s.repos.Invitations.FindPending(ctx, email, householdID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find pending invitation: %w", err)
	}
	now := s.now()
	if !existing.IsExpiredAt(now) {
		return fmt.Errorf("%w: a pending invitation already exists for this email", domain.ErrConflict)
	}
	if _, err := s.repos.Invitations.TransitionStatus(ctx, existing.ID, domain.InvitationPending, domain.InvitationExpired, now, nil, nil); err != nil {
		return fmt.Errorf("expire invitation: %w", err)
	}
	return nil
}

func (s *invitationService) notify(ctx context.Context, inv *domain.Invitation, household *domain.Household) {
	if s.notifier == nil {
		return
	}
	inviterName := inv.InviterID
	if inviter, err := s.repos.Users.GetByID(ctx, inv.InviterID); err == nil {
		inviterName = inviter.DisplayName()
	}
	data := &domain.InvitationEmailData{
		InvitationID:  inv.ID,
		To:            inv.Email,
		InviterName:   inviterName,
		HouseholdName: household.Name,
		Link:          s.invitationLink(inv.Token),
		Role:          inv.Role,
		Message:       inv.Message,
		ExpiresAt:     inv.ExpiresAt,
	}
	if err := s.notifier.SendInvitationEmail(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "invitation notification failed",
			"invitation_id", inv.ID, "email", inv.Email, "error", err)
	}
}

func (s *invitationService) invitationLink(token string) string {
	return s.baseURL + "/invitations/" + url.PathEscape(token)
}

func (s *invitationService) GetInvitationByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ctx, span := tracer.Start(ctx, "InvitationService.GetInvitationByToken")
	defer span.End()

	return s.loadByToken(ctx, token)
}

// loadByToken returns the invitation and reconciles a pending one past its expiry to expired.
func (s *invitationService) loadByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	inv, err := s.repos.Invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invitation", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	now := s.now()
	if !inv.IsExpiredAt(now) {
		return inv, nil
	}
	n, err := s.repos.Invitations.TransitionStatus(ctx, inv.ID, domain.InvitationPending, domain.InvitationExpired, now, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("expire invitation: %w", err)
	}
	if n == 0 {
		// Someone else moved it first; report what they wrote.
		return s.reload(ctx, inv.ID)
	}
	inv.Status = domain.InvitationExpired
	inv.UpdatedAt = now
	s.logger.InfoContext(ctx, "invitation expired on read", "invitation_id", inv.ID)
	return inv, nil
}

func (s *invitationService) reload(ctx context.Context, id string) (*domain.Invitation, error) {
	inv, err := s.repos.Invitations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload invitation: %w", err)
	}
	return inv, nil
}

func (s *invitationService) RespondToInvitation(ctx context.Context, in domain.RespondInput) (*domain.InvitationResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ctx, span := tracer.Start(ctx, "InvitationService.RespondToInvitation",
		trace.WithAttributes(attribute.String("invitation.action", string(in.Action))))
	defer span.End()

	action, err := domain.ParseResponseAction(string(in.Action))
	if err != nil {
		return nil, err
	}
	if in.ActingUserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.repos.Users.GetByID(ctx, in.ActingUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	inv, err := s.loadByToken(ctx, in.Token)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("invitation.id", inv.ID))

	if inv.Status != domain.InvitationPending {
		return s.respondToSettled(ctx, inv, user, action)
	}
	if action == domain.ActionDecline {
		return s.decline(ctx, inv)
	}
	return s.accept(ctx, inv, user, in.ClaimWithDifferentEmail)
}

// respondToSettled handles a response to an invitation that already left pending. Repeating an
// accept that made the caller a member is a success; everything else is gone.
func (s *invitationService) respondToSettled(ctx context.Context, inv *domain.Invitation, user *domain.User, action domain.ResponseAction) (*domain.InvitationResponse, error) {
	if inv.Status == domain.InvitationAccepted && action == domain.ActionAccept {
		m, err := s.repos.Memberships.Get(ctx, inv.HouseholdID, user.ID)
		if err == nil {
			return &domain.InvitationResponse{
				Invitation:       inv,
				Membership:       m,
				Action:           action,
				AlreadyProcessed: true,
				AlreadyMember:    true,
			}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get membership: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: invitation is %s", domain.ErrGone, inv.Status)
}

func (s *invitationService) decline(ctx context.Context, inv *domain.Invitation) (*domain.InvitationResponse, error) {
	now := s.now()
	n, err := s.repos.Invitations.TransitionStatus(ctx, inv.ID, domain.InvitationPending, domain.InvitationDeclined, now, &now, nil)
	if err != nil {
		return nil, fmt.Errorf("decline invitation: %w", err)
	}
	if n == 0 {
		current, err := s.reload(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		if current.Status != domain.InvitationDeclined {
			return nil, fmt.Errorf("%w: invitation is %s", domain.ErrGone, current.Status)
		}
		return &domain.InvitationResponse{Invitation: current, Action: domain.ActionDecline, AlreadyProcessed: true}, nil
	}
	inv.Status = domain.InvitationDeclined
	inv.UpdatedAt = now
	inv.RespondedAt = &now
	s.logger.InfoContext(ctx, "invitation declined", "invitation_id", inv.ID)
	return &domain.InvitationResponse{Invitation: inv, Action: domain.ActionDecline}, nil
}

func (s *invitationService) accept(ctx context.Context, inv *domain.Invitation, user *domain.User, claim bool) (*domain.InvitationResponse, error) {
	var notes *string
	if !strings.EqualFold(strings.TrimSpace(user.Email), inv.Email) {
		if !claim {
			return nil, fmt.Errorf("%w: invitation was sent to a different email", domain.ErrForbidden)
		}
		note := fmt.Sprintf("claimed by %s (invited %s)", strings.ToLower(user.Email), inv.Email)
		notes = &note
	}

	now := s.now()
	resp := &domain.InvitationResponse{Action: domain.ActionAccept}
	err := s.tx.RunInTx(ctx, func(repos domain.Repositories) error {
		n, err := repos.Invitations.TransitionStatus(ctx, inv.ID, domain.InvitationPending, domain.InvitationAccepted, now, &now, notes)
		if err != nil {
			return fmt.Errorf("accept invitation: %w", err)
		}
		if n == 0 {
			resp.AlreadyProcessed = true
			return nil
		}

		m, err := repos.Memberships.Get(ctx, inv.HouseholdID, user.ID)
		switch {
		case err == nil:
			resp.AlreadyMember = true
			resp.Membership = m
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("get membership: %w", err)
		}

		m = &domain.Membership{HouseholdID: inv.HouseholdID, UserID: user.ID, Role: inv.Role, JoinedAt: now}
		if err := repos.Memberships.Create(ctx, m); err != nil {
			if errors.Is(err, domain.ErrAlreadyMember) {
				resp.AlreadyMember = true
				resp.Membership, err = repos.Memberships.Get(ctx, inv.HouseholdID, user.ID)
				if err != nil {
					return fmt.Errorf("get membership: %w", err)
				}
				return nil
			}
			return fmt.Errorf("create membership: %w", err)
		}
		resp.Membership = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.AlreadyProcessed {
		current, err := s.reload(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		if current.Status != domain.InvitationAccepted {
			return nil, fmt.Errorf("%w: invitation is %s", domain.ErrGone, current.Status)
		}
		resp.Invitation = current
		if m, err := s.repos.Memberships.Get(ctx, inv.HouseholdID, user.ID); err == nil {
			resp.Membership = m
			resp.AlreadyMember = true
		}
		return resp, nil
	}

	inv.Status = domain.InvitationAccepted
	inv.UpdatedAt = now
	inv.RespondedAt = &now
	if notes != nil {
		inv.Notes = notes
	}
	resp.Invitation = inv
	s.logger.InfoContext(ctx, "invitation accepted",
		"invitation_id", inv.ID, "household_id", inv.HouseholdID, "user_id", user.ID, "already_member", resp.AlreadyMember)
	return resp, nil
}

func (s *invitationService) ListHouseholdInvitations(ctx context.Context, actingUserID, householdID string, status *domain.InvitationStatus, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.authorizer.RequireAdmin(ctx, actingUserID, householdID); err != nil {
		return nil, 0, err
	}
	invs, total, err := s.repos.Invitations.ListByHousehold(ctx, householdID, status, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	now := s.now()
	for _, inv := range invs {
		// Listings show the effective status; the row is reconciled on its next token read or sweep.
		if inv.IsExpiredAt(now) {
			inv.Status = domain.InvitationExpired
		}
	}
	return invs, total, nil
}

func (s *invitationService) ExpireStaleInvitations(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ctx, span := tracer.Start(ctx, "InvitationService.ExpireStaleInvitations")
	defer span.End()

	n, err := s.repos.Invitations.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("expire stale invitations: %w", err)
	}
	span.SetAttributes(attribute.Int64("invitations.expired", n))
	if n > 0 {
		s.logger.InfoContext(ctx, "stale invitations expired", "count", n)
	}
	return n, nil
}
