package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharedliving/internal/domain"
)

type authService struct {
	users       domain.UserRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService that checks passwords with hasher and issues tokens with issuer.
func NewAuthService(users domain.UserRepository, hasher domain.PasswordHasher, issuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		users:       users,
		hasher:      hasher,
		tokenIssuer: issuer,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	// Accounts created through passwordless flows have no hash and cannot log in here.
	if user.PasswordHash == "" {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}
