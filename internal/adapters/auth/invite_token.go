package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"sharedliving/internal/domain"
)

// inviteTokenBytes is the amount of randomness per token (256 bits).
const inviteTokenBytes = 32

type inviteTokenGenerator struct{}

// NewInviteTokenGenerator returns a TokenGenerator producing base64url strings from crypto/rand.
// Tokens carry no structure; they are lookup keys for unauthenticated recipients.
func NewInviteTokenGenerator() domain.TokenGenerator {
	return inviteTokenGenerator{}
}

func (inviteTokenGenerator) NewToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
