package domain

import "context"

// Repositories groups the repositories a service works with. Inside TxRunner.RunInTx every
// member is bound to the same transaction.
type Repositories struct {
	Households  HouseholdRepository
	Users       UserRepository
	Memberships MembershipRepository
	Invitations InvitationRepository
}

// TxRunner runs fn inside one durable transaction. If fn returns an error, every write made
// through the passed repositories is rolled back and the error is returned unchanged.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos Repositories) error) error
}
