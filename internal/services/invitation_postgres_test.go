package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedliving/internal/domain"
	"sharedliving/internal/repository/postgres"
)

// newSQLInvitationService runs the invitation service against a sqlmock-backed postgres store.
func newSQLInvitationService(t *testing.T) (domain.InvitationService, sqlmock.Sqlmock, *fakeClock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := postgres.NewStore(db)
	clock := newFakeClock()
	svc := NewInvitationService(store.Repositories(), store, &seqTokens{}, nil, nil, discardLogger(), InvitationConfig{
		BaseURL: "https://app.example.com",
		Timeout: time.Second,
	})
	svc.(*invitationService).now = clock.Now
	return svc, mock, clock
}

func TestInvitationService_Accept_postgres_membership_created_concurrently(t *testing.T) {
	svc, mock, clock := newSQLInvitationService(t)
	now := clock.Now()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u-bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "last_name", "password_hash", "created_at", "updated_at"}).
			AddRow("u-bob", "bob@x.com", "Bob", "", "", now, now))
	mock.ExpectQuery(`FROM invitations WHERE token = \$1`).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token", "email", "household_id", "inviter_id", "role", "message", "status",
			"expires_at", "created_at", "updated_at", "responded_at", "notes",
		}).AddRow("inv-1", "tok-1", "bob@x.com", "h-1", "u-admin", "member", "", "pending",
			now.Add(24*time.Hour), now, now, nil, nil))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE invitations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM household_members\s+WHERE household_id = \$1 AND user_id = \$2`).
		WithArgs("h-1", "u-bob").
		WillReturnError(sql.ErrNoRows)
	// Another writer inserted the pair first; the insert is skipped instead of aborting the tx.
	mock.ExpectExec(`INSERT INTO household_members .+ ON CONFLICT \(household_id, user_id\) DO NOTHING`).
		WithArgs("h-1", "u-bob", "member", now).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM household_members\s+WHERE household_id = \$1 AND user_id = \$2`).
		WithArgs("h-1", "u-bob").
		WillReturnRows(sqlmock.NewRows([]string{"household_id", "user_id", "role", "joined_at"}).
			AddRow("h-1", "u-bob", "guest", now.Add(-time.Minute)))
	mock.ExpectCommit()

	resp, err := svc.RespondToInvitation(context.Background(), domain.RespondInput{
		Token: "tok-1", ActingUserID: "u-bob", Action: domain.ActionAccept,
	})
	require.NoError(t, err)
	assert.True(t, resp.AlreadyMember)
	assert.False(t, resp.AlreadyProcessed)
	assert.Equal(t, domain.InvitationAccepted, resp.Invitation.Status)
	require.NotNil(t, resp.Membership)
	assert.Equal(t, domain.RoleGuest, resp.Membership.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}
