package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedliving/internal/domain"
)

func TestMembershipRepository_Create(t *testing.T) {
	ctx := context.Background()
	joined := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO household_members \(household_id, user_id, role, joined_at\)\s+VALUES \(\$1, \$2, \$3, \$4\)\s+ON CONFLICT \(household_id, user_id\) DO NOTHING`).
					WithArgs("h-1", "u-1", "member", joined).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate returns ErrAlreadyMember",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO household_members`).
					WithArgs("h-1", "u-1", "member", joined).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrAlreadyMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewMembershipRepository(db).Create(ctx, &domain.Membership{HouseholdID: "h-1", UserID: "u-1", Role: domain.RoleMember, JoinedAt: joined})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMembershipRepository_Get(t *testing.T) {
	ctx := context.Background()
	joined := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT household_id, user_id, role, joined_at\s+FROM household_members\s+WHERE household_id = \$1 AND user_id = \$2`).
		WithArgs("h-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"household_id", "user_id", "role", "joined_at"}).AddRow("h-1", "u-1", "admin", joined))
	mock.ExpectQuery(`FROM household_members`).
		WithArgs("h-1", "u-2").
		WillReturnError(sql.ErrNoRows)

	repo := NewMembershipRepository(db)
	m, err := repo.Get(ctx, "h-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, &domain.Membership{HouseholdID: "h-1", UserID: "u-1", Role: domain.RoleAdmin, JoinedAt: joined}, m)

	_, err = repo.Get(ctx, "h-1", "u-2")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "success", rows: 1},
		{name: "no row returns ErrNotFound", rows: 0, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`DELETE FROM household_members WHERE household_id = \$1 AND user_id = \$2`).
				WithArgs("h-1", "u-1").
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err = NewMembershipRepository(db).Delete(ctx, "h-1", "u-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMembershipRepository_CountByRole_and_UpdateRole(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM household_members WHERE household_id = \$1 AND role = \$2`).
		WithArgs("h-1", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE household_members SET role = \$1\s+WHERE household_id = \$2 AND user_id = \$3 AND role = \$4`).
		WithArgs("member", "h-1", "u-1", "admin").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMembershipRepository(db)
	n, err := repo.CountByRole(ctx, "h-1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	affected, err := repo.UpdateRole(ctx, "h-1", "u-1", domain.RoleAdmin, domain.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_LockHousehold(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("h-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewMembershipRepository(db).LockHousehold(context.Background(), "h-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
