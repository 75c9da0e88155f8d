package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sharedliving/internal/domain"
)

type membershipRepository struct {
	DB DBTX
}

func NewMembershipRepository(db DBTX) domain.MembershipRepository {
	return &membershipRepository{DB: db}
}

func (r *membershipRepository) Get(ctx context.Context, householdID, userID string) (*domain.Membership, error) {
	query := `
		SELECT household_id, user_id, role, joined_at
		FROM household_members
		WHERE household_id = $1 AND user_id = $2
	`
	m := &domain.Membership{}
	err := r.DB.QueryRowContext(ctx, query, householdID, userID).Scan(&m.HouseholdID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Create inserts the membership. A duplicate pair is reported as ErrAlreadyMember without
// raising a unique violation, so the surrounding transaction stays usable.
func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO household_members (household_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (household_id, user_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, m.HouseholdID, m.UserID, string(m.Role), m.JoinedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAlreadyMember
	}
	return nil
}

func (r *membershipRepository) UpdateRole(ctx context.Context, householdID, userID string, from, to domain.Role) (int64, error) {
	query := `
		UPDATE household_members SET role = $1
		WHERE household_id = $2 AND user_id = $3 AND role = $4
	`
	result, err := r.DB.ExecContext(ctx, query, string(to), householdID, userID, string(from))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *membershipRepository) Delete(ctx context.Context, householdID, userID string) error {
	query := `DELETE FROM household_members WHERE household_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, householdID, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *membershipRepository) CountByRole(ctx context.Context, householdID string, role domain.Role) (int, error) {
	query := `SELECT COUNT(*) FROM household_members WHERE household_id = $1 AND role = $2`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, householdID, string(role)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *membershipRepository) ListByHousehold(ctx context.Context, householdID string) ([]*domain.Membership, error) {
	query := `
		SELECT household_id, user_id, role, joined_at
		FROM household_members
		WHERE household_id = $1
		ORDER BY joined_at, user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.Membership, 0)
	for rows.Next() {
		m := &domain.Membership{}
		if err := rows.Scan(&m.HouseholdID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// LockHousehold takes a transaction-scoped advisory lock keyed by the household id. On the
// pool (no transaction) the lock is released as soon as the statement finishes.
func (r *membershipRepository) LockHousehold(ctx context.Context, householdID string) error {
	_, err := r.DB.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, householdID)
	return err
}
