package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharedliving/internal/domain"
)

type invitationRepository struct {
	DB DBTX
}

func NewInvitationRepository(db DBTX) domain.InvitationRepository {
	return &invitationRepository{DB: db}
}

const invitationColumns = `id, token, email, household_id, inviter_id, role, message, status,
	expires_at, created_at, updated_at, responded_at, notes`

func scanInvitation(scanner interface{ Scan(...any) error }) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var respondedAt sql.NullTime
	var notes sql.NullString
	err := scanner.Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.HouseholdID, &inv.InviterID, &inv.Role, &inv.Message, &inv.Status,
		&inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt, &respondedAt, &notes,
	)
	if err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	if notes.Valid {
		inv.Notes = &notes.String
	}
	return inv, nil
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (token, email, household_id, inviter_id, role, message, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.Token, inv.Email, inv.HouseholdID, inv.InviterID, string(inv.Role), inv.Message, string(inv.Status),
		inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *invitationRepository) getOne(ctx context.Context, where string, args ...any) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE ` + where
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	return r.getOne(ctx, `token = $1`, token)
}

func (r *invitationRepository) FindPending(ctx context.Context, email, householdID string) (*domain.Invitation, error) {
	return r.getOne(ctx, `lower(email) = $1 AND household_id = $2 AND status = 'pending'`,
		strings.ToLower(strings.TrimSpace(email)), householdID)
}

func (r *invitationRepository) TransitionStatus(ctx context.Context, id string, from, to domain.InvitationStatus, at time.Time, respondedAt *time.Time, notes *string) (int64, error) {
	query := `
		UPDATE invitations
		SET status = $1, updated_at = $2, responded_at = COALESCE($3, responded_at), notes = COALESCE($4, notes)
		WHERE id = $5 AND status = $6
	`
	var respondedArg sql.NullTime
	if respondedAt != nil {
		respondedArg = sql.NullTime{Time: *respondedAt, Valid: true}
	}
	var notesArg sql.NullString
	if notes != nil {
		notesArg = sql.NullString{String: *notes, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query, string(to), at, respondedArg, notesArg, id, string(from))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *invitationRepository) ListByHousehold(ctx context.Context, householdID string, status *domain.InvitationStatus, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	where := `household_id = $1`
	args := []any{householdID}
	if status != nil {
		args = append(args, string(*status))
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invitations WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE ` + where + ` ORDER BY created_at DESC`
	if limit := params.Limit(); limit > 0 {
		args = append(args, limit, params.Offset())
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func (r *invitationRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE invitations SET status = 'expired', updated_at = $1
		WHERE status = 'pending' AND expires_at <= $1
	`
	result, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
