package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sharedliving/internal/domain"
)

type householdRepository struct {
	DB DBTX
}

func NewHouseholdRepository(db DBTX) domain.HouseholdRepository {
	return &householdRepository{DB: db}
}

func (r *householdRepository) GetByID(ctx context.Context, id string) (*domain.Household, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM households
		WHERE id = $1
	`
	h := &domain.Household{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return h, nil
}
