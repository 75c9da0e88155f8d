package domain

import (
	"context"
	"time"
)

// Household is a shared-living unit. It is owned collectively by its members.
// swagger:model Household
type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HouseholdRepository reads households. GetByID returns ErrNotFound when missing.
type HouseholdRepository interface {
	GetByID(ctx context.Context, id string) (*Household, error)
}
