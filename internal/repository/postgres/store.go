package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sharedliving/internal/domain"
)

// Store hands out repositories bound to the pool or to a transaction.
type Store struct {
	DB *sql.DB
}

// NewStore returns a Store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Repositories returns repositories that run each statement on the pool.
func (s *Store) Repositories() domain.Repositories {
	return repositoriesFor(s.DB)
}

func repositoriesFor(db DBTX) domain.Repositories {
	return domain.Repositories{
		Households:  NewHouseholdRepository(db),
		Users:       NewUserRepository(db),
		Memberships: NewMembershipRepository(db),
		Invitations: NewInvitationRepository(db),
	}
}

// RunInTx runs fn in a read-committed transaction. The transaction commits when fn returns nil
// and rolls back otherwise, including on panic.
func (s *Store) RunInTx(ctx context.Context, fn func(repos domain.Repositories) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(repositoriesFor(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
