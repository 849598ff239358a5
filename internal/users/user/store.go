// Copyright (c) 2026 Mogcord. All rights reserved.

package user

import (
	"context"

	"github.com/mogcord/mogcord/pkg/pagination"
)

// Repository defines the persistence contract for user accounts.
//
// # Why an interface?
//
// The service layer depends on this contract, not on Postgres, so unit tests
// can inject in-memory fakes.
type Repository interface {
	// ExistsByID reports whether an account with the given ID exists.
	ExistsByID(ctx context.Context, id string) (bool, error)

	// ExistsByUsername reports whether the normalized username is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether the normalized email is taken.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists a single new account.
	Create(ctx context.Context, account *User) error

	// CreateMany persists a batch of new accounts in one transaction.
	// Either all rows land or none do.
	CreateMany(ctx context.Context, accounts []*User) error

	// GetByID retrieves an account by ID, or NotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves an account by normalized email, or NotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetManyByID retrieves all accounts matching the given IDs.
	// Missing IDs are silently skipped.
	GetManyByID(ctx context.Context, ids []string) ([]*User, error)

	// GetPaged retrieves a page of accounts ordered by ID, plus the total count.
	GetPaged(ctx context.Context, params pagination.Params) ([]*User, int, error)

	// UpdateFlag replaces the lifecycle flag on one account.
	UpdateFlag(ctx context.Context, id string, flag UserFlag) error
}
