package account

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new account. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, a *Account) error

	// GetByID returns ErrAccountNotFound if no such account exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	GetByEmail(ctx context.Context, email string) (*Account, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, cmd *UpdateProfileCommand) (*Account, error)

	// GetMany loads the accounts for the given ids. Missing ids are skipped.
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Account, error)
}
