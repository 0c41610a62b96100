package practitioner

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new practitioner. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, p *Practitioner) error

	// GetByID returns ErrPractitionerNotFound if no such practitioner exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error)

	GetByEmail(ctx context.Context, email string) (*Practitioner, error)

	// List returns every practitioner in creation order.
	List(ctx context.Context) ([]*Practitioner, error)

	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePractitionerCommand) (*Practitioner, error)

	// Delete hard-deletes the practitioner. No check is made against appointments.
	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)

	// GetMany loads the practitioners for the given ids. Missing ids are skipped.
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Practitioner, error)
}
