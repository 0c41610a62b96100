package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListByAccount returns the account's appointments oldest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Appointment, error)

	// ListAll returns every appointment oldest first.
	ListAll(ctx context.Context) ([]*Appointment, error)

	// ListByPractitioner returns the practitioner's appointments newest first.
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*Appointment, error)

	// UpdateStatus persists a's new status only if the stored row is still
	// booked. Returns ErrInvalidStatusTransition when another writer got there first.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// MarkPaid sets the payment flag unconditionally.
	MarkPaid(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// CountByStatus scans every appointment and returns the count per status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
