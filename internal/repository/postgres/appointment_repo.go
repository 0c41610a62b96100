package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("loading appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*appointment.Appointment, error) {
	return r.list(ctx, r.db.Where("account_id = ?", accountID).Order("booked_at ASC"))
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]*appointment.Appointment, error) {
	return r.list(ctx, r.db.Order("booked_at ASC"))
}

func (r *AppointmentRepository) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*appointment.Appointment, error) {
	return r.list(ctx, r.db.Where("practitioner_id = ?", practitionerID).Order("booked_at DESC"))
}

func (r *AppointmentRepository) list(ctx context.Context, q *gorm.DB) ([]*appointment.Appointment, error) {
	var rows []*appointment.Appointment
	if err := q.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return rows, nil
}

// UpdateStatus is a compare-and-swap on status: the row only changes while it
// is still booked.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ? AND status = ?", a.ID, appointment.StatusBooked).
		Updates(map[string]any{
			"status":       a.Status,
			"completed_at": a.CompletedAt,
			"cancelled_at": a.CancelledAt,
		})
	if res.Error != nil {
		return fmt.Errorf("updating appointment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrInvalidStatusTransition
	}
	return nil
}

func (r *AppointmentRepository) MarkPaid(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", id).
		Update("paid", true)
	if res.Error != nil {
		return nil, fmt.Errorf("marking appointment paid: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, appointment.ErrAppointmentNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *AppointmentRepository) CountByStatus(ctx context.Context) (map[appointment.Status]int64, error) {
	var rows []struct {
		Status appointment.Status
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}

	out := make(map[appointment.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
