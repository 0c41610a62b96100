package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment.
//
//	booked → completed
//	booked → cancelled
//
// completed and cancelled are terminal.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseTarget accepts the status names a caller may request.
func ParseTarget(raw string) (Status, error) {
	switch Status(raw) {
	case StatusCompleted, StatusCancelled:
		return Status(raw), nil
	}
	return "", ErrInvalidTargetStatus
}

// Appointment is never deleted, only moved between states. Amount is the
// practitioner's fee at booking time and is not re-derived later.
// Slot date and time are free text as supplied by the client.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookedAt  time.Time `gorm:"column:booked_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	AccountID      uuid.UUID `gorm:"column:account_id;type:uuid;not null;index"`
	PractitionerID uuid.UUID `gorm:"column:practitioner_id;type:uuid;not null;index"`

	SlotDate string `gorm:"column:slot_date;type:varchar(20);not null"`
	SlotTime string `gorm:"column:slot_time;type:varchar(20);not null"`
	Amount   int64  `gorm:"column:amount;not null"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'booked';index"`
	Paid   bool   `gorm:"column:paid;not null;default:false"`

	CompletedAt *time.Time `gorm:"column:completed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (Appointment) TableName() string {
	return "clinic.appointments"
}

func (a *Appointment) CanTransitionTo(next Status) bool {
	return a.Status == StatusBooked && next.IsTerminal()
}

// TransitionTo moves a booked appointment into a terminal state.
func (a *Appointment) TransitionTo(next Status) error {
	if !a.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = next
	switch next {
	case StatusCompleted:
		a.CompletedAt = &now
	case StatusCancelled:
		a.CancelledAt = &now
	}
	return nil
}

// Flags returns the cancelled / isCompleted pair exposed on the wire.
func (a *Appointment) Flags() (cancelled, completed bool) {
	return a.Status == StatusCancelled, a.Status == StatusCompleted
}

type BookCommand struct {
	AccountID      uuid.UUID
	PractitionerID uuid.UUID
	SlotDate       string
	SlotTime       string
}

// Stats is the clinic-wide dashboard snapshot. Pending+Completed+Cancelled
// always equals TotalAppointments.
type Stats struct {
	TotalAppointments     int64
	TotalPractitioners    int64
	PendingAppointments   int64
	CompletedAppointments int64
	CancelledAppointments int64
}

// PractitionerStats is the practitioner portal dashboard.
type PractitionerStats struct {
	Earnings           int64
	Appointments       int
	Patients           int
	LatestAppointments []*Appointment
}
