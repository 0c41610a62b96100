package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/payment"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const latestAppointmentsLimit = 5

// AppointmentDetail is an appointment joined with the party summaries.
// A summary is nil when the referenced row no longer exists.
type AppointmentDetail struct {
	*appointment.Appointment
	Account      *account.Summary
	Practitioner *practitioner.Summary
}

type AppointmentService struct {
	repo          appointment.Repository
	accounts      account.Repository
	practitioners practitioner.Repository
	paymentCfg    config.PaymentConfig
	metrics       *metrics.Collector
	tracer        trace.Tracer
	log           *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	accounts account.Repository,
	practitioners practitioner.Repository,
	paymentCfg config.PaymentConfig,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:          repo,
		accounts:      accounts,
		practitioners: practitioners,
		paymentCfg:    paymentCfg,
		metrics:       m,
		tracer:        otel.Tracer("aarogya/appointments"),
		log:           log,
	}
}

// Book creates a booked appointment priced at the practitioner's current fee.
// The slot is not checked against existing bookings.
func (s *AppointmentService) Book(ctx context.Context, cmd *appointment.BookCommand) (*appointment.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointment.Book")
	defer span.End()

	if cmd.PractitionerID == uuid.Nil || blank(cmd.SlotDate, cmd.SlotTime) {
		return nil, ErrFieldsRequired
	}

	if _, err := s.accounts.GetByID(ctx, cmd.AccountID); err != nil {
		return nil, err
	}

	p, err := s.practitioners.GetByID(ctx, cmd.PractitionerID)
	if err != nil {
		return nil, err
	}
	if !p.Available {
		return nil, practitioner.ErrPractitionerUnavailable
	}

	a := &appointment.Appointment{
		AccountID:      cmd.AccountID,
		PractitionerID: p.ID,
		SlotDate:       strings.TrimSpace(cmd.SlotDate),
		SlotTime:       strings.TrimSpace(cmd.SlotTime),
		Amount:         p.Fees,
		Status:         appointment.StatusBooked,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	span.SetAttributes(attribute.String("appointment.id", a.ID.String()))
	s.metrics.AppointmentsBooked.Inc()
	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("practitioner_id", p.ID.String()),
		zap.String("slot_date", a.SlotDate),
		zap.String("slot_time", a.SlotTime),
	)
	return a, nil
}

// ListForAccount returns the account's appointments oldest first.
func (s *AppointmentService) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]*AppointmentDetail, error) {
	list, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.withParties(ctx, list)
}

func (s *AppointmentService) ListAll(ctx context.Context) ([]*AppointmentDetail, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withParties(ctx, list)
}

// ListForPractitioner returns the practitioner's appointments newest first.
func (s *AppointmentService) ListForPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*AppointmentDetail, error) {
	list, err := s.repo.ListByPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	return s.withParties(ctx, list)
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.withParties(ctx, []*appointment.Appointment{a})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Transition moves a booked appointment into completed or cancelled.
//
// Operators may act on any appointment. Practitioners may only act on their
// own appointments. Accounts may only cancel their own.
func (s *AppointmentService) Transition(ctx context.Context, id uuid.UUID, target appointment.Status, actor *domain.Claims) (*appointment.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointment.Transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", id.String()),
		attribute.String("appointment.target", string(target)),
	)

	if !target.IsTerminal() {
		return nil, appointment.ErrInvalidTargetStatus
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleOperator:
	case domain.RolePractitioner:
		if a.PractitionerID != actor.SubjectID {
			return nil, ErrForbidden
		}
	case domain.RoleAccount:
		if a.AccountID != actor.SubjectID || target != appointment.StatusCancelled {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if err := a.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		if !errors.Is(err, appointment.ErrInvalidStatusTransition) {
			s.log.Error("failed to update appointment status",
				zap.String("appointment_id", id.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.metrics.AppointmentTransitions.WithLabelValues(string(target), string(actor.Role)).Inc()
	s.log.Info("appointment status changed",
		zap.String("appointment_id", id.String()),
		zap.String("status", string(target)),
		zap.String("role", string(actor.Role)),
	)
	return a, nil
}

// MarkPaid records an out-of-band payment for one of the account's
// appointments. Repeating it is harmless.
func (s *AppointmentService) MarkPaid(ctx context.Context, accountID, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AccountID != accountID {
		return nil, ErrForbidden
	}
	if a.Paid {
		return a, nil
	}

	updated, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentsMarked.Inc()
	s.log.Info("appointment marked paid", zap.String("appointment_id", id.String()))
	return updated, nil
}

// PaymentCode renders the UPI QR code for one of the account's appointments
// and returns it with the amount due.
func (s *AppointmentService) PaymentCode(ctx context.Context, accountID, id uuid.UUID) (string, int64, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", 0, err
	}
	if a.AccountID != accountID {
		return "", 0, ErrForbidden
	}

	payee := "Aarogya"
	if p, err := s.practitioners.GetByID(ctx, a.PractitionerID); err == nil {
		payee = p.Name
	} else if !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		return "", 0, err
	}

	qr, err := payment.QRDataURL(payment.Request{
		PayeeVPA:      s.paymentCfg.PayeeVPA,
		PayeeName:     payee,
		Amount:        a.Amount,
		Currency:      s.paymentCfg.Currency,
		AppointmentID: a.ID.String(),
	})
	if err != nil {
		return "", 0, err
	}
	return qr, a.Amount, nil
}

// DashboardStats counts appointments by status alongside the practitioner
// total. Pending, completed and cancelled always sum to the total.
func (s *AppointmentService) DashboardStats(ctx context.Context) (*appointment.Stats, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	practitioners, err := s.practitioners.Count(ctx)
	if err != nil {
		return nil, err
	}

	st := &appointment.Stats{
		TotalPractitioners:    practitioners,
		PendingAppointments:   byStatus[appointment.StatusBooked],
		CompletedAppointments: byStatus[appointment.StatusCompleted],
		CancelledAppointments: byStatus[appointment.StatusCancelled],
	}
	st.TotalAppointments = st.PendingAppointments + st.CompletedAppointments + st.CancelledAppointments
	return st, nil
}

// PractitionerDashboard summarises a practitioner's book. Earnings count
// appointments that are completed or paid.
func (s *AppointmentService) PractitionerDashboard(ctx context.Context, practitionerID uuid.UUID) (*appointment.PractitionerStats, error) {
	list, err := s.repo.ListByPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, err
	}

	st := &appointment.PractitionerStats{Appointments: len(list)}
	patients := make(map[uuid.UUID]struct{})
	for _, a := range list {
		if a.Status == appointment.StatusCompleted || a.Paid {
			st.Earnings += a.Amount
		}
		patients[a.AccountID] = struct{}{}
	}
	st.Patients = len(patients)

	latest := list
	if len(latest) > latestAppointmentsLimit {
		latest = latest[:latestAppointmentsLimit]
	}
	st.LatestAppointments = latest
	return st, nil
}

func (s *AppointmentService) withParties(ctx context.Context, list []*appointment.Appointment) ([]*AppointmentDetail, error) {
	out := make([]*AppointmentDetail, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}

	accountIDs := make([]uuid.UUID, 0, len(list))
	practitionerIDs := make([]uuid.UUID, 0, len(list))
	for _, a := range list {
		accountIDs = append(accountIDs, a.AccountID)
		practitionerIDs = append(practitionerIDs, a.PractitionerID)
	}

	accounts, err := s.accounts.GetMany(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	practitioners, err := s.practitioners.GetMany(ctx, practitionerIDs)
	if err != nil {
		return nil, fmt.Errorf("loading practitioners: %w", err)
	}

	for _, a := range list {
		d := &AppointmentDetail{Appointment: a}
		if acc, ok := accounts[a.AccountID]; ok {
			sum := acc.Summary()
			d.Account = &sum
		}
		if p, ok := practitioners[a.PractitionerID]; ok {
			sum := p.Summary()
			d.Practitioner = &sum
		}
		out = append(out, d)
	}
	return out, nil
}
