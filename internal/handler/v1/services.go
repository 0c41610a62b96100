package v1

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/service"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/google/uuid"
)

// The handlers depend on these narrow views of the services.

type AuthService interface {
	RegisterAccount(ctx context.Context, cmd *account.RegisterCommand) error
	LoginAccount(ctx context.Context, email, password string) (string, error)
	LoginPractitioner(ctx context.Context, email, password string) (string, error)
	LoginOperator(ctx context.Context, email, password string) (string, error)
	Authorize(token string, required domain.Role) (*domain.Claims, error)
}

type AccountService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*account.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, cmd *account.UpdateProfileCommand, image *media.Object) (*account.Account, error)
}

type DirectoryService interface {
	AddPractitioner(ctx context.Context, cmd *practitioner.CreatePractitionerCommand, image *media.Object) (*practitioner.Practitioner, error)
	ListPractitioners(ctx context.Context) ([]*practitioner.Practitioner, error)
	GetPractitioner(ctx context.Context, id uuid.UUID) (*practitioner.Practitioner, error)
	UpdatePractitioner(ctx context.Context, id uuid.UUID, cmd *practitioner.UpdatePractitionerCommand, image *media.Object) (*practitioner.Practitioner, error)
	DeletePractitioner(ctx context.Context, id uuid.UUID) error
	ChangeAvailability(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateOwnProfile(ctx context.Context, id uuid.UUID, cmd *practitioner.SelfUpdateCommand) (*practitioner.Practitioner, error)
}

type AppointmentService interface {
	Book(ctx context.Context, cmd *appointment.BookCommand) (*appointment.Appointment, error)
	ListForAccount(ctx context.Context, accountID uuid.UUID) ([]*service.AppointmentDetail, error)
	ListAll(ctx context.Context) ([]*service.AppointmentDetail, error)
	ListForPractitioner(ctx context.Context, practitionerID uuid.UUID) ([]*service.AppointmentDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*service.AppointmentDetail, error)
	Transition(ctx context.Context, id uuid.UUID, target appointment.Status, actor *domain.Claims) (*appointment.Appointment, error)
	MarkPaid(ctx context.Context, accountID, id uuid.UUID) (*appointment.Appointment, error)
	PaymentCode(ctx context.Context, accountID, id uuid.UUID) (string, int64, error)
	DashboardStats(ctx context.Context) (*appointment.Stats, error)
	PractitionerDashboard(ctx context.Context, practitionerID uuid.UUID) (*appointment.PractitionerStats, error)
}
