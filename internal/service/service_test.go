package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	testOperatorEmail    = "admin@aarogya.test"
	testOperatorPassword = "operator-secret"
)

type testEnv struct {
	accounts      *mockAccountRepo
	practitioners *mockPractitionerRepo
	appointments  *mockAppointmentRepo
	operators     *mockOperatorRepo
	images        *fakeStore
	cache         *fakeCache

	auth      *AuthService
	profiles  *AccountService
	directory *DirectoryService
	booking   *AppointmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	m := metrics.NewCollector("test")
	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:   "test-secret-with-enough-length-123",
		TokenTTL: time.Hour,
		Issuer:   "aarogya-test",
	})

	env := &testEnv{
		accounts:      newMockAccountRepo(),
		practitioners: newMockPractitionerRepo(),
		appointments:  newMockAppointmentRepo(),
		operators:     newMockOperatorRepo(),
		images:        &fakeStore{},
		cache:         newFakeCache(),
	}

	env.auth = NewAuthService(env.accounts, env.practitioners, env.operators, jwtManager,
		config.OperatorConfig{Email: testOperatorEmail, Password: testOperatorPassword}, m, log)
	env.profiles = NewAccountService(env.accounts, env.images, m, log)
	env.directory = NewDirectoryService(env.practitioners, env.images, env.cache, time.Minute, m, log)
	env.booking = NewAppointmentService(env.appointments, env.accounts, env.practitioners,
		config.PaymentConfig{PayeeVPA: "clinic@upi", Currency: "INR"}, m, log)
	return env
}

// registerAccount registers and logs in an account, returning its claims.
func (e *testEnv) registerAccount(t *testing.T, email string) *domain.Claims {
	t.Helper()
	ctx := context.Background()

	if err := e.auth.RegisterAccount(ctx, &account.RegisterCommand{Name: "Test Patient", Email: email, Password: "Passw0rd!"}); err != nil {
		t.Fatalf("RegisterAccount: %v", err)
	}
	token, err := e.auth.LoginAccount(ctx, email, "Passw0rd!")
	if err != nil {
		t.Fatalf("LoginAccount: %v", err)
	}
	claims, err := e.auth.Authorize(token, domain.RoleAccount)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	return claims
}

func (e *testEnv) addPractitioner(t *testing.T, name, email string, fee int64) *practitioner.Practitioner {
	t.Helper()
	p, err := e.directory.AddPractitioner(context.Background(), &practitioner.CreatePractitionerCommand{
		Name:       name,
		Email:      email,
		Password:   "Str0ng!Pass",
		Phone:      "9999999999",
		Speciality: "General physician",
		Degree:     "MBBS",
		Experience: "4 Years",
		About:      "Primary care.",
		Fees:       fee,
		Address:    domain.Address{Line1: "12 Ring Road", Line2: "Delhi"},
	}, testImage())
	if err != nil {
		t.Fatalf("AddPractitioner: %v", err)
	}
	return p
}

func testImage() *media.Object {
	return &media.Object{ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG")}
}

func operatorClaims() *domain.Claims {
	return &domain.Claims{Email: testOperatorEmail, Role: domain.RoleOperator}
}

func ptr[T any](v T) *T { return &v }

func newID() uuid.UUID { return uuid.New() }
