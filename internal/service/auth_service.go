package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/operator"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	accounts      account.Repository
	practitioners practitioner.Repository
	operators     operator.Repository
	jwtManager    *auth.JWTManager
	operatorCfg   config.OperatorConfig
	metrics       *metrics.Collector
	log           *zap.Logger
}

func NewAuthService(
	accounts account.Repository,
	practitioners practitioner.Repository,
	operators operator.Repository,
	jwtManager *auth.JWTManager,
	operatorCfg config.OperatorConfig,
	m *metrics.Collector,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		accounts:      accounts,
		practitioners: practitioners,
		operators:     operators,
		jwtManager:    jwtManager,
		operatorCfg:   operatorCfg,
		metrics:       m,
		log:           log,
	}
}

// RegisterAccount creates a patient account. It does not log the caller in.
func (s *AuthService) RegisterAccount(ctx context.Context, cmd *account.RegisterCommand) error {
	if blank(cmd.Name, cmd.Email, cmd.Password) {
		return ErrFieldsRequired
	}

	email := normalizeEmail(cmd.Email)
	var errs []string
	if !isEmail(email) {
		errs = append(errs, "invalid email")
	}
	if len(cmd.Password) < minPasswordLength {
		errs = append(errs, "password must be at least 8 characters")
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("checking email uniqueness: %w", err)
	}
	if exists {
		return account.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	a := &account.Account{
		Name:         strings.TrimSpace(cmd.Name),
		Email:        email,
		PasswordHash: string(hash),
		Gender:       account.GenderNotSelected,
		DateOfBirth:  "Not Selected",
		Phone:        "0000000000",
	}

	// The unique index still guards the race between the check above and this insert.
	if err := s.accounts.Create(ctx, a); err != nil {
		return err
	}

	s.metrics.AccountsRegistered.Inc()
	s.log.Info("account registered", zap.String("account_id", a.ID.String()))
	return nil
}

func (s *AuthService) LoginAccount(ctx context.Context, email, password string) (string, error) {
	if blank(email, password) {
		return "", ErrFieldsRequired
	}

	a, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed account login", zap.String("account_id", a.ID.String()))
		return "", ErrInvalidCredentials
	}

	return s.issue(&domain.Claims{SubjectID: a.ID, Role: domain.RoleAccount})
}

func (s *AuthService) LoginPractitioner(ctx context.Context, email, password string) (string, error) {
	if blank(email, password) {
		return "", ErrFieldsRequired
	}

	p, err := s.practitioners.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed practitioner login", zap.String("practitioner_id", p.ID.String()))
		return "", ErrInvalidCredentials
	}

	return s.issue(&domain.Claims{SubjectID: p.ID, Role: domain.RolePractitioner})
}

// LoginOperator checks the seeded operator row. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AuthService) LoginOperator(ctx context.Context, email, password string) (string, error) {
	if blank(email, password) {
		return "", ErrFieldsRequired
	}

	email = normalizeEmail(email)
	o, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, operator.ErrOperatorNotFound) {
			// Keep timing comparable with the mismatch path.
			_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed operator login", zap.String("email", email))
		return "", ErrInvalidCredentials
	}

	return s.issue(&domain.Claims{Email: o.Email, Role: domain.RoleOperator})
}

// Authorize verifies a bearer token for the required role. Operator tokens
// are additionally matched against the configured operator email; there is
// no per-operator lookup.
func (s *AuthService) Authorize(token string, required domain.Role) (*domain.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, auth.ErrTokenInvalid
	}

	claims, err := s.jwtManager.Validate(token, required)
	if err != nil {
		return nil, err
	}

	if required == domain.RoleOperator && !strings.EqualFold(claims.Email, s.operatorCfg.Email) {
		return nil, auth.ErrTokenInvalid
	}

	return claims, nil
}

// EnsureOperator seeds the operator row. It reports false when the row
// already exists and leaves it untouched.
func (s *AuthService) EnsureOperator(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if !isEmail(email) || password == "" {
		return false, &ValidationError{Fields: []string{"operator email and password are required"}}
	}

	_, err := s.operators.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, operator.ErrOperatorNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}

	o := &operator.Operator{Email: email, PasswordHash: string(hash), Role: operator.RoleSuperAdmin}
	if err := s.operators.Create(ctx, o); err != nil {
		return false, err
	}

	s.log.Info("operator created", zap.String("email", email))
	return true, nil
}

func (s *AuthService) issue(claims *domain.Claims) (string, error) {
	token, _, err := s.jwtManager.Issue(claims)
	if err != nil {
		s.log.Error("failed to issue token", zap.Error(err))
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}
