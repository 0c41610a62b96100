package service

import (
	"context"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountService struct {
	repo    account.Repository
	images  media.Store
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewAccountService(repo account.Repository, images media.Store, m *metrics.Collector, log *zap.Logger) *AccountService {
	return &AccountService{repo: repo, images: images, metrics: m, log: log}
}

func (s *AccountService) GetProfile(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile replaces the self-service fields. A non-nil image is uploaded
// first and replaces the profile picture.
func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, cmd *account.UpdateProfileCommand, image *media.Object) (*account.Account, error) {
	if blank(cmd.Name, cmd.Phone, cmd.DateOfBirth, string(cmd.Gender)) {
		return nil, &ValidationError{Fields: []string{"name, phone, date of birth and gender are required"}}
	}
	if !cmd.Gender.IsValid() {
		return nil, account.ErrInvalidGender
	}

	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Phone = strings.TrimSpace(cmd.Phone)

	if image != nil {
		image.Folder = "users"
		url, err := uploadImage(ctx, s.images, s.metrics, *image)
		if err != nil {
			return nil, err
		}
		cmd.Image = url
	}

	a, err := s.repo.UpdateProfile(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.log.Info("account profile updated", zap.String("account_id", id.String()))
	return a, nil
}
