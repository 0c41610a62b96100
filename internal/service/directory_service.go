package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// The cached listing is keyed by a generation that every directory write
// bumps. A reader that raced a write stores its result under a generation
// nobody reads any more.
const (
	practitionerGenKey  = "practitioners:gen"
	practitionerListKey = "practitioners:list"
)

// JSONCache is satisfied by cache.RedisCache.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	// Counter returns the value at key, 0 when unset.
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// DirectoryService manages practitioner profiles.
type DirectoryService struct {
	repo     practitioner.Repository
	images   media.Store
	cache    JSONCache
	cacheTTL time.Duration
	metrics  *metrics.Collector
	log      *zap.Logger
}

// NewDirectoryService builds the service; cache may be nil.
func NewDirectoryService(
	repo practitioner.Repository,
	images media.Store,
	cache JSONCache,
	cacheTTL time.Duration,
	m *metrics.Collector,
	log *zap.Logger,
) *DirectoryService {
	return &DirectoryService{repo: repo, images: images, cache: cache, cacheTTL: cacheTTL, metrics: m, log: log}
}

func (s *DirectoryService) AddPractitioner(ctx context.Context, cmd *practitioner.CreatePractitionerCommand, image *media.Object) (*practitioner.Practitioner, error) {
	if blank(cmd.Name, cmd.Email, cmd.Password, cmd.Phone, cmd.Speciality, cmd.Degree, cmd.Experience, cmd.About) ||
		cmd.Fees == 0 || cmd.Address.IsZero() {
		return nil, ErrFieldsRequired
	}
	if image == nil {
		return nil, practitioner.ErrImageRequired
	}

	email := normalizeEmail(cmd.Email)
	var errs []string
	if !isEmail(email) {
		errs = append(errs, "invalid email")
	}
	if !isStrongPassword(cmd.Password) {
		errs = append(errs, "password must be 8 characters long and contain 1 uppercase, 1 lowercase, 1 number and 1 symbol")
	}
	if cmd.Fees < 0 {
		errs = append(errs, practitioner.ErrInvalidFee.Error())
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, practitioner.ErrEmailTaken
	} else if !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	image.Folder = "doctors"
	imageURL, err := s.upload(ctx, *image)
	if err != nil {
		return nil, err
	}

	p := &practitioner.Practitioner{
		Name:         strings.TrimSpace(cmd.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(cmd.Phone),
		Image:        imageURL,
		Speciality:   strings.TrimSpace(cmd.Speciality),
		Degree:       strings.TrimSpace(cmd.Degree),
		Experience:   strings.TrimSpace(cmd.Experience),
		About:        strings.TrimSpace(cmd.About),
		Fees:         cmd.Fees,
		Address:      cmd.Address,
		Available:    true,
		SlotsBooked:  map[string][]string{},
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.metrics.PractitionerOps.WithLabelValues("create").Inc()
	s.log.Info("practitioner added",
		zap.String("practitioner_id", p.ID.String()),
		zap.String("speciality", p.Speciality),
	)
	return p, nil
}

// ListPractitioners returns every practitioner with password hashes cleared.
func (s *DirectoryService) ListPractitioners(ctx context.Context) ([]*practitioner.Practitioner, error) {
	// key stays empty when the cache is off or unreachable.
	var key string
	if s.cache != nil {
		gen, err := s.cache.Counter(ctx, practitionerGenKey)
		if err != nil {
			s.metrics.CacheLookups.WithLabelValues("error").Inc()
			s.log.Warn("practitioner cache generation read failed", zap.Error(err))
		} else {
			key = listKey(gen)
			var cached []*practitioner.Practitioner
			hit, err := s.cache.GetJSON(ctx, key, &cached)
			switch {
			case err != nil:
				s.metrics.CacheLookups.WithLabelValues("error").Inc()
				s.log.Warn("practitioner cache read failed", zap.Error(err))
			case hit:
				s.metrics.CacheLookups.WithLabelValues("hit").Inc()
				return cached, nil
			default:
				s.metrics.CacheLookups.WithLabelValues("miss").Inc()
			}
		}
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.PasswordHash = ""
	}

	if key != "" {
		if err := s.cache.SetJSON(ctx, key, list, s.cacheTTL); err != nil {
			s.log.Warn("practitioner cache write failed", zap.Error(err))
		}
	}
	return list, nil
}

func (s *DirectoryService) GetPractitioner(ctx context.Context, id uuid.UUID) (*practitioner.Practitioner, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.PasswordHash = ""
	return p, nil
}

// UpdatePractitioner applies a partial update and optionally replaces the image.
func (s *DirectoryService) UpdatePractitioner(ctx context.Context, id uuid.UUID, cmd *practitioner.UpdatePractitionerCommand, image *media.Object) (*practitioner.Practitioner, error) {
	var errs []string
	if cmd.Email != nil {
		e := normalizeEmail(*cmd.Email)
		if !isEmail(e) {
			errs = append(errs, "invalid email")
		}
		cmd.Email = &e
	}
	if cmd.Fees != nil && *cmd.Fees <= 0 {
		errs = append(errs, practitioner.ErrInvalidFee.Error())
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if image != nil {
		// Check the target first so an unknown id does not leave an orphaned upload.
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		image.Folder = "doctors"
		url, err := s.upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		cmd.Image = &url
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.metrics.PractitionerOps.WithLabelValues("update").Inc()
	s.log.Info("practitioner updated", zap.String("practitioner_id", id.String()))
	p.PasswordHash = ""
	return p, nil
}

// DeletePractitioner hard-deletes the practitioner. Existing appointments
// keep pointing at the removed id.
func (s *DirectoryService) DeletePractitioner(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.metrics.PractitionerOps.WithLabelValues("delete").Inc()
	s.log.Info("practitioner deleted", zap.String("practitioner_id", id.String()))
	return nil
}

// ChangeAvailability flips the availability flag and returns the new value.
func (s *DirectoryService) ChangeAvailability(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	next := !p.Available
	if _, err := s.repo.Update(ctx, id, &practitioner.UpdatePractitionerCommand{Available: &next}); err != nil {
		return false, err
	}

	s.invalidate(ctx)
	s.metrics.PractitionerOps.WithLabelValues("availability").Inc()
	return next, nil
}

// UpdateOwnProfile is the practitioner self-service update: fees, address
// and availability only.
func (s *DirectoryService) UpdateOwnProfile(ctx context.Context, id uuid.UUID, cmd *practitioner.SelfUpdateCommand) (*practitioner.Practitioner, error) {
	if cmd.Fees <= 0 {
		return nil, &ValidationError{Fields: []string{practitioner.ErrInvalidFee.Error()}}
	}

	p, err := s.repo.Update(ctx, id, &practitioner.UpdatePractitionerCommand{
		Fees:      &cmd.Fees,
		Address:   cmd.Address,
		Available: &cmd.Available,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.metrics.PractitionerOps.WithLabelValues("self_update").Inc()
	p.PasswordHash = ""
	return p, nil
}

func (s *DirectoryService) upload(ctx context.Context, obj media.Object) (string, error) {
	return uploadImage(ctx, s.images, s.metrics, obj)
}

func (s *DirectoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, practitionerGenKey); err != nil {
		s.log.Warn("practitioner cache invalidation failed", zap.Error(err))
	}
}

func listKey(gen int64) string {
	return practitionerListKey + ":" + strconv.FormatInt(gen, 10)
}
