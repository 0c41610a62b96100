package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"go.uber.org/zap"
)

func validCreateCommand() *practitioner.CreatePractitionerCommand {
	return &practitioner.CreatePractitionerCommand{
		Name:       "Dr. X",
		Email:      "drx@clinic.test",
		Password:   "Str0ng!Pass",
		Phone:      "9999999999",
		Speciality: "Dermatologist",
		Degree:     "MBBS",
		Experience: "3 Years",
		About:      "Skin care.",
		Fees:       500,
		Address:    domain.Address{Line1: "1 Main St"},
	}
}

func TestAddPractitioner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.directory.AddPractitioner(ctx, validCreateCommand(), testImage())
	if err != nil {
		t.Fatalf("AddPractitioner: %v", err)
	}
	if !p.Available {
		t.Error("new practitioners start available")
	}
	if p.PasswordHash == "" || p.PasswordHash == "Str0ng!Pass" {
		t.Error("password must be stored hashed")
	}
	if len(env.images.uploads) != 1 || env.images.uploads[0].Folder != "doctors" {
		t.Errorf("expected one upload into doctors, got %+v", env.images.uploads)
	}

	if _, err := env.directory.AddPractitioner(ctx, validCreateCommand(), testImage()); !errors.Is(err, practitioner.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAddPractitioner_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*practitioner.CreatePractitionerCommand)
		image  *media.Object
		want   error
	}{
		{"missing field", func(c *practitioner.CreatePractitionerCommand) { c.Degree = "" }, testImage(), ErrFieldsRequired},
		{"missing address", func(c *practitioner.CreatePractitionerCommand) { c.Address = domain.Address{} }, testImage(), ErrFieldsRequired},
		{"missing image", func(*practitioner.CreatePractitionerCommand) {}, nil, practitioner.ErrImageRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCreateCommand()
			tt.mutate(cmd)
			if _, err := env.directory.AddPractitioner(ctx, cmd, tt.image); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	invalid := []struct {
		name   string
		mutate func(*practitioner.CreatePractitionerCommand)
		image  *media.Object
	}{
		{"weak password", func(c *practitioner.CreatePractitionerCommand) { c.Password = "password" }, testImage()},
		{"bad email", func(c *practitioner.CreatePractitionerCommand) { c.Email = "drx" }, testImage()},
		{"negative fee", func(c *practitioner.CreatePractitionerCommand) { c.Fees = -1 }, testImage()},
		{"not an image", func(*practitioner.CreatePractitionerCommand) {}, &media.Object{ContentType: "text/plain", Size: 3}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			env.images.err = nil
			if tt.image != nil && tt.image.ContentType == "text/plain" {
				env.images.err = media.ErrUnsupportedType
			}
			cmd := validCreateCommand()
			tt.mutate(cmd)
			_, err := env.directory.AddPractitioner(ctx, cmd, tt.image)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestListPractitioners_CacheAndInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPractitioner(t, "Dr. X", "drx@clinic.test", 500)

	first, err := env.directory.ListPractitioners(ctx)
	if err != nil {
		t.Fatalf("ListPractitioners: %v", err)
	}
	if len(first) != 1 || first[0].PasswordHash != "" {
		t.Fatalf("expected one practitioner without a password hash")
	}

	if _, err := env.directory.ListPractitioners(ctx); err != nil {
		t.Fatalf("ListPractitioners: %v", err)
	}
	if env.cache.hits != 1 {
		t.Errorf("expected second listing from cache, hits=%d", env.cache.hits)
	}

	if _, err := env.directory.ChangeAvailability(ctx, p.ID); err != nil {
		t.Fatalf("ChangeAvailability: %v", err)
	}
	after, err := env.directory.ListPractitioners(ctx)
	if err != nil {
		t.Fatalf("ListPractitioners: %v", err)
	}
	if after[0].Available {
		t.Error("listing must reflect the availability change")
	}
}

// pausingListRepo holds a listing after its snapshot is taken so a write
// can land before the reader fills the cache.
type pausingListRepo struct {
	*mockPractitionerRepo
	listed  chan struct{}
	release chan struct{}
}

func (r *pausingListRepo) List(ctx context.Context) ([]*practitioner.Practitioner, error) {
	list, err := r.mockPractitionerRepo.List(ctx)
	close(r.listed)
	<-r.release
	return list, err
}

func TestListPractitioners_StaleFillAfterDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPractitioner(t, "Dr. X", "drx@clinic.test", 500)

	slowRepo := &pausingListRepo{
		mockPractitionerRepo: env.practitioners,
		listed:               make(chan struct{}),
		release:              make(chan struct{}),
	}
	slow := NewDirectoryService(slowRepo, env.images, env.cache, time.Minute, metrics.NewCollector("test"), zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := slow.ListPractitioners(ctx)
		done <- err
	}()

	<-slowRepo.listed
	if err := env.directory.DeletePractitioner(ctx, p.ID); err != nil {
		t.Fatalf("DeletePractitioner: %v", err)
	}
	close(slowRepo.release)
	if err := <-done; err != nil {
		t.Fatalf("slow ListPractitioners: %v", err)
	}

	list, err := env.directory.ListPractitioners(ctx)
	if err != nil {
		t.Fatalf("ListPractitioners: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deleted practitioner served from cache: %d items", len(list))
	}
}

func TestListPractitioners_WithoutCache(t *testing.T) {
	env := newTestEnv(t)
	env.directory.cache = nil
	env.addPractitioner(t, "Dr. X", "drx@clinic.test", 500)
	env.addPractitioner(t, "Dr. Y", "dry@clinic.test", 600)

	list, err := env.directory.ListPractitioners(context.Background())
	if err != nil {
		t.Fatalf("ListPractitioners: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Dr. X" {
		t.Errorf("expected creation order, got %d items", len(list))
	}
}

func TestUpdatePractitioner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPractitioner(t, "Dr. X", "drx@clinic.test", 500)

	updated, err := env.directory.UpdatePractitioner(ctx, p.ID, &practitioner.UpdatePractitionerCommand{
		Name:  ptr("Dr. X Senior"),
		Email: ptr(" DRX2@clinic.test "),
	}, testImage())
	if err != nil {
		t.Fatalf("UpdatePractitioner: %v", err)
	}
	if updated.Name != "Dr. X Senior" || updated.Email != "drx2@clinic.test" {
		t.Errorf("unexpected update result %+v", updated)
	}
	if updated.Image == p.Image {
		t.Error("expected image to be replaced")
	}

	_, err = env.directory.UpdatePractitioner(ctx, p.ID, &practitioner.UpdatePractitionerCommand{Fees: ptr(int64(0))}, nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for zero fee, got %v", err)
	}

	if _, err := env.directory.UpdatePractitioner(ctx, newID(), &practitioner.UpdatePractitionerCommand{}, nil); !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		t.Errorf("expected ErrPractitionerNotFound, got %v", err)
	}

	uploads := len(env.images.uploads)
	if _, err := env.directory.UpdatePractitioner(ctx, newID(), &practitioner.UpdatePractitionerCommand{}, testImage()); !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		t.Errorf("expected ErrPractitionerNotFound with image, got %v", err)
	}
	if len(env.images.uploads) != uploads {
		t.Error("unknown practitioner must not trigger an upload")
	}
}

func TestUpdateOwnProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPractitioner(t, "Dr. X", "drx@clinic.test", 500)

	updated, err := env.directory.UpdateOwnProfile(ctx, p.ID, &practitioner.SelfUpdateCommand{
		Fees:      650,
		Address:   &domain.Address{Line1: "New clinic"},
		Available: false,
	})
	if err != nil {
		t.Fatalf("UpdateOwnProfile: %v", err)
	}
	if updated.Fees != 650 || updated.Available || updated.Address.Line1 != "New clinic" {
		t.Errorf("unexpected profile %+v", updated)
	}
	if updated.Name != "Dr. X" {
		t.Error("self update must not touch other fields")
	}

	updated, err = env.directory.UpdateOwnProfile(ctx, p.ID, &practitioner.SelfUpdateCommand{Fees: 700, Available: true})
	if err != nil {
		t.Fatalf("UpdateOwnProfile without address: %v", err)
	}
	if updated.Fees != 700 || updated.Address.Line1 != "New clinic" {
		t.Errorf("omitted address must be kept, got %+v", updated.Address)
	}
}

func TestDeletePractitioner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPractitioner(t, "Dr. X", "drx@clinic.test", 500)

	if err := env.directory.DeletePractitioner(ctx, p.ID); err != nil {
		t.Fatalf("DeletePractitioner: %v", err)
	}
	if _, err := env.directory.GetPractitioner(ctx, p.ID); !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		t.Errorf("expected ErrPractitionerNotFound, got %v", err)
	}
	if err := env.directory.DeletePractitioner(ctx, p.ID); !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		t.Errorf("expected ErrPractitionerNotFound on second delete, got %v", err)
	}
}

func TestAccountProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acc := env.registerAccount(t, "a@x.com")

	got, err := env.profiles.GetProfile(ctx, acc.SubjectID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Gender != account.GenderNotSelected || got.Phone != "0000000000" {
		t.Errorf("unexpected registration defaults %+v", got)
	}

	updated, err := env.profiles.UpdateProfile(ctx, acc.SubjectID, &account.UpdateProfileCommand{
		Name:        "Asha",
		Phone:       "9876543210",
		Address:     &domain.Address{Line1: "Flat 4"},
		DateOfBirth: "1990-05-01",
		Gender:      account.GenderFemale,
	}, testImage())
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Asha" || updated.Image == "" {
		t.Errorf("unexpected profile %+v", updated)
	}
	if last := env.images.uploads[len(env.images.uploads)-1]; last.Folder != "users" {
		t.Errorf("expected upload into users, got %s", last.Folder)
	}

	kept, err := env.profiles.UpdateProfile(ctx, acc.SubjectID, &account.UpdateProfileCommand{
		Name: "Asha R", Phone: "9876543210", DateOfBirth: "1990-05-01", Gender: account.GenderFemale,
	}, nil)
	if err != nil {
		t.Fatalf("UpdateProfile without address: %v", err)
	}
	if kept.Name != "Asha R" || kept.Address.Line1 != "Flat 4" {
		t.Errorf("omitted address must be kept, got %+v", kept.Address)
	}

	_, err = env.profiles.UpdateProfile(ctx, acc.SubjectID, &account.UpdateProfileCommand{
		Name: "Asha", Phone: "1", DateOfBirth: "1990-05-01", Gender: "Unknown",
	}, nil)
	if !errors.Is(err, account.ErrInvalidGender) {
		t.Errorf("expected ErrInvalidGender, got %v", err)
	}
}
