package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedAccount(t *testing.T, db *gorm.DB, email string) *account.Account {
	t.Helper()
	a := &account.Account{
		Name:         "Test Patient",
		Email:        email,
		PasswordHash: "hash",
		Address:      domain.Address{Line1: "Flat 4", Line2: "Pune"},
	}
	if err := NewAccountRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func seedPractitioner(t *testing.T, db *gorm.DB, email string) *practitioner.Practitioner {
	t.Helper()
	p := &practitioner.Practitioner{
		Name:         "Dr. X",
		Email:        email,
		PasswordHash: "hash",
		Phone:        "9999999999",
		Image:        "https://img.test/x.png",
		Speciality:   "Dermatologist",
		Degree:       "MBBS",
		Experience:   "3 Years",
		About:        "Skin care.",
		Fees:         500,
		Address:      domain.Address{Line1: "12 Ring Road", Line2: "Delhi"},
		Available:    true,
	}
	if err := NewPractitionerRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("create practitioner: %v", err)
	}
	return p
}

func seedAppointment(t *testing.T, db *gorm.DB, accountID, practitionerID uuid.UUID, bookedAt time.Time) *appointment.Appointment {
	t.Helper()
	a := &appointment.Appointment{
		BookedAt:       bookedAt,
		AccountID:      accountID,
		PractitionerID: practitionerID,
		SlotDate:       "2024-01-10",
		SlotTime:       "10:00",
		Amount:         500,
		Status:         appointment.StatusBooked,
	}
	if err := NewAppointmentRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return a
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	db := freshDB(t)
	seedAccount(t, db, "a@x.com")

	err := NewAccountRepository(db).Create(context.Background(), &account.Account{
		Name: "Other", Email: "a@x.com", PasswordHash: "hash",
	})
	if !errors.Is(err, account.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountRepository_UpdateProfileKeepsAddress(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	a := seedAccount(t, db, "a@x.com")
	repo := NewAccountRepository(db)

	got, err := repo.UpdateProfile(ctx, a.ID, &account.UpdateProfileCommand{
		Name: "Asha", Phone: "9876543210", DateOfBirth: "1990-05-01", Gender: account.GenderFemale,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != "Asha" || got.Address.Line1 != "Flat 4" {
		t.Errorf("unexpected account %+v", got)
	}

	if _, err := repo.UpdateProfile(ctx, uuid.New(), &account.UpdateProfileCommand{Name: "x"}); !errors.Is(err, account.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestPractitionerRepository_DuplicateEmail(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	seedPractitioner(t, db, "drx@clinic.test")
	other := seedPractitioner(t, db, "dry@clinic.test")
	repo := NewPractitionerRepository(db)

	dup := *other
	dup.ID = uuid.Nil
	dup.Email = "drx@clinic.test"
	if err := repo.Create(ctx, &dup); !errors.Is(err, practitioner.ErrEmailTaken) {
		t.Errorf("create: expected ErrEmailTaken, got %v", err)
	}

	email := "drx@clinic.test"
	if _, err := repo.Update(ctx, other.ID, &practitioner.UpdatePractitionerCommand{Email: &email}); !errors.Is(err, practitioner.ErrEmailTaken) {
		t.Errorf("update: expected ErrEmailTaken, got %v", err)
	}
}

func TestPractitionerRepository_UpdateAndDelete(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	p := seedPractitioner(t, db, "drx@clinic.test")
	repo := NewPractitionerRepository(db)

	fees, available := int64(650), false
	got, err := repo.Update(ctx, p.ID, &practitioner.UpdatePractitionerCommand{Fees: &fees, Available: &available})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Fees != 650 || got.Available || got.Address.Line1 != "12 Ring Road" {
		t.Errorf("unexpected practitioner %+v", got)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		t.Errorf("expected ErrPractitionerNotFound, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Errorf("expected empty directory, got %d", n)
	}
}

func TestAppointmentRepository_UpdateStatusRace(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	acc := seedAccount(t, db, "a@x.com")
	p := seedPractitioner(t, db, "drx@clinic.test")
	appt := seedAppointment(t, db, acc.ID, p.ID, time.Now())
	repo := NewAppointmentRepository(db)

	const workers = 6
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		target := appointment.StatusCompleted
		if i%2 == 1 {
			target = appointment.StatusCancelled
		}
		wg.Add(1)
		go func(i int, target appointment.Status) {
			defer wg.Done()
			// Every worker loads the booked row before any of them writes.
			a, err := repo.GetByID(ctx, appt.ID)
			if err == nil {
				err = a.TransitionTo(target)
			}
			<-start
			if err == nil {
				err = repo.UpdateStatus(ctx, a)
			}
			errs[i] = err
		}(i, target)
	}
	close(start)
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case !errors.Is(err, appointment.ErrInvalidStatusTransition):
			t.Errorf("worker %d: expected ErrInvalidStatusTransition, got %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}

	stored, err := repo.GetByID(ctx, appt.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	cancelled, completed := stored.Flags()
	if cancelled == completed {
		t.Errorf("expected exactly one terminal flag, got %+v", stored)
	}
	if completed && stored.CompletedAt == nil || cancelled && stored.CancelledAt == nil {
		t.Error("terminal timestamp not stored")
	}
}

func TestAppointmentRepository_CountByStatus(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	acc := seedAccount(t, db, "a@x.com")
	p := seedPractitioner(t, db, "drx@clinic.test")
	repo := NewAppointmentRepository(db)

	now := time.Now()
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, seedAppointment(t, db, acc.ID, p.ID, now.Add(time.Duration(i)*time.Minute)).ID)
	}
	for i, target := range []appointment.Status{appointment.StatusCompleted, appointment.StatusCompleted, appointment.StatusCancelled} {
		a, err := repo.GetByID(ctx, ids[i])
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if err := a.TransitionTo(target); err != nil {
			t.Fatalf("TransitionTo: %v", err)
		}
		if err := repo.UpdateStatus(ctx, a); err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	want := map[appointment.Status]int64{
		appointment.StatusBooked:    2,
		appointment.StatusCompleted: 2,
		appointment.StatusCancelled: 1,
	}
	var total int64
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("%s: expected %d, got %d", status, n, counts[status])
		}
		total += counts[status]
	}
	if total != int64(len(ids)) {
		t.Errorf("counts do not add up to %d: %v", len(ids), counts)
	}
}

func TestAppointmentRepository_ListingOrder(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	acc := seedAccount(t, db, "a@x.com")
	other := seedAccount(t, db, "b@x.com")
	p := seedPractitioner(t, db, "drx@clinic.test")
	repo := NewAppointmentRepository(db)

	base := time.Now().Add(-time.Hour)
	// Inserted out of order so the result reflects booked_at, not insertion.
	second := seedAppointment(t, db, acc.ID, p.ID, base.Add(2*time.Minute))
	first := seedAppointment(t, db, acc.ID, p.ID, base.Add(1*time.Minute))
	third := seedAppointment(t, db, other.ID, p.ID, base.Add(3*time.Minute))

	mine, err := repo.ListByAccount(ctx, acc.ID)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	assertOrder(t, "account", mine, first.ID, second.ID)

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	assertOrder(t, "all", all, first.ID, second.ID, third.ID)

	doctors, err := repo.ListByPractitioner(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByPractitioner: %v", err)
	}
	assertOrder(t, "practitioner", doctors, third.ID, second.ID, first.ID)
}

func assertOrder(t *testing.T, name string, got []*appointment.Appointment, want ...uuid.UUID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d appointments, got %d", name, len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("%s: position %d: expected %s, got %s", name, i, want[i], got[i].ID)
		}
	}
}
