package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/operator"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/google/uuid"
)

// -- Mock Repositories --
// Every mock hands out copies so services cannot mutate stored rows behind
// the repository's back.

type mockAccountRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*account.Account
	order []uuid.UUID
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{rows: make(map[uuid.UUID]*account.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == a.Email {
			return account.ErrEmailTaken
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	m.rows[a.ID] = &cp
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *mockAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockAccountRepo) UpdateProfile(_ context.Context, id uuid.UUID, cmd *account.UpdateProfileCommand) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	r.Name = cmd.Name
	r.Phone = cmd.Phone
	if cmd.Address != nil {
		r.Address = *cmd.Address
	}
	r.DateOfBirth = cmd.DateOfBirth
	r.Gender = cmd.Gender
	if cmd.Image != "" {
		r.Image = cmd.Image
	}
	cp := *r
	return &cp, nil
}

func (m *mockAccountRepo) GetMany(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]*account.Account)
	for _, id := range ids {
		if r, ok := m.rows[id]; ok {
			cp := *r
			out[id] = &cp
		}
	}
	return out, nil
}

type mockPractitionerRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*practitioner.Practitioner
	order []uuid.UUID
}

func newMockPractitionerRepo() *mockPractitionerRepo {
	return &mockPractitionerRepo{rows: make(map[uuid.UUID]*practitioner.Practitioner)}
}

func (m *mockPractitionerRepo) Create(_ context.Context, p *practitioner.Practitioner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == p.Email {
			return practitioner.ErrEmailTaken
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	m.rows[p.ID] = &cp
	m.order = append(m.order, p.ID)
	return nil
}

func (m *mockPractitionerRepo) GetByID(_ context.Context, id uuid.UUID) (*practitioner.Practitioner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, practitioner.ErrPractitionerNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockPractitionerRepo) GetByEmail(_ context.Context, email string) (*practitioner.Practitioner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, practitioner.ErrPractitionerNotFound
}

func (m *mockPractitionerRepo) List(_ context.Context) ([]*practitioner.Practitioner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*practitioner.Practitioner, 0, len(m.order))
	for _, id := range m.order {
		if r, ok := m.rows[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockPractitionerRepo) Update(_ context.Context, id uuid.UUID, cmd *practitioner.UpdatePractitionerCommand) (*practitioner.Practitioner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, practitioner.ErrPractitionerNotFound
	}
	if cmd.Name != nil {
		r.Name = *cmd.Name
	}
	if cmd.Email != nil {
		r.Email = *cmd.Email
	}
	if cmd.Phone != nil {
		r.Phone = *cmd.Phone
	}
	if cmd.Speciality != nil {
		r.Speciality = *cmd.Speciality
	}
	if cmd.Degree != nil {
		r.Degree = *cmd.Degree
	}
	if cmd.Experience != nil {
		r.Experience = *cmd.Experience
	}
	if cmd.About != nil {
		r.About = *cmd.About
	}
	if cmd.Fees != nil {
		r.Fees = *cmd.Fees
	}
	if cmd.Address != nil {
		r.Address = *cmd.Address
	}
	if cmd.Image != nil {
		r.Image = *cmd.Image
	}
	if cmd.Available != nil {
		r.Available = *cmd.Available
	}
	cp := *r
	return &cp, nil
}

func (m *mockPractitionerRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return practitioner.ErrPractitionerNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *mockPractitionerRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *mockPractitionerRepo) GetMany(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*practitioner.Practitioner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]*practitioner.Practitioner)
	for _, id := range ids {
		if r, ok := m.rows[id]; ok {
			cp := *r
			out[id] = &cp
		}
	}
	return out, nil
}

type mockAppointmentRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*appointment.Appointment
	order []uuid.UUID
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{rows: make(map[uuid.UUID]*appointment.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.BookedAt = time.Now()
	cp := *a
	m.rows[a.ID] = &cp
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockAppointmentRepo) filter(keep func(*appointment.Appointment) bool) []*appointment.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*appointment.Appointment, 0)
	for _, id := range m.order {
		if r := m.rows[id]; keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

func (m *mockAppointmentRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*appointment.Appointment, error) {
	return m.filter(func(a *appointment.Appointment) bool { return a.AccountID == accountID }), nil
}

func (m *mockAppointmentRepo) ListAll(_ context.Context) ([]*appointment.Appointment, error) {
	return m.filter(func(*appointment.Appointment) bool { return true }), nil
}

func (m *mockAppointmentRepo) ListByPractitioner(_ context.Context, practitionerID uuid.UUID) ([]*appointment.Appointment, error) {
	out := m.filter(func(a *appointment.Appointment) bool { return a.PractitionerID == practitionerID })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	if r.Status != appointment.StatusBooked {
		return appointment.ErrInvalidStatusTransition
	}
	r.Status = a.Status
	r.CompletedAt = a.CompletedAt
	r.CancelledAt = a.CancelledAt
	return nil
}

func (m *mockAppointmentRepo) MarkPaid(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	r.Paid = true
	cp := *r
	return &cp, nil
}

func (m *mockAppointmentRepo) CountByStatus(_ context.Context) (map[appointment.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[appointment.Status]int64)
	for _, r := range m.rows {
		out[r.Status]++
	}
	return out, nil
}

type mockOperatorRepo struct {
	mu   sync.Mutex
	rows map[string]*operator.Operator
}

func newMockOperatorRepo() *mockOperatorRepo {
	return &mockOperatorRepo{rows: make(map[string]*operator.Operator)}
}

func (m *mockOperatorRepo) Create(_ context.Context, o *operator.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.New()
	cp := *o
	m.rows[o.Email] = &cp
	return nil
}

func (m *mockOperatorRepo) GetByEmail(_ context.Context, email string) (*operator.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[email]
	if !ok {
		return nil, operator.ErrOperatorNotFound
	}
	cp := *o
	return &cp, nil
}

// -- Fakes --

type fakeStore struct {
	mu      sync.Mutex
	uploads []media.Object
	err     error
}

func (f *fakeStore) Upload(_ context.Context, obj media.Object) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, obj)
	return "https://cdn.test/" + obj.Folder + "/" + uuid.NewString(), nil
}

type fakeCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	counters map[string]int64
	gets     int
	hits     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte), counters: make(map[string]int64)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	b, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = b
	return nil
}

func (f *fakeCache) Counter(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[key], nil
}

func (f *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}
