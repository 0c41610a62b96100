package v1

import (
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/account"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/service"
)

// Wire names follow the web clients, including the "experiance" spelling.

type accountView struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Image       string         `json:"image"`
	Phone       string         `json:"phone"`
	Address     domain.Address `json:"address"`
	Gender      string         `json:"gender"`
	DateOfBirth string         `json:"dob"`
}

func newAccountView(a *account.Account) accountView {
	return accountView{
		ID:          a.ID.String(),
		Name:        a.Name,
		Email:       a.Email,
		Image:       a.Image,
		Phone:       a.Phone,
		Address:     a.Address,
		Gender:      string(a.Gender),
		DateOfBirth: a.DateOfBirth,
	}
}

type accountSummaryView struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Image       string `json:"image"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dob"`
}

type practitionerView struct {
	ID          string              `json:"_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	Image       string              `json:"image"`
	Speciality  string              `json:"speciality"`
	Degree      string              `json:"degree"`
	Experience  string              `json:"experiance"`
	About       string              `json:"about"`
	Fees        int64               `json:"fees"`
	Address     domain.Address      `json:"address"`
	Available   bool                `json:"available"`
	Date        int64               `json:"date"`
	SlotsBooked map[string][]string `json:"slots_booked"`
}

func newPractitionerView(p *practitioner.Practitioner) practitionerView {
	slots := p.SlotsBooked
	if slots == nil {
		slots = map[string][]string{}
	}
	return practitionerView{
		ID:          p.ID.String(),
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Image:       p.Image,
		Speciality:  p.Speciality,
		Degree:      p.Degree,
		Experience:  p.Experience,
		About:       p.About,
		Fees:        p.Fees,
		Address:     p.Address,
		Available:   p.Available,
		Date:        p.CreatedAt.UnixMilli(),
		SlotsBooked: slots,
	}
}

func newPractitionerViews(list []*practitioner.Practitioner) []practitionerView {
	out := make([]practitionerView, 0, len(list))
	for _, p := range list {
		out = append(out, newPractitionerView(p))
	}
	return out
}

type practitionerSummaryView struct {
	ID         string         `json:"_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Image      string         `json:"image"`
	Speciality string         `json:"speciality"`
	Degree     string         `json:"degree"`
	Experience string         `json:"experiance"`
	Fees       int64          `json:"fees"`
	Address    domain.Address `json:"address"`
}

// appointmentView exposes the lifecycle as the cancelled / isCompleted pair
// alongside the status name.
type appointmentView struct {
	ID          string                   `json:"_id"`
	UserID      string                   `json:"userId"`
	DocID       string                   `json:"docId"`
	SlotDate    string                   `json:"slotDate"`
	SlotTime    string                   `json:"slotTime"`
	Amount      int64                    `json:"amount"`
	Date        int64                    `json:"date"`
	Status      string                   `json:"status"`
	Cancelled   bool                     `json:"cancelled"`
	IsCompleted bool                     `json:"isCompleted"`
	Payment     bool                     `json:"payment"`
	UserData    *accountSummaryView      `json:"userData,omitempty"`
	DocData     *practitionerSummaryView `json:"docData,omitempty"`
}

func newAppointmentView(a *appointment.Appointment) appointmentView {
	cancelled, completed := a.Flags()
	return appointmentView{
		ID:          a.ID.String(),
		UserID:      a.AccountID.String(),
		DocID:       a.PractitionerID.String(),
		SlotDate:    a.SlotDate,
		SlotTime:    a.SlotTime,
		Amount:      a.Amount,
		Date:        a.BookedAt.UnixMilli(),
		Status:      string(a.Status),
		Cancelled:   cancelled,
		IsCompleted: completed,
		Payment:     a.Paid,
	}
}

func newAppointmentDetailView(d *service.AppointmentDetail) appointmentView {
	v := newAppointmentView(d.Appointment)
	if s := d.Account; s != nil {
		v.UserData = &accountSummaryView{
			ID:          s.ID.String(),
			Name:        s.Name,
			Email:       s.Email,
			Image:       s.Image,
			Phone:       s.Phone,
			Gender:      string(s.Gender),
			DateOfBirth: s.DateOfBirth,
		}
	}
	if s := d.Practitioner; s != nil {
		v.DocData = &practitionerSummaryView{
			ID:         s.ID.String(),
			Name:       s.Name,
			Email:      s.Email,
			Image:      s.Image,
			Speciality: s.Speciality,
			Degree:     s.Degree,
			Experience: s.Experience,
			Fees:       s.Fees,
			Address:    s.Address,
		}
	}
	return v
}

func newAppointmentDetailViews(list []*service.AppointmentDetail) []appointmentView {
	out := make([]appointmentView, 0, len(list))
	for _, d := range list {
		out = append(out, newAppointmentDetailView(d))
	}
	return out
}

type statsView struct {
	TotalAppointments     int64 `json:"totalAppointments"`
	TotalDoctors          int64 `json:"totalDoctors"`
	PendingAppointments   int64 `json:"pendingAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
}

type practitionerDashboardView struct {
	Earnings           int64             `json:"earnings"`
	Appointments       int               `json:"appointments"`
	Patients           int               `json:"patients"`
	LatestAppointments []appointmentView `json:"latestAppointments"`
}
