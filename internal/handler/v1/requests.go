package v1

import (
	"bytes"
	"encoding/json"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type bookRequest struct {
	DocID    string `json:"docId" form:"docId" binding:"required"`
	SlotDate string `json:"slotDate" form:"slotDate" binding:"required"`
	SlotTime string `json:"slotTime" form:"slotTime" binding:"required"`
}

type appointmentRequest struct {
	AppointmentID string `json:"appointmentId" form:"appointmentId" binding:"required"`
}

type updateStatusRequest struct {
	AppointmentID string `json:"appointmentId" form:"appointmentId" binding:"required"`
	Status        string `json:"status" form:"status" binding:"required,oneof=completed cancelled"`
}

type deletePractitionerRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

type availabilityRequest struct {
	DocID string `json:"docId" form:"docId" binding:"required"`
}

type updateProfileRequest struct {
	Name        string       `json:"name" form:"name"`
	Phone       string       `json:"phone" form:"phone"`
	Address     addressField `json:"address" form:"address"`
	DateOfBirth string       `json:"dob" form:"dob"`
	Gender      string       `json:"gender" form:"gender"`
}

// addPractitionerRequest is multipart. Required-ness is checked by the
// service so that a missing image and missing fields report consistently.
type addPractitionerRequest struct {
	Name       string       `form:"name"`
	Email      string       `form:"email"`
	Password   string       `form:"password"`
	Phone      string       `form:"phone"`
	Speciality string       `form:"speciality"`
	Degree     string       `form:"degree"`
	Experiance string       `form:"experiance"`
	Experience string       `form:"experience"`
	About      string       `form:"about"`
	Fees       feesField    `form:"fees"`
	Address    addressField `form:"address"`
}

func (r *addPractitionerRequest) experience() string {
	if r.Experiance != "" {
		return r.Experiance
	}
	return r.Experience
}

// updatePractitionerRequest treats empty fields as unchanged.
type updatePractitionerRequest struct {
	DocID      string       `json:"docId" form:"docId" binding:"required"`
	Name       string       `json:"name" form:"name"`
	Email      string       `json:"email" form:"email"`
	Phone      string       `json:"phone" form:"phone"`
	Speciality string       `json:"speciality" form:"speciality"`
	Degree     string       `json:"degree" form:"degree"`
	Experiance string       `json:"experiance" form:"experiance"`
	Experience string       `json:"experience" form:"experience"`
	About      string       `json:"about" form:"about"`
	Fees       feesField    `json:"fees" form:"fees"`
	Address    addressField `json:"address" form:"address"`
}

type practitionerProfileRequest struct {
	Fees      feesField    `json:"fees" binding:"required"`
	Address   addressField `json:"address"`
	Available *bool        `json:"available" binding:"required"`
}

// addressField decodes an address sent either as a JSON object or as a
// JSON-encoded string, which is how multipart clients send it.
type addressField struct {
	domain.Address
}

func (a *addressField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		return a.UnmarshalParam(raw)
	}
	if string(b) == "null" {
		return nil
	}
	addr, err := parseAddress(string(b))
	a.Address = addr
	return err
}

// ptr returns nil when no address was sent.
func (a addressField) ptr() *domain.Address {
	if a.IsZero() {
		return nil
	}
	addr := a.Address
	return &addr
}

// UnmarshalParam lets gin's form binding decode the field.
func (a *addressField) UnmarshalParam(raw string) error {
	addr, err := parseAddress(raw)
	a.Address = addr
	return err
}

// feesField accepts a number or a numeric string. Zero means absent.
type feesField int64

func (f *feesField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	return f.UnmarshalParam(raw)
}

func (f *feesField) UnmarshalParam(raw string) error {
	v, err := parseFees(raw)
	*f = feesField(v)
	return err
}
