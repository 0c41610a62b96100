package practitioner

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/google/uuid"
)

// Practitioner is a bookable doctor profile managed by the operator.
// Removal is a hard delete: appointments keep a dangling PractitionerID.
type Practitioner struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name         string `gorm:"column:name;type:varchar(150);not null"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	Phone        string `gorm:"column:phone;type:varchar(20);not null"`
	Image        string `gorm:"column:image;type:text;not null"`

	Speciality string `gorm:"column:speciality;type:varchar(100);not null;index"`
	Degree     string `gorm:"column:degree;type:varchar(100);not null"`
	Experience string `gorm:"column:experience;type:varchar(50);not null"`
	About      string `gorm:"column:about;type:text;not null"`
	Fees       int64  `gorm:"column:fees;not null"`

	Address   domain.Address `gorm:"column:address;type:jsonb"`
	Available bool           `gorm:"column:available;not null;default:true;index"`

	// SlotsBooked maps a slot date to its booked times. Booking does not
	// consult it.
	SlotsBooked map[string][]string `gorm:"column:slots_booked;serializer:json"`
}

func (Practitioner) TableName() string {
	return "clinic.practitioners"
}

// Summary is the slice of a practitioner joined into appointment listings.
type Summary struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Image      string
	Speciality string
	Degree     string
	Experience string
	Fees       int64
	Address    domain.Address
}

func (p *Practitioner) Summary() Summary {
	return Summary{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Image:      p.Image,
		Speciality: p.Speciality,
		Degree:     p.Degree,
		Experience: p.Experience,
		Fees:       p.Fees,
		Address:    p.Address,
	}
}

type CreatePractitionerCommand struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Speciality string
	Degree     string
	Experience string
	About      string
	Fees       int64
	Address    domain.Address
	Image      string
}

// UpdatePractitionerCommand is a partial update; nil fields are left alone.
// Email changes are not re-checked for uniqueness beyond the store's index.
type UpdatePractitionerCommand struct {
	Name       *string
	Email      *string
	Phone      *string
	Speciality *string
	Degree     *string
	Experience *string
	About      *string
	Fees       *int64
	Address    *domain.Address
	Image      *string
	Available  *bool
}

// SelfUpdateCommand holds the fields a practitioner may change on their own
// profile. A nil Address leaves the stored one alone.
type SelfUpdateCommand struct {
	Fees      int64
	Address   *domain.Address
	Available bool
}
